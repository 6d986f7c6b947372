package backend

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alex-ozdemir/gg/internal/execgraph"
	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// ReduceFunc computes the reduction for one thunk, without touching a
// real filesystem or subprocess — the hook SimulatedPool calls into.
type ReduceFunc func(ctx context.Context, hash ggh.Hash, t *thunk.Thunk) (execgraph.Reduction, error)

// SimulatedPool is an ExecutionBackend that runs a caller-supplied
// ReduceFunc across up to Concurrency goroutines at once, using
// golang.org/x/sync/errgroup to bound fan-out and propagate the first
// error. It exists for testing the engine's dispatch loop and for
// simulating a cluster of workers without actually spawning processes.
type SimulatedPool struct {
	Concurrency int
	Reduce      ReduceFunc
}

// Execute runs Reduce for a single thunk directly. Concurrency is not
// applied here: concurrent Execute calls are not limited by the pool;
// only ExecuteAll bounds its own fan-out.
func (p *SimulatedPool) Execute(ctx context.Context, hash ggh.Hash, t *thunk.Thunk) (execgraph.Reduction, error) {
	return p.Reduce(ctx, hash, t)
}

// ExecuteAll runs Execute for every (hash, thunk) pair in batch
// concurrently, bounded by Concurrency, returning as soon as any one
// call errors or ctx is canceled.
func (p *SimulatedPool) ExecuteAll(ctx context.Context, batch map[ggh.Hash]*thunk.Thunk) (map[ggh.Hash]execgraph.Reduction, error) {
	g, ctx := errgroup.WithContext(ctx)
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}

	results := make(map[ggh.Hash]execgraph.Reduction, len(batch))
	var mu sync.Mutex

	for hash, t := range batch {
		hash, t := hash, t
		g.Go(func() error {
			red, err := p.Execute(ctx, hash, t)
			if err != nil {
				return err
			}
			mu.Lock()
			results[hash] = red
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
