package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alex-ozdemir/gg/internal/backend"
	"github.com/alex-ozdemir/gg/internal/backendplugin"
	"github.com/alex-ozdemir/gg/internal/execgraph"
	"github.com/alex-ozdemir/gg/internal/thunk"
)

// Hash is a local alias so the rest of this package reads naturally.
type Hash = execgraph.Hash

// DefaultConcurrency is used when Engine.Concurrency is left at zero.
const DefaultConcurrency = 4

// Engine owns one ExecutionGraph and drives it to completion for a
// requested root, dispatching its order-one frontier to Backend through
// a bounded worker pool. An Engine value must not be shared across more
// than one concurrent call to Run.
type Engine struct {
	Graph   *execgraph.ExecutionGraph
	Loader  execgraph.Loader
	Backend backend.ExecutionBackend

	// Plugins, if set, wraps every backend invocation with
	// BeforeExecute/AfterExecute hooks. Nil means no plugins are wired in.
	Plugins *backendplugin.HookEngine

	// Concurrency bounds how many thunks Backend.Execute runs at once.
	// Zero means DefaultConcurrency.
	Concurrency int

	Logger *zap.Logger

	// Removed accumulates every hash SubmitReduction has reported as
	// garbage-collectable over this Engine's lifetime (across however
	// many calls to Run it has driven). Callers that keep blobs on disk
	// can drain this after Run returns to know what is now safe to
	// delete; Run never clears it itself.
	Removed []Hash
}

type workItem struct {
	hash Hash
	t    *thunk.Thunk
}

type workResult struct {
	hash Hash
	red  execgraph.Reduction
	err  error
}

// Run adds rootHash to the graph (unless it is already tracked) and
// drives reductions until rootHash names a value, returning its
// outputs. It returns an error if the context is canceled, a backend
// invocation fails, or the graph's order-one frontier runs dry before
// rootHash resolves (a dependency cycle or a missing thunk upstream).
func (e *Engine) Run(ctx context.Context, rootHash Hash) ([]thunk.Output, error) {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if outputs, ok := e.Graph.QueryValue(rootHash); ok {
		return outputs, nil
	}

	frontier, err := e.frontierForRoot(rootHash)
	if err != nil {
		return nil, err
	}

	workCh := make(chan workItem, concurrency)
	doneCh := make(chan workResult, concurrency)

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	for i := 0; i < concurrency; i++ {
		go e.worker(workerCtx, workCh, doneCh)
	}
	defer close(workCh)

	dispatched := make(map[Hash]struct{})
	inFlight := 0

	dispatch := func() error {
		for hash := range frontier {
			if _, ok := dispatched[hash]; ok {
				continue
			}
			t, err := e.Loader.LoadThunk(hash)
			if err != nil {
				return fmt.Errorf("engine: loading order-one thunk %s: %w", hash, err)
			}
			dispatched[hash] = struct{}{}
			inFlight++
			select {
			case workCh <- workItem{hash: hash, t: t}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		frontier = make(map[Hash]struct{})
		return nil
	}

	if err := dispatch(); err != nil {
		return nil, err
	}

	for {
		if outputs, ok := e.Graph.QueryValue(rootHash); ok {
			return outputs, nil
		}
		if inFlight == 0 {
			return nil, fmt.Errorf("engine: order-one frontier ran dry before %s resolved to a value", rootHash)
		}

		select {
		case res := <-doneCh:
			inFlight--
			delete(dispatched, res.hash)
			if res.err != nil {
				return nil, fmt.Errorf("engine: executing %s: %w", res.hash, res.err)
			}
			log.Debug("thunk reduced", zap.String("hash", string(res.hash)))

			newFrontier, removed, err := e.Graph.SubmitReduction(res.hash, res.red, e.Loader)
			if err != nil {
				return nil, fmt.Errorf("engine: submitting reduction for %s: %w", res.hash, err)
			}
			e.Removed = append(e.Removed, removed...)
			frontier = newFrontier
			if err := dispatch(); err != nil {
				return nil, err
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// frontierForRoot returns rootHash's current order-one frontier,
// registering it with the graph first if this is the first time Run
// has seen it.
func (e *Engine) frontierForRoot(rootHash Hash) (map[Hash]struct{}, error) {
	frontier, err := e.Graph.OrderOneDependencies(rootHash)
	if err == nil {
		return frontier, nil
	}
	if _, unknown := err.(*execgraph.UnknownComputationError); !unknown {
		return nil, fmt.Errorf("engine: computing order-one frontier for %s: %w", rootHash, err)
	}
	frontier, err = e.Graph.AddThunk(rootHash, e.Loader)
	if err != nil {
		return nil, fmt.Errorf("engine: adding root thunk %s: %w", rootHash, err)
	}
	return frontier, nil
}

func (e *Engine) worker(ctx context.Context, workCh <-chan workItem, doneCh chan<- workResult) {
	for w := range workCh {
		e.runOne(ctx, w, doneCh)
	}
}

func (e *Engine) runOne(ctx context.Context, w workItem, doneCh chan<- workResult) {
	if e.Plugins != nil {
		e.Plugins.BeforeExecute(ctx, string(w.hash))
	}
	red, err := e.Backend.Execute(ctx, w.hash, w.t)
	if e.Plugins != nil {
		e.Plugins.AfterExecute(ctx, string(w.hash), err)
	}
	select {
	case doneCh <- workResult{hash: w.hash, red: red, err: err}:
	case <-ctx.Done():
	}
}
