package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/gg/internal/execgraph"
	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

type memLoader struct{ byHash map[Hash]*thunk.Thunk }

func newMemLoader() *memLoader { return &memLoader{byHash: make(map[Hash]*thunk.Thunk)} }

func (m *memLoader) LoadThunk(h Hash) (*thunk.Thunk, error) {
	t, ok := m.byHash[h.Base()]
	if !ok {
		return nil, &execgraph.UnknownComputationError{Hash: string(h)}
	}
	return t, nil
}

func (m *memLoader) put(t *thunk.Thunk) Hash {
	h := t.Hash()
	m.byHash[h] = t
	return h
}

func exeHash(seed string) Hash { return ggh.Compute(ggh.Executable, []byte(seed), "") }

func leafThunk(seed string) *thunk.Thunk {
	return &thunk.Thunk{
		Function: thunk.Function{Executable: exeHash(seed)},
		Outputs:  []string{"out"},
	}
}

// deterministicBackend resolves every thunk it is asked to execute
// straight to a single value, derived deterministically from the
// thunk's own hash, so a whole run's result is reproducible without
// touching a filesystem or subprocess.
type deterministicBackend struct{}

func (deterministicBackend) Execute(_ context.Context, hash ggh.Hash, t *thunk.Thunk) (execgraph.Reduction, error) {
	out := ggh.Compute(ggh.Value, []byte(hash), "out")
	return execgraph.Reduction{ToValues: []thunk.Output{{Hash: out, Name: t.Outputs[0]}}}, nil
}

type erroringBackend struct{}

func (erroringBackend) Execute(context.Context, ggh.Hash, *thunk.Thunk) (execgraph.Reduction, error) {
	return execgraph.Reduction{}, errors.New("boom")
}

func TestEngineRunResolvesSingleThunk(t *testing.T) {
	loader := newMemLoader()
	leaf := leafThunk("leaf")
	leafHash := loader.put(leaf)

	e := &Engine{
		Graph:       execgraph.New(false),
		Loader:      loader,
		Backend:     deterministicBackend{},
		Concurrency: 2,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	outputs, err := e.Run(ctx, leafHash)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	want := ggh.Compute(ggh.Value, []byte(leafHash), "out")
	require.Equal(t, want, outputs[0].Hash)
}

func TestEngineRunResolvesChain(t *testing.T) {
	loader := newMemLoader()
	child := leafThunk("child")
	childHash := loader.put(child)

	root := &thunk.Thunk{
		Function: thunk.Function{
			Executable: exeHash("root"),
			Argv:       []thunk.ArgItem{{Placeholder: &thunk.Placeholder{Hash: childHash}}},
		},
		Thunks:  []thunk.DataItem{{Hash: childHash, Name: "dep"}},
		Outputs: []string{"out"},
	}
	rootHash := loader.put(root)

	e := &Engine{
		Graph:       execgraph.New(false),
		Loader:      loader,
		Backend:     deterministicBackend{},
		Concurrency: 4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	outputs, err := e.Run(ctx, rootHash)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	require.NotEmpty(t, e.Removed, "expected the resolved chain to leave at least one hash garbage-collectable")
}

func TestEngineRunPropagatesBackendError(t *testing.T) {
	loader := newMemLoader()
	leaf := leafThunk("leaf")
	leafHash := loader.put(leaf)

	e := &Engine{
		Graph:   execgraph.New(false),
		Loader:  loader,
		Backend: erroringBackend{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := e.Run(ctx, leafHash)
	require.Error(t, err, "expected an error from a backend that always fails")
}

func TestEngineRunReturnsImmediatelyForAlreadyResolvedRoot(t *testing.T) {
	loader := newMemLoader()
	leaf := leafThunk("leaf")
	leafHash := loader.put(leaf)

	g := execgraph.New(false)
	_, err := g.AddThunk(leafHash, loader)
	require.NoError(t, err)
	want := ggh.Compute(ggh.Value, []byte("precomputed"), "")
	_, _, err = g.SubmitReduction(leafHash, execgraph.Reduction{ToValues: []thunk.Output{{Hash: want, Name: "out"}}}, loader)
	require.NoError(t, err)

	e := &Engine{Graph: g, Loader: loader, Backend: erroringBackend{}}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	outputs, err := e.Run(ctx, leafHash)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	require.Equal(t, want, outputs[0].Hash)
}
