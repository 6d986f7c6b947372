package execgraph

import (
	"github.com/alex-ozdemir/gg/internal/computation"
	"github.com/alex-ozdemir/gg/internal/thunk"
)

// QueryValue returns the recorded outputs of the computation named by
// hash, if the graph has one and it has fully reduced to a value. The
// second return is false if hash is untracked or still an unreduced
// thunk — callers should treat both the same way: "not ready yet",
// without distinguishing why.
func (g *ExecutionGraph) QueryValue(hash Hash) ([]thunk.Output, bool) {
	id, ok := g.idByHash[hash.Base()]
	if !ok {
		return nil, false
	}
	comp := g.byID[id]
	if comp.Kind() != computation.KindValue {
		return nil, false
	}
	return comp.Outputs, true
}
