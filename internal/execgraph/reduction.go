package execgraph

import (
	"fmt"

	"github.com/alex-ozdemir/gg/internal/computation"
	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// Reduction describes the result of evaluating one thunk one step.
// Exactly one of ToThunk or ToValues should be set.
type Reduction struct {
	// ToThunk is set for a partial reduction: the thunk being reported
	// on is replaced in place by a new, hopefully smaller, thunk that
	// still has to run further before it produces values.
	ToThunk Hash

	// ToValues is set for a full reduction: the thunk being reported on
	// has finished, producing one value or executable hash per declared
	// output name.
	ToValues []thunk.Output
}

// SubmitReduction reports that the thunk currently known as from has
// reduced as described by red. A full (to-value) reduction propagates
// that change to every direct parent that referenced from, inlining
// the resolved outputs in place of the placeholder each parent held. A
// partial (to-thunk) reduction only ever touches from itself: every
// ancestor stays exactly as stale as markOutOfDate left it, to be
// reconciled lazily once one of its own children eventually resolves
// all the way to a value.
//
// It returns the new order-one frontier introduced by this call, and
// the set of hashes that just became unreferenced (no remaining
// reverse dependents) and are not named in BlobDependencies — the
// caller's signal that it is safe to delete those hashes' on-disk
// blobs. A hash the graph still needs to answer QueryValue against
// (a retained root) can appear in removed without the graph having
// actually discarded its own bookkeeping for it.
//
// Two conditions are tolerated rather than treated as errors, because
// they represent ordinary races between a backend and a graph that has
// moved on without it:
//
//   - self-reduction: red.ToThunk names the same computation as from.
//     This happens when a backend reports a thunk's own unreduced
//     hash back as if it were a step forward; it is a no-op.
//   - stale report: from no longer names the current hash of any
//     tracked computation (superseded by a more recent reduction, or
//     never existed). The call returns with no effect.
//
// Every other malformed call — reducing an already-resolved value,
// submitting a reduction with zero outputs — is a caller bug and panics
// (see ReduceValueError, EmptyReductionError).
func (g *ExecutionGraph) SubmitReduction(from Hash, red Reduction, loader Loader) (map[Hash]struct{}, []Hash, error) {
	fromBase := from.Base()

	if red.ToThunk != "" && red.ToThunk.Base() == fromBase {
		return map[Hash]struct{}{}, nil, nil
	}

	id, ok := g.idByHash[fromBase]
	if !ok {
		return map[Hash]struct{}{}, nil, nil
	}
	comp := g.byID[id]
	if comp.CurrentHash != from {
		return map[Hash]struct{}{}, nil, nil
	}
	if comp.Kind() == computation.KindValue {
		panic(&ReduceValueError{From: string(from)})
	}

	var newOutputs []thunk.Output
	switch {
	case red.ToThunk != "":
		newOutputs = []thunk.Output{{Hash: red.ToThunk, Name: ""}}
	case len(red.ToValues) > 0:
		newOutputs = red.ToValues
	default:
		panic(&EmptyReductionError{From: string(from)})
	}

	oldHash := comp.CurrentHash
	frontier := make(map[Hash]struct{})

	g.markOutOfDate(id)
	g.cutDependencies(id)

	if isThunkReduction(newOutputs) {
		newThunk, err := loader.LoadThunk(newOutputs[0].Hash.Base())
		if err != nil {
			return nil, nil, fmt.Errorf("execgraph: loading reduced thunk %s: %w", newOutputs[0].Hash, err)
		}
		comp.Thunk = newThunk
		comp.CurrentHash = newThunk.Hash()
		delete(g.idByHash, oldHash)
		g.idByHash[comp.CurrentHash] = id
		g.recordRename(oldHash, comp.CurrentHash)

		for _, child := range newThunk.Thunks {
			childID, err := g.emplaceThunk(child.Hash.Base(), loader, frontier)
			if err != nil {
				return nil, nil, err
			}
			g.createDependency(id, childID)
		}

		comp.UpToDate = true
		if comp.CanBeExecuted() {
			frontier[comp.CurrentHash] = struct{}{}
		}

		// Nothing becomes unreferenced as a result of a to-thunk step,
		// and no ancestor is touched: report no removals.
		return frontier, nil, nil
	}

	comp.Thunk = nil
	comp.Outputs = newOutputs
	for _, out := range newOutputs {
		g.blobDeps[out.Hash.Base()] = struct{}{}
	}
	// comp.CurrentHash is deliberately left at oldHash: QueryValue must
	// keep resolving callers to this node by the hash they originally
	// registered it under.
	comp.UpToDate = true

	removed := g.updateParents(id, oldHash, newOutputs, frontier)
	return frontier, removed, nil
}

func isThunkReduction(outputs []thunk.Output) bool {
	return len(outputs) == 1 && outputs[0].Hash.Type() == ggh.Thunk
}

// updateParents inlines id's resolved outputs into every direct parent
// that depended on it, in place of the placeholder each parent held,
// then checks whether id itself is now unreferenced. It only processes
// id's immediate reverse dependents: each one has its thunk rewritten,
// is re-indexed under its new hash, and is marked up to date again.
func (g *ExecutionGraph) updateParents(id ID, oldHash Hash, newOutputs []thunk.Output, frontier map[Hash]struct{}) []Hash {
	comp, ok := g.byID[id]
	if !ok {
		return nil
	}
	parents := make([]ID, 0, len(comp.RevDeps))
	for p := range comp.RevDeps {
		parents = append(parents, p)
	}

	for _, parentID := range parents {
		parent, ok := g.byID[parentID]
		if !ok {
			continue
		}

		parent.Thunk.UpdateData(oldHash, newOutputs)
		parent.RemoveDep(id)
		comp.RemoveRevDep(parentID)

		oldParentHash := parent.CurrentHash
		newParentHash := parent.Thunk.Hash()
		parent.CurrentHash = newParentHash
		if newParentHash != oldParentHash {
			delete(g.idByHash, oldParentHash)
			g.idByHash[newParentHash] = parentID
			g.recordRename(oldParentHash, newParentHash)
		}
		parent.UpToDate = true

		if parent.CanBeExecuted() {
			frontier[parent.CurrentHash] = struct{}{}
		}
	}

	return g.maybeGC(id)
}
