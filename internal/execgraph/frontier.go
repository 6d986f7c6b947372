package execgraph

// OrderOneDependencies returns the set of order-one (ready-to-execute)
// thunks at or below hash: just hash itself if it is order-one, otherwise
// the recursive union, over hash's own dependencies, of each
// dependency's order-one dependencies — or, for a dependency that is
// itself already order-one, just that dependency. A value yields the
// empty set.
//
// It panics with *OutOfDateDependencyError if hash, or any computation
// the traversal passes through, is not currently up to date: the
// frontier below a stale computation is not a meaningful thing to ask
// for.
func (g *ExecutionGraph) OrderOneDependencies(hash Hash) (map[Hash]struct{}, error) {
	id, ok := g.idByHash[hash.Base()]
	if !ok {
		return nil, &UnknownComputationError{Hash: string(hash)}
	}
	return g.orderOneDependenciesByID(id), nil
}

func (g *ExecutionGraph) collectOrderOne(id ID, result map[Hash]struct{}, visited map[ID]struct{}) {
	if _, seen := visited[id]; seen {
		return
	}
	visited[id] = struct{}{}

	comp, ok := g.byID[id]
	if !ok {
		return
	}
	if !comp.UpToDate {
		panic(&OutOfDateDependencyError{Parent: string(comp.CurrentHash), Child: string(comp.CurrentHash)})
	}
	if comp.CanBeExecuted() {
		result[comp.CurrentHash] = struct{}{}
		return
	}
	for childID := range comp.Deps {
		g.collectOrderOne(childID, result, visited)
	}
}
