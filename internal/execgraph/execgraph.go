package execgraph

import (
	"fmt"

	"github.com/alex-ozdemir/gg/internal/computation"
	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// Hash and ID are local aliases so the rest of this package, and its
// callers, read naturally.
type Hash = ggh.Hash
type ID = computation.ID

// Loader resolves a thunk hash to its body. The graph never reads thunks
// off disk itself; AddThunk and a reduction that names a new thunk both
// take a Loader so the graph stays agnostic to where thunk bytes live
// (internal/store's ThunkStore implements this in production, tests use
// an in-memory map).
type Loader interface {
	LoadThunk(hash Hash) (*thunk.Thunk, error)
}

// RenameEvent is one entry of the optional rename log: a computation's
// identifying hash changed from From to To, either because the
// computation itself reduced to another thunk or because one of its
// direct children reduced to values that were inlined into it.
type RenameEvent struct {
	From Hash
	To   Hash
}

// ExecutionGraph is the content-addressed dependency graph described in
// package execgraph's doc comment. It is not safe for concurrent use —
// every exported method must be called from a single goroutine (or
// externally serialized); see internal/engine for the owning shell.
type ExecutionGraph struct {
	logRenames bool
	nextID     ID

	byID     map[ID]*computation.Computation
	idByHash map[Hash]ID
	roots    map[ID]struct{}

	// blobDeps accumulates every Value/Executable hash ever observed as
	// an input across every thunk the graph has held, including ones
	// since garbage collected. It only ever grows: a blob referenced by
	// a thunk that later gets reduced away might still be the one a
	// concurrent download or build step is using, so the set is not
	// shrunk on GC.
	blobDeps map[Hash]struct{}

	renameLog []RenameEvent
}

// New creates an empty graph. logRenames enables RenameLog bookkeeping,
// which costs a small amount of memory per reduction and is normally only
// turned on for debugging or tracing tools.
func New(logRenames bool) *ExecutionGraph {
	return &ExecutionGraph{
		logRenames: logRenames,
		byID:       make(map[ID]*computation.Computation),
		idByHash:   make(map[Hash]ID),
		roots:      make(map[ID]struct{}),
		blobDeps:   make(map[Hash]struct{}),
	}
}

// Size returns the number of computations currently tracked, including
// both unreduced thunks and values the graph has not yet garbage
// collected.
func (g *ExecutionGraph) Size() int { return len(g.byID) }

// BlobDependencies returns the accumulated set of Value and Executable
// hashes referenced, directly or transitively, by any thunk this graph
// has ever held.
func (g *ExecutionGraph) BlobDependencies() map[Hash]struct{} {
	out := make(map[Hash]struct{}, len(g.blobDeps))
	for h := range g.blobDeps {
		out[h] = struct{}{}
	}
	return out
}

// RenameLog returns a copy of every hash-identity change recorded since
// the graph was created (only non-empty when New was called with
// logRenames true).
func (g *ExecutionGraph) RenameLog() []RenameEvent {
	return append([]RenameEvent(nil), g.renameLog...)
}

func (g *ExecutionGraph) allocID() ID {
	g.nextID++
	return g.nextID
}

func (g *ExecutionGraph) recordRename(from, to Hash) {
	if !g.logRenames || from == to {
		return
	}
	g.renameLog = append(g.renameLog, RenameEvent{From: from, To: to})
}

// AddThunk registers rootHash and, transitively, every thunk it depends
// on, fetching bodies through loader as needed. It returns the set of
// hashes that are immediately order-one (ready to execute) as a result —
// which may include rootHash itself, any of its new descendants, or
// neither if every leaf was already a resolved value.
//
// AddThunk is idempotent: if rootHash is already tracked, it returns the
// existing node's current order-one frontier rather than re-inserting or
// erroring, and leaves graph state unchanged. DuplicateInsertError is
// reserved for an internal double-allocation of the same ComputationId,
// never for this public re-add-the-same-root case.
func (g *ExecutionGraph) AddThunk(rootHash Hash, loader Loader) (map[Hash]struct{}, error) {
	base := rootHash.Base()
	if id, exists := g.idByHash[base]; exists {
		return g.orderOneDependenciesByID(id), nil
	}

	frontier := make(map[Hash]struct{})
	id, err := g.emplaceThunk(base, loader, frontier)
	if err != nil {
		return nil, err
	}
	g.roots[id] = struct{}{}
	return frontier, nil
}

// orderOneDependenciesByID is OrderOneDependencies for a node already
// resolved to an ID, used where the caller has already done the hash
// lookup itself (e.g. AddThunk's idempotent re-add path).
func (g *ExecutionGraph) orderOneDependenciesByID(id ID) map[Hash]struct{} {
	result := make(map[Hash]struct{})
	visited := make(map[ID]struct{})
	g.collectOrderOne(id, result, visited)
	return result
}

// emplaceThunk ensures hash is tracked, loading and recursively wiring up
// its thunk-kind children if this is the first time the graph has seen
// it. Revisiting an already-tracked hash is a no-op (the common case for
// shared subgraphs with multiple parents).
func (g *ExecutionGraph) emplaceThunk(hash Hash, loader Loader, frontier map[Hash]struct{}) (ID, error) {
	if id, exists := g.idByHash[hash]; exists {
		return id, nil
	}

	t, err := loader.LoadThunk(hash)
	if err != nil {
		return 0, fmt.Errorf("execgraph: loading thunk %s: %w", hash, err)
	}

	id := g.allocID()
	if _, dup := g.byID[id]; dup {
		panic(&DuplicateInsertError{Hash: string(hash)})
	}
	comp := computation.NewFromThunk(id, t)
	g.byID[id] = comp
	g.idByHash[comp.CurrentHash] = id

	g.recordBlobDeps(t)

	for _, child := range t.Thunks {
		childID, err := g.emplaceThunk(child.Hash.Base(), loader, frontier)
		if err != nil {
			return 0, err
		}
		g.createDependency(id, childID)
	}

	if comp.CanBeExecuted() {
		frontier[comp.CurrentHash] = struct{}{}
	}
	return id, nil
}

func (g *ExecutionGraph) recordBlobDeps(t *thunk.Thunk) {
	for _, v := range t.Values {
		g.blobDeps[v.Hash.Base()] = struct{}{}
	}
	for _, e := range t.Executables {
		g.blobDeps[e.Hash.Base()] = struct{}{}
	}
	if t.Function.Executable != "" {
		g.blobDeps[t.Function.Executable.Base()] = struct{}{}
	}
}

// createDependency wires parentID -> childID, recording the child's
// current hash as the value parentID expects it to keep until it hears
// otherwise.
//
// It panics with *OutOfDateDependencyError if childID is not currently
// up to date (a thunk must never gain a dependent while it is mid-flux),
// and with *InconsistentDepHashError if parentID already recorded a
// different hash for this exact dependency — the two observations can
// only coexist if the caller mixed state from two different points in
// the graph's history.
func (g *ExecutionGraph) createDependency(parentID, childID ID) {
	parent := g.byID[parentID]
	child := g.byID[childID]

	if !child.UpToDate {
		panic(&OutOfDateDependencyError{
			Parent: string(parent.CurrentHash),
			Child:  string(child.CurrentHash),
		})
	}
	if recorded, ok := parent.DepHashes[childID]; ok && recorded != child.CurrentHash {
		panic(&InconsistentDepHashError{
			Parent:   string(parent.CurrentHash),
			Child:    string(child.CurrentHash),
			Recorded: string(recorded),
			Found:    string(child.CurrentHash),
		})
	}

	parent.AddDep(childID, child.CurrentHash)
	child.AddRevDep(parentID)
}

// markOutOfDate marks id, and every ancestor reachable through its
// reverse dependencies, as not up to date. Recursion stops the moment it
// reaches a node that is already marked stale, which both bounds the
// traversal (the dependency graph is acyclic) and makes repeated calls
// along overlapping ancestor chains cheap.
func (g *ExecutionGraph) markOutOfDate(id ID) {
	comp, ok := g.byID[id]
	if !ok || !comp.UpToDate {
		return
	}
	comp.UpToDate = false
	for parentID := range comp.RevDeps {
		g.markOutOfDate(parentID)
	}
}

// cutDependencies disconnects id from every computation it currently
// depends on, clearing its own Deps/DepHashes and the matching RevDeps
// entry on each child. Children left with no remaining dependents are
// garbage collected; it returns the hashes maybeGC reports for them.
func (g *ExecutionGraph) cutDependencies(id ID) []Hash {
	comp, ok := g.byID[id]
	if !ok {
		return nil
	}
	children := make([]ID, 0, len(comp.Deps))
	for childID := range comp.Deps {
		children = append(children, childID)
	}
	for _, childID := range children {
		if child, ok := g.byID[childID]; ok {
			child.RemoveRevDep(id)
		}
	}
	comp.Deps = make(map[ID]struct{})
	comp.DepHashes = make(map[ID]Hash)

	var removed []Hash
	for _, childID := range children {
		removed = append(removed, g.maybeGC(childID)...)
	}
	return removed
}

// maybeGC checks whether id has just become unreferenced (no remaining
// reverse dependents) and, if so, reports its hash — unless that hash
// is also named in blobDeps, in which case a blob for it may still be
// in active use elsewhere and it is not safe to report for deletion.
//
// Reporting is independent of whether id's own bookkeeping is actually
// deleted: a retained root is reported exactly like any other orphaned
// node (the caller may still want to drop its on-disk blob), but its
// Computation stays in byID/idByHash so QueryValue keeps answering for
// it. A non-root orphan is both reported and deleted, cutting its own
// dependencies first so GC cascades down a chain of now-unreachable
// intermediates.
func (g *ExecutionGraph) maybeGC(id ID) []Hash {
	comp, ok := g.byID[id]
	if !ok || !comp.Orphaned() {
		return nil
	}

	var removed []Hash
	if _, isBlob := g.blobDeps[comp.CurrentHash.Base()]; !isBlob {
		removed = append(removed, comp.CurrentHash)
	}

	if _, isRoot := g.roots[id]; isRoot {
		return removed
	}

	removed = append(removed, g.cutDependencies(id)...)
	delete(g.idByHash, comp.CurrentHash)
	delete(g.byID, id)
	return removed
}
