package computation

import (
	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// Hash is a local alias so the rest of this package reads naturally.
type Hash = ggh.Hash

// ID is a computation's stable graph identity. Unlike a Hash, which
// changes every time a thunk partially reduces, an ID is assigned once
// when a computation is first added and never reassigned — exactly the
// role the original implementation's ComputationId (a bare size_t) plays
// against the current-hash index it sits behind.
type ID uint64

// Kind classifies what a Computation currently is.
type Kind int

const (
	// KindThunk is a computation still described by an unreduced Thunk.
	KindThunk Kind = iota
	// KindValue is a computation that has fully reduced to output blobs.
	KindValue
	// KindLink is a computation that has been redirected to another
	// computation's identity rather than holding content of its own.
	//
	// gg's original implementation carries a "LINK" computation kind for
	// this (graph.hh's ComputationKind), but nothing in the traced
	// add_thunk/submit_reduction path ever constructs one — it is
	// reachable only from share-output-across-thunks optimizations this
	// package does not implement. KindLink and Computation.LinkTarget
	// are kept as a deliberately uncollapsed extension point rather than
	// removed, so a future FollowLinks pass has somewhere to live.
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindThunk:
		return "thunk"
	case KindValue:
		return "value"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Computation is one node of the execution graph: either an unreduced
// Thunk body or the output blobs it reduced to, plus the bookkeeping the
// graph needs to know whether it is stale and who depends on it.
//
// Dependency bookkeeping is keyed by ID rather than by Hash, because a
// thunk's hash mutates in place as it partially reduces (Thunk.UpdateData
// rewrites it) while its identity in the graph — who it depends on, who
// depends on it — must stay put across that mutation.
type Computation struct {
	// ID is this computation's own stable identity.
	ID ID

	// CurrentHash is the hash this computation is known by right now: the
	// thunk's content hash while Kind is KindThunk, or the hash it was
	// registered under while Kind is KindValue. The execution graph's
	// hash index is keyed on this value and must be updated in lockstep
	// whenever it changes.
	CurrentHash Hash

	// UpToDate is false while any descendant thunk has been resubmitted
	// and this node's dep_hashes have not yet been refreshed to match.
	// A stale node may not gain new dependents (spec.md's
	// OutOfDateDependency) and may not itself be order-one.
	UpToDate bool

	// Thunk is this computation's unreduced body. Nil exactly when Kind
	// is KindValue or KindLink.
	Thunk *thunk.Thunk

	// Outputs holds the final value/executable hashes once this
	// computation has been fully reduced. Non-nil exactly when Kind is
	// KindValue.
	Outputs []thunk.Output

	// LinkTarget, when Kind is KindLink, names the computation this one
	// now defers to. See the KindLink doc comment.
	LinkTarget ID

	// Deps is the set of computations this one directly depends on (the
	// current thunk-kind children of its Thunk's Thunks list).
	Deps map[ID]struct{}

	// RevDeps is the set of computations that directly depend on this
	// one.
	RevDeps map[ID]struct{}

	// DepHashes records, per dependency, the exact hash this computation
	// observed at the moment it created (or last refreshed) the
	// dependency edge. A mismatch against that dependency's current
	// CurrentHash is exactly spec.md's InconsistentDepHash condition.
	DepHashes map[ID]Hash
}

// NewFromThunk creates a fresh, up-to-date KindThunk computation wrapping t.
func NewFromThunk(id ID, t *thunk.Thunk) *Computation {
	return &Computation{
		ID:          id,
		CurrentHash: t.Hash(),
		UpToDate:    true,
		Thunk:       t,
		Deps:        make(map[ID]struct{}),
		RevDeps:     make(map[ID]struct{}),
		DepHashes:   make(map[ID]Hash),
	}
}

// NewValue creates a fresh, up-to-date KindValue computation with no
// dependencies of its own (a leaf value has nothing left to reduce).
func NewValue(id ID, registeredHash Hash, outputs []thunk.Output) *Computation {
	return &Computation{
		ID:          id,
		CurrentHash: registeredHash,
		UpToDate:    true,
		Outputs:     outputs,
		RevDeps:     make(map[ID]struct{}),
	}
}

// Kind classifies c.
func (c *Computation) Kind() Kind {
	switch {
	case c.Outputs != nil:
		return KindValue
	case c.Thunk != nil:
		return KindThunk
	default:
		return KindLink
	}
}

// CanBeExecuted reports whether c is a thunk with every child already
// reduced to a value — i.e. c belongs in the order-one frontier.
func (c *Computation) CanBeExecuted() bool {
	return c.Kind() == KindThunk && c.UpToDate && c.Thunk.CanBeExecuted()
}

// AddDep records that c depends on child, recording depHash as the hash
// observed at dependency-creation (or refresh) time.
func (c *Computation) AddDep(child ID, depHash Hash) {
	if c.Deps == nil {
		c.Deps = make(map[ID]struct{})
	}
	if c.DepHashes == nil {
		c.DepHashes = make(map[ID]Hash)
	}
	c.Deps[child] = struct{}{}
	c.DepHashes[child] = depHash
}

// RemoveDep erases the dependency edge to child, if present.
func (c *Computation) RemoveDep(child ID) {
	delete(c.Deps, child)
	delete(c.DepHashes, child)
}

// AddRevDep records that parent depends on c.
func (c *Computation) AddRevDep(parent ID) {
	if c.RevDeps == nil {
		c.RevDeps = make(map[ID]struct{})
	}
	c.RevDeps[parent] = struct{}{}
}

// RemoveRevDep erases the reverse-dependency edge from parent, if present.
func (c *Computation) RemoveRevDep(parent ID) {
	delete(c.RevDeps, parent)
}

// Orphaned reports whether c has no remaining reverse dependents — one of
// the two conditions (the other being "not a retained root") under which
// the execution graph garbage-collects it.
func (c *Computation) Orphaned() bool {
	return len(c.RevDeps) == 0
}
