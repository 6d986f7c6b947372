package thunk

import (
	"fmt"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// Thunk is the immutable-in-spirit description of one computation: an
// executable invocation (Function), its pre-existing blob inputs (Values,
// Executables), its still-unreduced child computations (Thunks), and the
// ordered, nonempty names of the outputs it produces once reduced.
//
// "Immutable-in-spirit" because UpdateData mutates the Go value in
// place — matching how the original implementation threads a single
// Computation.thunk field through reduction — while still producing a
// new canonical content hash each time, which is the property callers
// actually rely on.
type Thunk struct {
	Function    Function
	Values      []DataItem
	Executables []DataItem
	Thunks      []DataItem
	Outputs     []string
}

// CanBeExecuted is true iff every child has already reduced to a value,
// i.e. Thunks is empty. Invariant 6 in spec.md ties this directly to
// order-one membership in the graph.
func (t *Thunk) CanBeExecuted() bool {
	return len(t.Thunks) == 0
}

// UpdateData rewrites every reference to oldHash — its slot in Thunks and
// every argv placeholder naming it — with newHashes, per spec.md §4.1:
//
//   - a single new thunk hash keeps the slot in Thunks and rewrites
//     placeholders in place;
//   - one or more value hashes move the slot from Thunks into Values
//     (one Values entry per output, named "<slot>#<output>") and
//     rewrite placeholders by output-name suffix, defaulting to the
//     first output for a bare (unsuffixed) placeholder.
//
// UpdateData panics with *NotReferencedError if oldHash names neither a
// Thunks slot nor any argv placeholder: spec.md treats that as a caller
// bug, not a race to tolerate.
func (t *Thunk) UpdateData(oldHash Hash, newHashes []Output) {
	if len(newHashes) == 0 {
		panic(&EmptyOutputsError{})
	}
	oldBase := oldHash.Base()
	referenced := false

	if len(newHashes) == 1 && newHashes[0].Hash.Type() == ggh.Thunk {
		referenced = t.rewriteSingleThunk(oldBase, newHashes[0].Hash) || referenced
	} else {
		referenced = t.rewriteToValues(oldBase, newHashes) || referenced
	}

	if !referenced {
		panic(&NotReferencedError{OldHash: string(oldHash)})
	}
}

func (t *Thunk) rewriteSingleThunk(oldBase, newHash Hash) bool {
	found := false
	for i := range t.Thunks {
		if t.Thunks[i].Hash.Base() == oldBase {
			t.Thunks[i].Hash = newHash
			found = true
			break
		}
	}
	for i := range t.Function.Argv {
		ph := t.Function.Argv[i].Placeholder
		if ph != nil && ph.Hash.Base() == oldBase {
			t.Function.Argv[i].Placeholder = &Placeholder{Hash: newHash}
			found = true
		}
	}
	return found
}

func (t *Thunk) rewriteToValues(oldBase Hash, newHashes []Output) bool {
	slotName, removed := t.removeThunkSlot(oldBase)
	for _, out := range newHashes {
		t.Values = append(t.Values, DataItem{
			Hash: out.Hash,
			Name: fmt.Sprintf("%s#%s", slotName, out.Name),
		})
	}

	rewrote := false
	for i := range t.Function.Argv {
		ph := t.Function.Argv[i].Placeholder
		if ph == nil || ph.Hash.Base() != oldBase {
			continue
		}
		target := newHashes[0]
		if outName, hasSuffix := ph.Hash.Output(); hasSuffix {
			for _, out := range newHashes {
				if out.Name == outName {
					target = out
					break
				}
			}
		}
		t.Function.Argv[i].Placeholder = &Placeholder{Hash: target.Hash}
		rewrote = true
	}

	return removed || rewrote
}

func (t *Thunk) removeThunkSlot(oldBase Hash) (name string, removed bool) {
	for i := range t.Thunks {
		if t.Thunks[i].Hash.Base() == oldBase {
			name = t.Thunks[i].Name
			t.Thunks = append(t.Thunks[:i], t.Thunks[i+1:]...)
			return name, true
		}
	}
	return "", false
}
