package thunk

import (
	"encoding/json"
	"fmt"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// ComputeHash returns t's content hash, computed from the normalized
// JSON representation of its wire Document — exactly the teacher's
// ComputeHash(g *Graph), specialized to thunks: marshal a normalized
// copy to compact JSON (Document is a struct, so encoding/json always
// emits its fields in declaration order and field order never
// contributes entropy) and hash the bytes.
//
// ComputeHash is stable across different declaration order within each
// input set and across whitespace/field-order differences upstream,
// and changes whenever any input, argv placeholder, executable, or
// output name changes.
func (t *Thunk) ComputeHash() ggh.Hash {
	doc := t.ToDocument().Normalized()
	data, err := json.Marshal(doc)
	if err != nil {
		// Document contains only strings and slices thereof; marshaling
		// can only fail here if the type itself is broken.
		panic(fmt.Sprintf("thunk: failed to serialize canonical document: %v", err))
	}
	return ggh.Compute(ggh.Thunk, data, "")
}

// Hash is an alias for ComputeHash matching spec.md's "hash()" accessor.
func (t *Thunk) Hash() ggh.Hash {
	return t.ComputeHash()
}
