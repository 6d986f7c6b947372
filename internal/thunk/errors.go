package thunk

import (
	"errors"
	"fmt"
)

// ErrNotReferenced is wrapped by NotReferencedError. Both are raised as
// panics: spec.md classifies calling UpdateData with a hash the thunk
// does not reference as a programming error, not a race to tolerate.
var ErrNotReferenced = errors.New("update_data: old hash is not referenced by this thunk")

// NotReferencedError is panicked by UpdateData when oldHash names
// neither a thunks-slot nor an argv placeholder of the receiver.
type NotReferencedError struct {
	OldHash string
}

func (e *NotReferencedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotReferenced.Error(), e.OldHash)
}

func (e *NotReferencedError) Unwrap() error { return ErrNotReferenced }

// ErrEmptyOutputs is wrapped by EmptyOutputsError.
var ErrEmptyOutputs = errors.New("update_data: new_hashes must be nonempty")

// EmptyOutputsError is panicked when UpdateData is called with no
// replacement outputs — this can only happen from a caller bug, since
// ExecutionGraph always derives new_hashes from a nonempty reduction.
type EmptyOutputsError struct{}

func (e *EmptyOutputsError) Error() string { return ErrEmptyOutputs.Error() }
func (e *EmptyOutputsError) Unwrap() error  { return ErrEmptyOutputs }
