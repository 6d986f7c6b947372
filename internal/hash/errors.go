package hash

import (
	"errors"
	"fmt"
)

// ErrMalformedHash is wrapped by MalformedError for errors.Is() compatibility.
//
// Inside the core a malformed hash is a programming error (a caller
// handed the core a string that never passed through New/Compute/Parse),
// so New, Parse and Type raise it as a panic. TryParse is the exception:
// it returns the *MalformedError as an ordinary error, for boundaries
// that read external data.
var ErrMalformedHash = errors.New("malformed hash")

// MalformedError describes why a string failed to parse as a Hash.
type MalformedError struct {
	Input string
	Msg   string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrMalformedHash.Error(), e.Input, e.Msg)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedHash }

func malformed(input, msg string) {
	panic(&MalformedError{Input: input, Msg: msg})
}
