package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the requested hash has no corresponding entry on
	// disk. This is an ordinary, expected outcome (a backend asking
	// whether a blob it's about to produce already exists), never a
	// panic.
	ErrNotFound = errors.New("store: not found")

	// ErrCorrupt means an entry exists but failed to parse or its bytes
	// hash to something other than the name it was stored under.
	// Unlike a malformed hash reaching the in-memory graph, this is
	// external data corruption, not a caller bug, so it is always
	// returned as an error.
	ErrCorrupt = errors.New("store: corrupt entry")
)

// NotFoundError names the hash that was missing.
type NotFoundError struct{ Hash string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s: %s", ErrNotFound, e.Hash) }
func (e *NotFoundError) Unwrap() error  { return ErrNotFound }

// CorruptError names the hash and what went wrong reading it.
type CorruptError struct {
	Hash string
	Msg  string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrCorrupt, e.Hash, e.Msg)
}
func (e *CorruptError) Unwrap() error { return ErrCorrupt }
