package thunk

import ggh "github.com/alex-ozdemir/gg/internal/hash"

// Hash is a local alias so the rest of this package reads naturally
// ("Hash" instead of "ggh.Hash") while keeping the real type defined once
// in internal/hash.
type Hash = ggh.Hash

// DataItem is a (hash, name) input pair. The graph's data model treats
// Values, Executables, and Thunks each as a *set* of DataItems; ordering
// is only meaningful at serialization time, where Normalize imposes a
// canonical (hash, name) sort so two thunks with the same logical
// content hash identically.
type DataItem struct {
	Hash Hash
	Name string
}

// Placeholder is an argv entry that resolves to a data input's hash at
// execution time rather than carrying a literal string. Its Hash may
// carry a "#output" suffix selecting one output of a reduced thunk.
type Placeholder struct {
	Hash Hash
}

// ArgItem is one positional argv entry: either a literal string or a
// Placeholder, never both.
type ArgItem struct {
	Literal     string
	Placeholder *Placeholder
}

// IsPlaceholder reports whether this argv entry is a placeholder.
func (a ArgItem) IsPlaceholder() bool { return a.Placeholder != nil }

// Function is the executable half of a Thunk: which blob to run, and the
// argv to run it with.
type Function struct {
	Executable Hash
	Argv       []ArgItem
}

// Output is a single named result of a reduction: either the one new
// thunk hash a partial-evaluation step produced, or one of the final
// value hashes a full reduction produced.
type Output struct {
	Hash Hash
	Name string
}
