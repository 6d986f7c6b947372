// Package thunk implements the immutable description of one computation:
// an executable plus argv (where some argv entries are placeholders
// referencing a data input), a set of value/executable/thunk inputs, and
// an ordered, nonempty list of output names.
//
// A Thunk's content hash is derived from its canonical serialization
// (see ComputeHash). The one operation with real complexity is
// UpdateData, which rewrites every reference to a reduced child — both
// its input-set slot and any argv placeholder — in place.
package thunk
