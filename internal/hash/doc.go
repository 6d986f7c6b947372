// Package hash implements the tagged content identifiers used throughout
// gg: a printable string of the form "<tag><digest>[#<output>]" where tag
// identifies whether the referent is a Thunk, a Value, or an Executable.
//
// Two operations carry the weight of the data model: Base, which strips
// the "#output" suffix to recover node identity, and Type, which returns
// the tag. Equality of Base(h) determines whether two hashes name the
// same computation.
package hash
