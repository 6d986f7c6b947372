// Package computation defines Computation, the node type the execution
// graph keys on: bookkeeping (up-to-date flag, dependency/reverse-dependency
// sets, recorded dependency hashes) layered over either a Value's outputs
// or a Thunk's still-unreduced body.
//
// Computation intentionally knows nothing about how it is stored or
// traversed — that belongs to internal/execgraph. It only knows how to
// classify itself (Kind) and hold the fields that classification implies.
package computation
