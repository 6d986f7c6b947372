// Package engine is the concurrent shell around execgraph.ExecutionGraph:
// it owns the graph from a single coordinator goroutine and fans the
// graph's order-one frontier out to a pool of worker goroutines that
// invoke an ExecutionBackend, feeding every result back through
// SubmitReduction until the requested root resolves to a value.
//
// The dispatch loop is modeled on the host toolchain's depth-staged
// parallel executor (internal/dag's RunParallel): a bounded pool of
// workers reading off a work channel, a single goroutine that owns all
// graph mutation and never touches it from more than one place at a
// time. Where that executor stages work by topological depth computed
// up front, this one stages it by the graph's own order-one frontier,
// which is recomputed incrementally as reductions land, since
// execgraph already tracks readiness for us.
package engine
