// Package execgraph implements ExecutionGraph, the single-threaded,
// content-addressed dependency graph at the center of gg: it tracks
// thunks as they are registered, wires dependency/reverse-dependency
// edges between them, accepts reduction reports that replace a thunk
// with either a value or a smaller thunk, and exposes the order-one
// frontier of thunks that are ready to execute.
//
// ExecutionGraph has no internal synchronization — see internal/engine
// for the concurrent shell that owns one ExecutionGraph from a single
// goroutine and fans actual execution out to workers.
package execgraph
