// Package backendplugin discovers and runs backend plugins: manifests
// under a plugins root directory declaring which lifecycle hooks
// (BeforeExecute / AfterExecute) a plugin wants to observe around every
// thunk an ExecutionBackend runs.
//
// Directly adapted from the host toolchain's plugin discovery and hook
// dispatch: the same deterministic sorted-directory scan, the same
// "invalid manifest skipped and logged, not fatal" discovery policy,
// and the same panic-recovering, plugin-ID-ordered hook engine — here
// pointed at backend execution instead of DAG node execution.
package backendplugin
