// Package store persists thunks and the blobs (values, executables) they
// reference on the local filesystem, content-addressed by the hash
// scheme in internal/hash.
//
// Store reads are cached in an LRU of decoded thunks (hashicorp/golang-lru)
// so a hot root that many sibling thunks reference is only parsed once,
// and writes go through a bounded exponential backoff
// (cenkalti/backoff) to ride out transient filesystem errors (EMFILE
// under load, a network filesystem hiccup) without the caller having to
// know about retry policy.
package store
