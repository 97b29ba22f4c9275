// Package construct builds instances from configs.
//
// The Pool is the entry point: it memoizes one instantiation result per
// config identity, guards against cycles within a dependency chain, resolves
// variable references and drives the preprocessing pipeline that turns a
// config into its canonical shape. The Constructor then resolves every
// canonical argument through an ordered chain of shape handlers and hands
// the resolved values to a Strategy, which performs the actual instantiation.
//
// # Concurrency
//
// Instantiate is safe for concurrent use. Concurrent requests for the same
// identity share one in-flight computation, so a Strategy sees at most one
// CreateInstance call per identity and pool lifetime. The entries of lists,
// arrays, hashes and argument lists are resolved concurrently and joined
// before the enclosing value is created. Preprocessing mutates the shared
// graph and is serialized by the pool.
//
// An in-flight instantiation is never cancelled: callers whose context ends
// stop waiting for it, but the computation runs to completion and its result
// is cached.
package construct
