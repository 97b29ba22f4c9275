// Package graph provides the in-memory resource graph the construction
// engine operates on.
//
// # Why Graph Package Exists
//
// Configurations, component type definitions and override directives are all
// plain graph nodes ("resources"): a term identity plus a mapping from
// predicate IRIs to ordered value lists. Preprocessing rewires these nodes in
// place (overrides patch configs, inheritance folds parameters into
// components), while construction reads them as an immutable value tree.
//
// # Arena Model
//
// Named and blank nodes are interned by a Store, so every reference to the
// same identity shares one underlying node. Mutating a property through any
// *Resource handle is therefore visible to every other handle of that node,
// and reference equality (Same) is what de-duplicates inherited parameters.
// Literals are never interned: each literal is its own node.
//
// A *Resource may additionally be a "view" carrying per-use markers (lazy,
// unique, a hidden raw value). Views share the node data of the resource they
// were derived from, so markers never leak into other uses of the same node.
//
// # Thread-Safety
//
// Property and list access is guarded by a per-node RWMutex, making it safe
// for the construction fan-out to read nodes while the preprocessing stage
// of another config patches unrelated ones.
package graph
