// Package registry provides the Component Catalog: the precomputed mapping
// from component type IRIs to their Component Type Definitions.
//
// A definition is an ordinary graph node typed as a component. It carries a
// module name, an optional member name, an optional no-constructor flag, a
// parameter list, an optional constructor-argument template and optional
// super-types (`extends`).
//
// During application startup, the registry is populated from the loaded
// graph and then finalized: every definition walks its super-type chain and
// folds in the inherited parameters and constructor-argument fields. The
// construction engine assumes a finalized catalog.
package registry
