// Package params computes the effective values of a component parameter for
// one config node.
//
// Resolution is an ordered chain of rules applied to the explicit values of
// the parameter: a scoped default and a plain default fill in missing values,
// fixed values are always prepended, the range is checked by an external
// validator, unique parameters are truncated to their first value, and lazy
// parameters get every value marked lazy. The chain is stateless; a single
// Resolver is shared by all preprocessors of a construction pool.
package params
