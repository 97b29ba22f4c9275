// Package preprocess normalizes higher-level configs into the canonical
// shape consumed by the constructor: a module name, an optional member name,
// a no-constructor flag and an ordered argument list.
//
// Two normalizers live here. ComponentNormalizer claims configs typed with a
// known component and maps every parameter onto a single hash argument.
// MappedNormalizer claims configs whose component declares a custom
// constructor-argument template and evaluates that template with a Mapper.
// Both record the configs they see per component type, so parameters can
// inherit values from previously seen instances.
package preprocess
