package construct

import (
	"context"
)

// Instance is whatever a Strategy produces: a live value, a source
// expression, a recorded call.
type Instance = any

// Strategy performs the actual instantiation of resolved configs.
type Strategy interface {
	CreateInstance(ctx context.Context, opts InstanceOptions) (Instance, error)
	CreateHash(ctx context.Context, opts HashOptions) (Instance, error)
	CreateArray(ctx context.Context, opts ArrayOptions) (Instance, error)
	CreatePrimitive(ctx context.Context, opts PrimitiveOptions) (Instance, error)
	CreateLazySupplier(ctx context.Context, opts LazyOptions) (Instance, error)
	CreateUndefined(ctx context.Context) Instance
	GetVariableValue(ctx context.Context, opts VariableOptions) (Instance, error)
}

// InstanceOptions describes one instantiation request.
type InstanceOptions struct {
	// RequireName is the module to load.
	RequireName string
	// RequireElement is the member of the module, empty for the module itself.
	RequireElement string
	// CallConstructor is false when the member must be returned as-is.
	CallConstructor bool
	// InstanceID identifies the config the instance was requested for.
	InstanceID string
	Args       []Instance
	Settings   Settings
}

// HashEntry is one key/value pair of a hash argument.
type HashEntry struct {
	Key   string
	Value Instance
}

// HashOptions lists the entries of a hash. Fields without a value leave a
// nil entry at their position.
type HashOptions struct {
	Entries []*HashEntry
}

// ArrayOptions lists the elements of an array.
type ArrayOptions struct {
	Elements []Instance
}

// PrimitiveOptions carries a literal value: its text, or the raw value
// attached to the literal.
type PrimitiveOptions struct {
	Value any
}

// Supplier produces a value when invoked.
type Supplier func(ctx context.Context) (Instance, error)

// LazyOptions wraps a deferred resolution.
type LazyOptions struct {
	Supplier Supplier
}

// VariableOptions names the variable to look up.
type VariableOptions struct {
	VariableName string
	Settings     Settings
}
