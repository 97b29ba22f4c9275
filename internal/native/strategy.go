// Package native implements the construction strategy that builds live Go
// values from the factories registered by modules.
package native

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/construct"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/handlers"
)

// Supplier is the value of a lazy argument. Calling it resolves the
// deferred value.
type Supplier func(ctx context.Context) (any, error)

// Strategy builds instances by calling registered factories. Hashes become
// map[string]any, arrays []any and undefined values nil.
type Strategy struct {
	handlers *handlers.Handlers
}

// New creates a Strategy over the given factories.
func New(h *handlers.Handlers) *Strategy {
	return &Strategy{handlers: h}
}

func (s *Strategy) CreateInstance(ctx context.Context, opts construct.InstanceOptions) (construct.Instance, error) {
	registered, ok := s.handlers.Lookup(opts.RequireName, opts.RequireElement)
	if !ok {
		return nil, fmt.Errorf("no component registered as '%s' for %s", handlers.Name(opts.RequireName, opts.RequireElement), opts.InstanceID)
	}

	if !opts.CallConstructor {
		return registered.Export, nil
	}
	if registered.New == nil {
		return nil, fmt.Errorf("component '%s' cannot be constructed for %s", handlers.Name(opts.RequireName, opts.RequireElement), opts.InstanceID)
	}

	ctxlog.FromContext(ctx).Debug("Calling component factory.",
		"component", handlers.Name(opts.RequireName, opts.RequireElement),
		"instance", opts.InstanceID,
		"args", len(opts.Args),
	)
	instance, err := registered.New(ctx, opts.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to construct %s: %w", opts.InstanceID, err)
	}
	return instance, nil
}

func (s *Strategy) CreateHash(_ context.Context, opts construct.HashOptions) (construct.Instance, error) {
	out := make(map[string]any, len(opts.Entries))
	for _, e := range opts.Entries {
		if e != nil {
			out[e.Key] = e.Value
		}
	}
	return out, nil
}

func (s *Strategy) CreateArray(_ context.Context, opts construct.ArrayOptions) (construct.Instance, error) {
	return append([]any{}, opts.Elements...), nil
}

func (s *Strategy) CreatePrimitive(_ context.Context, opts construct.PrimitiveOptions) (construct.Instance, error) {
	return opts.Value, nil
}

func (s *Strategy) CreateLazySupplier(_ context.Context, opts construct.LazyOptions) (construct.Instance, error) {
	return Supplier(opts.Supplier), nil
}

func (s *Strategy) CreateUndefined(context.Context) construct.Instance {
	return nil
}

func (s *Strategy) GetVariableValue(_ context.Context, opts construct.VariableOptions) (construct.Instance, error) {
	return construct.LookupVariable(opts.Settings, opts.VariableName)
}
