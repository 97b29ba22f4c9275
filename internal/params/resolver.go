package params

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// ErrRangeMismatch is the cause of every error reporting a parameter value
// outside of the parameter's declared range.
var ErrRangeMismatch = errors.New("not of required range type")

// RangeValidator decides whether a value conforms to a declared range.
// An error means the range itself could not be interpreted.
type RangeValidator interface {
	CheckRange(ctx context.Context, rangeType, value *graph.Resource) (bool, error)
}

// Resolver applies the parameter value rule chain.
type Resolver struct {
	rules []rule
}

// New creates a Resolver. The range validator is optional; without one,
// declared ranges are not checked.
func New(store *graph.Store, catalog *registry.Registry, ranges RangeValidator) *Resolver {
	return &Resolver{rules: []rule{
		scopedDefaultRule{catalog: catalog},
		defaultRule{},
		fixedRule{},
		rangeRule{validator: ranges},
		uniqueRule{},
		lazyRule{store: store},
	}}
}

// Apply returns the values of parameter for configElement. configRoot is the
// component (or config) scoped defaults are matched against.
func (r *Resolver) Apply(ctx context.Context, configRoot, parameter, configElement *graph.Resource) ([]*graph.Resource, error) {
	values := configElement.Properties(parameter.Value())
	if len(values) > 1 && !parameter.Flag(vocab.Unique) {
		return nil, graph.NewError(
			fmt.Sprintf("Detected multiple values for parameter %s in %s. RDF lists should be used for defining multiple values.", parameter.Value(), configElement.Value()),
			"parameter", parameter,
			"config", configElement,
			"values", values,
		)
	}

	in := input{root: configRoot, parameter: parameter, config: configElement}
	for _, rl := range r.rules {
		if !rl.applies(values, in) {
			continue
		}
		var err error
		values, err = rl.apply(ctx, values, in)
		if err != nil {
			return nil, err
		}
	}

	ctxlog.FromContext(ctx).Debug("Resolved parameter values.",
		"parameter", parameter.Value(),
		"config", configElement.Key(),
		"count", len(values),
	)
	return values, nil
}
