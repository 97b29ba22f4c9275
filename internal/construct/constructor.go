package construct

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/vocab"
	"golang.org/x/sync/errgroup"
)

// Constructor resolves canonical configs and their arguments into values,
// using the pool for nested references.
type Constructor struct {
	pool     *Pool
	strategy Strategy
	handlers []argumentHandler
}

func newConstructor(pool *Pool, strategy Strategy) *Constructor {
	return &Constructor{
		pool:     pool,
		strategy: strategy,
		handlers: []argumentHandler{
			undefinedHandler{},
			hashHandler{},
			arrayHandler{},
			listHandler{},
			valueHandler{},
			referenceHandler{},
			literalHandler{},
		},
	}
}

// CreateInstance builds the instance of a canonical config.
func (c *Constructor) CreateInstance(ctx context.Context, config *graph.Resource, settings Settings) (Instance, error) {
	args, err := c.CreateArguments(ctx, config, settings)
	if err != nil {
		return nil, err
	}

	opts := InstanceOptions{
		RequireName:     config.Property(vocab.Module).Value(),
		CallConstructor: !config.IsA(vocab.Instance) && !config.Flag(vocab.NoConstructor),
		InstanceID:      config.Value(),
		Args:            args,
		Settings:        settings,
	}
	if member := config.Property(vocab.Member); member != nil {
		opts.RequireElement = member.Value()
	}
	if original := config.Property(vocab.OriginalInstance); original != nil {
		opts.InstanceID = original.Value()
	}
	return c.strategy.CreateInstance(ctx, opts)
}

// CreateArguments resolves the argument list of a canonical config. A config
// without arguments has an empty argument list.
func (c *Constructor) CreateArguments(ctx context.Context, config *graph.Resource, settings Settings) ([]Instance, error) {
	values := config.Properties(vocab.Arguments)
	if len(values) == 0 {
		return []Instance{}, nil
	}
	members, ok := values[0].List()
	if len(values) > 1 || !ok {
		return nil, graph.NewError(
			fmt.Sprintf("Detected non-list as value for arguments of %s", config.Key()),
			"config", config,
			"arguments", values,
		)
	}
	return c.resolveAll(ctx, members, settings)
}

// GetArgumentValue resolves one argument value through the first handler
// accepting its shape.
func (c *Constructor) GetArgumentValue(ctx context.Context, value *graph.Resource, settings Settings) (Instance, error) {
	for _, h := range c.handlers {
		if h.canHandle(value, settings) {
			return h.handle(ctx, c, value, settings)
		}
	}
	return nil, graph.NewError(
		fmt.Sprintf("Unsupported argument value %s", value.Key()),
		"value", value,
	).WithCause(ErrUnsupportedArgument)
}

// GetArgumentValues resolves the values of a single argument. No value is
// undefined, one value is resolved as-is, and several values are only
// accepted when they are all lists, which are concatenated.
func (c *Constructor) GetArgumentValues(ctx context.Context, values []*graph.Resource, settings Settings) (Instance, error) {
	switch len(values) {
	case 0:
		return c.strategy.CreateUndefined(ctx), nil
	case 1:
		return c.GetArgumentValue(ctx, values[0], settings)
	}

	var members []*graph.Resource
	for _, v := range values {
		list, ok := v.List()
		if !ok {
			return nil, graph.NewError(
				"Detected multiple values for an argument. RDF lists should be used for defining multiple values.",
				"arguments", values,
			)
		}
		members = append(members, list...)
	}
	elements, err := c.resolveAll(ctx, members, settings)
	if err != nil {
		return nil, err
	}
	return c.strategy.CreateArray(ctx, ArrayOptions{Elements: elements})
}

// resolveAll resolves values concurrently, preserving their order.
func (c *Constructor) resolveAll(ctx context.Context, values []*graph.Resource, settings Settings) ([]Instance, error) {
	out := make([]Instance, len(values))
	var g errgroup.Group
	for i, v := range values {
		g.Go(func() error {
			resolved, err := c.GetArgumentValue(ctx, v, settings)
			if err != nil {
				return err
			}
			out[i] = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
