package construct

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/vocab"
	"golang.org/x/sync/errgroup"
)

// argumentHandler resolves one shape of argument value.
type argumentHandler interface {
	canHandle(value *graph.Resource, settings Settings) bool
	handle(ctx context.Context, c *Constructor, value *graph.Resource, settings Settings) (Instance, error)
}

type undefinedHandler struct{}

func (undefinedHandler) canHandle(value *graph.Resource, _ Settings) bool {
	return value.IsA(vocab.Undefined)
}

func (undefinedHandler) handle(ctx context.Context, c *Constructor, _ *graph.Resource, _ Settings) (Instance, error) {
	return c.strategy.CreateUndefined(ctx), nil
}

// hashHandler resolves field objects. A fields flag without fields is an
// empty hash.
type hashHandler struct{}

func (hashHandler) canHandle(value *graph.Resource, _ Settings) bool {
	return value.HasProperty(vocab.Fields) || value.HasProperty(vocab.HasFields)
}

func (hashHandler) handle(ctx context.Context, c *Constructor, value *graph.Resource, settings Settings) (Instance, error) {
	var fields []*graph.Resource
	if value.HasProperty(vocab.Fields) {
		fields = registry.FieldEntries(value)
	}

	for _, field := range fields {
		if err := checkFieldKey(value, field); err != nil {
			return nil, err
		}
	}

	entries := make([]*HashEntry, len(fields))
	var g errgroup.Group
	for i, field := range fields {
		values := field.Properties(vocab.Value)
		if len(values) == 0 {
			// Positional gap.
			continue
		}
		g.Go(func() error {
			resolved, err := c.GetArgumentValues(ctx, values, settings)
			if err != nil {
				return err
			}
			entries[i] = &HashEntry{Key: field.Property(vocab.Key).Value(), Value: resolved}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c.strategy.CreateHash(ctx, HashOptions{Entries: entries})
}

// checkFieldKey requires a single literal key.
func checkFieldKey(value, field *graph.Resource) error {
	keys := field.Properties(vocab.Key)
	if len(keys) != 1 {
		return graph.NewError(
			fmt.Sprintf("Detected %d keys for a field, while exactly 1 is required", len(keys)),
			"value", value,
			"field", field,
		)
	}
	if !keys[0].IsLiteral() {
		return graph.NewError(
			fmt.Sprintf("Detected illegal non-literal key %s for a field", keys[0].Key()),
			"value", value,
			"field", field,
		)
	}
	return nil
}

// arrayHandler resolves element arrays.
type arrayHandler struct{}

func (arrayHandler) canHandle(value *graph.Resource, _ Settings) bool {
	return value.HasProperty(vocab.Elements)
}

func (arrayHandler) handle(ctx context.Context, c *Constructor, value *graph.Resource, settings Settings) (Instance, error) {
	elements := value.Properties(vocab.Elements)
	if len(elements) == 1 {
		if members, ok := elements[0].List(); ok {
			elements = members
		}
	}

	for _, element := range elements {
		if !element.HasProperty(vocab.Value) {
			return nil, graph.NewError(
				"Detected illegal array element without value",
				"value", value,
				"element", element,
			)
		}
	}

	out := make([]Instance, len(elements))
	var g errgroup.Group
	for i, element := range elements {
		g.Go(func() error {
			resolved, err := c.GetArgumentValues(ctx, element.Properties(vocab.Value), settings)
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
	return c.strategy.CreateArray(ctx, ArrayOptions{Elements: out})
}

// listHandler resolves ordered lists as arrays.
type listHandler struct{}

func (listHandler) canHandle(value *graph.Resource, _ Settings) bool {
	return value.IsList()
}

func (listHandler) handle(ctx context.Context, c *Constructor, value *graph.Resource, settings Settings) (Instance, error) {
	members, _ := value.List()
	elements, err := c.resolveAll(ctx, members, settings)
	if err != nil {
		return nil, err
	}
	return c.strategy.CreateArray(ctx, ArrayOptions{Elements: elements})
}

// valueHandler unwraps nodes carrying their value in a value property.
type valueHandler struct{}

func (valueHandler) canHandle(value *graph.Resource, _ Settings) bool {
	return value.HasProperty(vocab.Value)
}

func (valueHandler) handle(ctx context.Context, c *Constructor, value *graph.Resource, settings Settings) (Instance, error) {
	return c.GetArgumentValues(ctx, value.Properties(vocab.Value), settings)
}

// referenceHandler constructs referenced configs through the pool.
type referenceHandler struct{}

func (referenceHandler) canHandle(value *graph.Resource, _ Settings) bool {
	return value.IsNamed() || value.IsBlank()
}

func (referenceHandler) handle(ctx context.Context, c *Constructor, value *graph.Resource, settings Settings) (Instance, error) {
	if settings.Shallow {
		return c.strategy.CreateHash(ctx, HashOptions{})
	}
	if value.Lazy() {
		return c.strategy.CreateLazySupplier(ctx, LazyOptions{
			Supplier: func(ctx context.Context) (Instance, error) {
				return c.pool.Instantiate(ctx, value, settings)
			},
		})
	}
	return c.pool.Instantiate(ctx, value, settings)
}

// literalHandler resolves literals to their text, or to the raw value
// attached to them.
type literalHandler struct{}

func (literalHandler) canHandle(value *graph.Resource, _ Settings) bool {
	return value.IsLiteral()
}

func (literalHandler) handle(ctx context.Context, c *Constructor, value *graph.Resource, _ Settings) (Instance, error) {
	var primitive any = value.Value()
	if raw, ok := value.RawValue(); ok {
		primitive = raw
	}
	if value.Lazy() {
		return c.strategy.CreateLazySupplier(ctx, LazyOptions{
			Supplier: func(ctx context.Context) (Instance, error) {
				return c.strategy.CreatePrimitive(ctx, PrimitiveOptions{Value: primitive})
			},
		})
	}
	return c.strategy.CreatePrimitive(ctx, PrimitiveOptions{Value: primitive})
}
