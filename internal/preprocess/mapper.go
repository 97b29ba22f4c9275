package preprocess

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/params"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// Mapper evaluates a constructor-argument template against a config.
//
// A template node is one of: a fields object (keyed values and collected
// entries), an elements array, a list, a parameter reference, or a constant.
type Mapper struct {
	store    *graph.Store
	resolver *params.Resolver
}

// NewMapper creates a Mapper resolving parameter references with resolver.
func NewMapper(store *graph.Store, resolver *params.Resolver) *Mapper {
	return &Mapper{store: store, resolver: resolver}
}

// Map evaluates every element of a component's constructor-argument
// template. Positions that evaluate to nothing become undefined arguments.
func (m *Mapper) Map(ctx context.Context, component, config *graph.Resource) ([]*graph.Resource, error) {
	template := component.Property(vocab.ConstructorArguments)
	if template == nil {
		return nil, nil
	}
	members, ok := template.List()
	if !ok {
		return nil, graph.NewError(
			fmt.Sprintf("Detected non-list as value for constructor arguments of %s", component.Value()),
			"component", component,
			"constructorArguments", template,
		)
	}
	args := make([]*graph.Resource, len(members))
	for i, member := range members {
		value, err := m.ParameterValue(ctx, component, member, config, false)
		if err != nil {
			return nil, err
		}
		if value == nil {
			value = m.undefined()
		}
		args[i] = value
	}
	return args, nil
}

// ParameterValue evaluates one template node. With raw set, parameter
// references evaluate to their IRI as a literal instead of their values.
// A nil result means the template produced no value.
func (m *Mapper) ParameterValue(ctx context.Context, configRoot, template, configElement *graph.Resource, raw bool) (*graph.Resource, error) {
	switch {
	case template.HasProperty(vocab.Fields) || template.HasProperty(vocab.HasFields):
		return m.fields(ctx, configRoot, template, configElement)
	case template.HasProperty(vocab.Elements):
		return m.elements(ctx, configRoot, template, configElement)
	case template.IsList():
		return m.list(ctx, configRoot, template, configElement, raw)
	case template.IsNamed() && raw:
		return m.store.Literal(template.Value()), nil
	case template.IsNamed():
		values, err := m.resolver.Apply(ctx, configRoot, template, configElement)
		if err != nil {
			return nil, err
		}
		// Unique parameters resolve to at most one value; any other
		// parameter with several values becomes a single list argument.
		switch len(values) {
		case 0:
			return nil, nil
		case 1:
			return values[0], nil
		default:
			return m.store.NewList(values...), nil
		}
	default:
		return template, nil
	}
}

func (m *Mapper) fields(ctx context.Context, configRoot, template, configElement *graph.Resource) (*graph.Resource, error) {
	var entries []*graph.Resource
	for _, field := range registry.FieldEntries(template) {
		if collect := field.Property(vocab.CollectEntries); collect != nil {
			collected, err := m.collectEntries(ctx, configRoot, field, collect, configElement)
			if err != nil {
				return nil, err
			}
			entries = append(entries, collected...)
			continue
		}

		key, err := m.fieldKey(ctx, configRoot, field, configElement)
		if err != nil {
			return nil, err
		}
		var value *graph.Resource
		switch {
		case field.HasProperty(vocab.ValueRawReference):
			value, err = m.ParameterValue(ctx, configRoot, field.Property(vocab.ValueRawReference), configElement, true)
		case field.HasProperty(vocab.Value):
			value, err = m.ParameterValue(ctx, configRoot, field.Property(vocab.Value), configElement, false)
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, m.entry(key, value))
	}

	out := m.store.NewBlank()
	out.SetProperty(vocab.Fields, m.store.NewList(entries...))
	return out, nil
}

func (m *Mapper) fieldKey(ctx context.Context, configRoot, field, configElement *graph.Resource) (*graph.Resource, error) {
	if keyRaw := field.Property(vocab.KeyRaw); keyRaw != nil {
		return keyRaw, nil
	}
	key := field.Property(vocab.Key)
	if key == nil {
		return nil, graph.NewError(
			"Invalid field in constructor arguments: missing key or keyRaw",
			"config", configElement,
			"field", field,
		)
	}
	value, err := m.ParameterValue(ctx, configRoot, key, configElement, true)
	if err != nil {
		return nil, err
	}
	if value == nil || !value.IsLiteral() {
		return nil, graph.NewError(
			"Invalid field key in constructor arguments: key must evaluate to a literal",
			"config", configElement,
			"field", field,
		)
	}
	return value, nil
}

// collectEntries turns every value of the collected parameter into a hash
// entry. The entry key comes from the field's key parameter on the collected
// node, or is the collected node itself. The entry value is the field's value
// template evaluated against the collected node, or the node itself.
func (m *Mapper) collectEntries(ctx context.Context, configRoot, field, collect, configElement *graph.Resource) ([]*graph.Resource, error) {
	values, err := m.resolver.Apply(ctx, configRoot, collect, configElement)
	if err != nil {
		return nil, err
	}

	var entries []*graph.Resource
	for _, collected := range flatten(values) {
		var key *graph.Resource
		if keyParam := field.Property(vocab.Key); keyParam != nil {
			keys := collected.Properties(keyParam.Value())
			if len(keys) != 1 {
				return nil, graph.NewError(
					fmt.Sprintf("Expected exactly one key %s on collected entry, got %d", keyParam.Value(), len(keys)),
					"config", configElement,
					"entry", collected,
				)
			}
			key = keys[0]
		} else {
			key = m.store.Literal(collected.Value())
		}

		value := collected
		if valueTemplate := field.Property(vocab.Value); valueTemplate != nil {
			if value, err = m.ParameterValue(ctx, configRoot, valueTemplate, collected, false); err != nil {
				return nil, err
			}
		}
		entries = append(entries, m.entry(key, value))
	}
	return entries, nil
}

func (m *Mapper) elements(ctx context.Context, configRoot, template, configElement *graph.Resource) (*graph.Resource, error) {
	var elements []*graph.Resource
	for _, element := range flatten(template.Properties(vocab.Elements)) {
		valueTemplate := element.Property(vocab.Value)
		if valueTemplate == nil {
			return nil, graph.NewError(
				"Invalid element in constructor arguments: missing value",
				"config", configElement,
				"element", element,
			)
		}
		value, err := m.ParameterValue(ctx, configRoot, valueTemplate, configElement, false)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		out := m.store.NewBlank()
		out.SetProperty(vocab.Value, value)
		elements = append(elements, out)
	}

	out := m.store.NewBlank()
	out.SetProperty(vocab.Elements, m.store.NewList(elements...))
	return out, nil
}

// list evaluates each member. Members referring to multi-valued parameters
// are spliced in place.
func (m *Mapper) list(ctx context.Context, configRoot, template, configElement *graph.Resource, raw bool) (*graph.Resource, error) {
	members, _ := template.List()
	var out []*graph.Resource
	for _, member := range members {
		value, err := m.ParameterValue(ctx, configRoot, member, configElement, raw)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		if spliced, ok := value.List(); ok && member.IsNamed() && !raw {
			out = append(out, spliced...)
			continue
		}
		out = append(out, value)
	}
	return m.store.NewList(out...), nil
}

func (m *Mapper) entry(key, value *graph.Resource) *graph.Resource {
	entry := m.store.NewBlank()
	entry.SetProperty(vocab.Key, key)
	if value != nil {
		entry.SetProperty(vocab.Value, value)
	}
	return entry
}

func (m *Mapper) undefined() *graph.Resource {
	out := m.store.NewBlank()
	out.SetProperty(vocab.Type, m.store.Named(vocab.Undefined))
	return out
}

// flatten expands list values into their members.
func flatten(values []*graph.Resource) []*graph.Resource {
	var out []*graph.Resource
	for _, v := range values {
		if members, ok := v.List(); ok {
			out = append(out, members...)
			continue
		}
		out = append(out, v)
	}
	return out
}
