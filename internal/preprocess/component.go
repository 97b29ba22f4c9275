package preprocess

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/params"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// Handle is what a component normalizer found out about a claimed config.
type Handle struct {
	Component *graph.Resource
	Module    *graph.Resource
}

// ComponentNormalizer maps configs of known component types onto a single
// hash argument holding one entry per component parameter.
type ComponentNormalizer struct {
	store    *graph.Store
	catalog  *registry.Registry
	resolver *params.Resolver
	seen     *SeenInstances
}

// NewComponentNormalizer creates a ComponentNormalizer. The seen-instances
// record is usually shared with a MappedNormalizer.
func NewComponentNormalizer(store *graph.Store, catalog *registry.Registry, resolver *params.Resolver, seen *SeenInstances) *ComponentNormalizer {
	return &ComponentNormalizer{store: store, catalog: catalog, resolver: resolver, seen: seen}
}

// Preprocess claims and finishes configs typed with a known component.
func (n *ComponentNormalizer) Preprocess(ctx context.Context, config *graph.Resource) (Result, bool, error) {
	handle, ok, err := n.CanHandle(config)
	if err != nil || !ok {
		return Result{}, false, err
	}
	out, err := n.Transform(ctx, config, handle)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Config: out, Finished: true}, true, nil
}

// CanHandle claims configs without an explicit module.
func (n *ComponentNormalizer) CanHandle(config *graph.Resource) (Handle, bool, error) {
	return findComponent(n.catalog, config)
}

// Transform produces the canonical form of the config.
func (n *ComponentNormalizer) Transform(ctx context.Context, config *graph.Resource, handle Handle) (*graph.Resource, error) {
	if err := inheritParameterValues(n.catalog, n.seen, handle.Component, config); err != nil {
		return nil, err
	}
	n.seen.Add(handle.Component.Value(), config)

	var entries []*graph.Resource
	for _, parameter := range handle.Component.Properties(vocab.Parameters) {
		values, err := n.resolver.Apply(ctx, handle.Component, parameter, config)
		if err != nil {
			return nil, err
		}
		entry := n.store.NewBlank()
		entry.SetProperty(vocab.Key, n.store.Literal(parameter.Value()))
		entry.SetProperty(vocab.Value, values...)
		entries = append(entries, entry)
	}
	hash := n.store.NewBlank()
	hash.SetProperty(vocab.Fields, n.store.NewList(entries...))

	ctxlog.FromContext(ctx).Debug("Normalized component config.",
		"config", config.Key(),
		"component", handle.Component.Value(),
		"parameters", len(entries),
	)
	return canonical(n.store, config, handle, []*graph.Resource{hash}), nil
}

// Reset forgets the seen instances.
func (n *ComponentNormalizer) Reset() {
	n.seen.Reset()
}

// findComponent resolves the single component type of a config that has no
// explicit module. Identical duplicate types are tolerated.
func findComponent(catalog *registry.Registry, config *graph.Resource) (Handle, bool, error) {
	if config.HasProperty(vocab.Module) {
		return Handle{}, false, nil
	}

	types := config.Types()
	var components []*graph.Resource
	for _, t := range types {
		component, ok := catalog.Component(t.Value())
		if !ok || containsIRI(components, component.Value()) {
			continue
		}
		components = append(components, component)
	}

	switch len(components) {
	case 1:
	case 0:
		return Handle{}, false, graph.NewError(
			fmt.Sprintf("Could not find (valid) component types for config %s among its types, or a module is missing", config.Key()),
			"config", config,
			"types", types,
		)
	default:
		return Handle{}, false, graph.NewError(
			fmt.Sprintf("Detected more than one component type for config %s", config.Key()),
			"config", config,
			"componentTypes", components,
		)
	}

	component := components[0]
	module := component.Property(vocab.Module)
	if module == nil {
		return Handle{}, false, graph.NewError(
			fmt.Sprintf("No module was found for the component %s", component.Value()),
			"config", config,
			"component", component,
		)
	}
	return Handle{Component: component, Module: module}, true, nil
}

// canonical builds the low-level config node for a claimed config.
func canonical(store *graph.Store, config *graph.Resource, handle Handle, args []*graph.Resource) *graph.Resource {
	out := store.NewBlank()
	out.SetProperty(vocab.Module, handle.Module)
	if member := handle.Component.Property(vocab.Member); member != nil {
		out.SetProperty(vocab.Member, member)
	}
	if handle.Component.Flag(vocab.NoConstructor) {
		out.SetProperty(vocab.NoConstructor, store.True())
	}
	out.SetProperty(vocab.OriginalInstance, config)
	out.SetProperty(vocab.Arguments, store.NewList(args...))
	return out
}

func containsIRI(list []*graph.Resource, iri string) bool {
	for _, r := range list {
		if r.Value() == iri {
			return true
		}
	}
	return false
}
