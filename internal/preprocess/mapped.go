package preprocess

import (
	"context"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// MappedNormalizer handles configs whose component declares a custom
// constructor-argument template.
type MappedNormalizer struct {
	store   *graph.Store
	catalog *registry.Registry
	mapper  *Mapper
	seen    *SeenInstances
}

// NewMappedNormalizer creates a MappedNormalizer.
func NewMappedNormalizer(store *graph.Store, catalog *registry.Registry, mapper *Mapper, seen *SeenInstances) *MappedNormalizer {
	return &MappedNormalizer{store: store, catalog: catalog, mapper: mapper, seen: seen}
}

// Preprocess claims and finishes configs of mapped components.
func (n *MappedNormalizer) Preprocess(ctx context.Context, config *graph.Resource) (Result, bool, error) {
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

// CanHandle claims the same configs as ComponentNormalizer, restricted to
// components with a constructor-argument template.
func (n *MappedNormalizer) CanHandle(config *graph.Resource) (Handle, bool, error) {
	handle, ok, err := findComponent(n.catalog, config)
	if err != nil || !ok {
		return Handle{}, false, err
	}
	if !handle.Component.HasProperty(vocab.ConstructorArguments) {
		return Handle{}, false, nil
	}
	return handle, true, nil
}

// Transform produces the canonical form of the config from the template.
func (n *MappedNormalizer) Transform(ctx context.Context, config *graph.Resource, handle Handle) (*graph.Resource, error) {
	if err := inheritParameterValues(n.catalog, n.seen, handle.Component, config); err != nil {
		return nil, err
	}
	n.seen.Add(handle.Component.Value(), config)

	args, err := n.mapper.Map(ctx, handle.Component, config)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Normalized mapped component config.",
		"config", config.Key(),
		"component", handle.Component.Value(),
		"arguments", len(args),
	)
	return canonical(n.store, config, handle, args), nil
}

// Reset forgets the seen instances.
func (n *MappedNormalizer) Reset() {
	n.seen.Reset()
}
