package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// Registry holds the component type definitions for a single application
// instance.
type Registry struct {
	components map[string]*graph.Resource
	finalized  bool
}

// New creates and initializes a new, empty Registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]*graph.Resource),
	}
}

// Register adds a component type definition. Registering the same IRI twice
// with different nodes is an error; re-registering the same node is a no-op.
func (r *Registry) Register(ctx context.Context, component *graph.Resource) error {
	if existing, exists := r.components[component.Value()]; exists {
		if existing.Same(component) {
			return nil
		}
		return fmt.Errorf("component '%s' already registered", component.Value())
	}
	ctxlog.FromContext(ctx).Debug("Registering component.", "component", component.Value())
	r.components[component.Value()] = component
	r.finalized = false
	return nil
}

// PopulateFromStore registers every node of the store typed as a component.
func (r *Registry) PopulateFromStore(ctx context.Context, store *graph.Store) error {
	for _, component := range store.OfType(vocab.Component) {
		if err := r.Register(ctx, component); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Registry populated from graph.", "components", len(r.components))
	return nil
}

// Component looks up a definition by its type IRI.
func (r *Registry) Component(iri string) (*graph.Resource, bool) {
	c, ok := r.components[iri]
	return c, ok
}

// Components returns all definitions sorted by IRI.
func (r *Registry) Components() []*graph.Resource {
	out := make([]*graph.Resource, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value() < out[j].Value() })
	return out
}

// Finalized reports whether inheritance has been resolved since the last
// registration.
func (r *Registry) Finalized() bool {
	return r.finalized
}

// Ancestors returns the IRIs of all known super-types of a component,
// nearest first, without duplicates.
func (r *Registry) Ancestors(iri string) []string {
	var out []string
	seen := map[string]bool{iri: true}
	queue := []string{iri}
	for len(queue) > 0 {
		current, ok := r.components[queue[0]]
		queue = queue[1:]
		if !ok {
			continue
		}
		for _, super := range current.Properties(vocab.Extends) {
			if seen[super.Value()] {
				continue
			}
			seen[super.Value()] = true
			out = append(out, super.Value())
			queue = append(queue, super.Value())
		}
	}
	return out
}

// IsSubtypeOf reports whether the component equals the ancestor or inherits
// from it, directly or transitively.
func (r *Registry) IsSubtypeOf(iri, ancestor string) bool {
	if iri == ancestor {
		return true
	}
	for _, a := range r.Ancestors(iri) {
		if a == ancestor {
			return true
		}
	}
	return false
}
