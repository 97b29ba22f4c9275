package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// Finalize resolves inheritance for every registered component: parameters
// of all super-types are appended to the component's own parameter list, and
// fields of super constructor-argument objects are folded into the objects
// that extend them. Entries are de-duplicated by reference, so finalizing
// twice is harmless.
func (r *Registry) Finalize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error

	for _, component := range r.Components() {
		if err := r.inheritParameters(component, component, map[string]bool{component.Value(): true}); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := inheritConstructorArguments(component); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry finalization failed: %w", errors.Join(errs...))
	}

	r.finalized = true
	logger.Debug("Registry finalized.", "components", len(r.components))
	return nil
}

// inheritParameters walks the super-type chain of current, appending every
// parameter found on the way to target.
func (r *Registry) inheritParameters(target, current *graph.Resource, visited map[string]bool) error {
	for _, superRef := range current.Properties(vocab.Extends) {
		if visited[superRef.Value()] {
			continue
		}
		visited[superRef.Value()] = true

		super, ok := r.components[superRef.Value()]
		if !ok || !super.IsA(vocab.Component) {
			return graph.NewError(
				fmt.Sprintf("Resource %s is not a valid component, either it is not defined, has no type, or is incorrectly referenced by %s", superRef.Value(), target.Value()),
				"component", target,
				"superComponent", superRef,
			)
		}
		target.AddPropertyUnique(vocab.Parameters, super.Properties(vocab.Parameters)...)
		if err := r.inheritParameters(target, super, visited); err != nil {
			return err
		}
	}
	return nil
}

// inheritConstructorArguments folds super object fields into each object of
// the component's constructor-argument template.
func inheritConstructorArguments(component *graph.Resource) error {
	template := component.Property(vocab.ConstructorArguments)
	if template == nil {
		return nil
	}
	objects, ok := template.List()
	if !ok {
		return graph.NewError(
			fmt.Sprintf("Detected non-list as value for constructor arguments of %s", component.Value()),
			"component", component,
			"constructorArguments", template,
		)
	}
	for _, object := range objects {
		if err := inheritObjectFields(component, object, object, map[*graph.Resource]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func inheritObjectFields(component, target, current *graph.Resource, visited map[*graph.Resource]bool) error {
	for _, super := range current.Properties(vocab.Extends) {
		if visited[super] {
			continue
		}
		visited[super] = true

		if !super.HasProperty(vocab.Fields) {
			return graph.NewError(
				fmt.Sprintf("Detected illegal super constructor-argument object without fields in %s", component.Value()),
				"component", component,
				"object", target,
				"superObject", super,
			)
		}
		appendFields(target, FieldEntries(super))
		if err := inheritObjectFields(component, target, super, visited); err != nil {
			return err
		}
	}
	return nil
}

// appendFields adds the given field entries to the object, skipping entries
// already present by reference. List-shaped fields stay list-shaped.
func appendFields(object *graph.Resource, fields []*graph.Resource) {
	existing := object.Property(vocab.Fields)
	if existing != nil && existing.IsList() {
		members, _ := existing.List()
		for _, f := range fields {
			if !containsSame(members, f) {
				members = append(members, f)
			}
		}
		existing.SetList(members)
		return
	}
	object.AddPropertyUnique(vocab.Fields, fields...)
}

// FieldEntries returns the field entries of a fields-shaped node, whether
// they are stored as a single list or as multiple property values.
func FieldEntries(object *graph.Resource) []*graph.Resource {
	fields := object.Properties(vocab.Fields)
	if len(fields) == 1 {
		if members, ok := fields[0].List(); ok {
			return members
		}
	}
	return fields
}

func containsSame(list []*graph.Resource, r *graph.Resource) bool {
	for _, m := range list {
		if m.Same(r) {
			return true
		}
	}
	return false
}
