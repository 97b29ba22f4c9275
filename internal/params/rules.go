package params

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// input is the fixed part of one resolution.
type input struct {
	root      *graph.Resource
	parameter *graph.Resource
	config    *graph.Resource
}

// rule is one link of the resolution chain.
type rule interface {
	applies(values []*graph.Resource, in input) bool
	apply(ctx context.Context, values []*graph.Resource, in input) ([]*graph.Resource, error)
}

// scopedDefaultRule fills in defaults restricted to the component being
// configured or one of its super-types.
type scopedDefaultRule struct {
	catalog *registry.Registry
}

func (scopedDefaultRule) applies(values []*graph.Resource, in input) bool {
	return len(values) == 0 && in.parameter.HasProperty(vocab.DefaultScoped)
}

func (h scopedDefaultRule) apply(_ context.Context, values []*graph.Resource, in input) ([]*graph.Resource, error) {
	for _, scoped := range in.parameter.Properties(vocab.DefaultScoped) {
		scopes := scoped.Properties(vocab.DefaultScope)
		if len(scopes) == 0 {
			return nil, graph.NewError(
				fmt.Sprintf("Invalid default scope for parameter %s: no scope was defined", in.parameter.Value()),
				"parameter", in.parameter,
			)
		}
		for _, scope := range scopes {
			if h.inScope(in.root, scope.Value()) {
				values = append(values, scoped.Properties(vocab.DefaultScopedValue)...)
			}
		}
	}
	return values, nil
}

// inScope reports whether root, or one of its declared types, is the scope
// type or inherits from it.
func (h scopedDefaultRule) inScope(root *graph.Resource, scope string) bool {
	candidates := []string{root.Value()}
	for _, t := range root.Types() {
		candidates = append(candidates, t.Value())
	}
	for _, c := range candidates {
		if c == scope {
			return true
		}
		if h.catalog != nil && h.catalog.IsSubtypeOf(c, scope) {
			return true
		}
	}
	return false
}

// defaultRule fills in the plain default.
type defaultRule struct{}

func (defaultRule) applies(values []*graph.Resource, in input) bool {
	return len(values) == 0 && in.parameter.HasProperty(vocab.Default)
}

func (defaultRule) apply(_ context.Context, _ []*graph.Resource, in input) ([]*graph.Resource, error) {
	return in.parameter.Properties(vocab.Default), nil
}

// fixedRule prepends the fixed values, even when nothing else was set.
type fixedRule struct{}

func (fixedRule) applies(_ []*graph.Resource, in input) bool {
	return in.parameter.HasProperty(vocab.Fixed)
}

func (fixedRule) apply(_ context.Context, values []*graph.Resource, in input) ([]*graph.Resource, error) {
	return append(in.parameter.Properties(vocab.Fixed), values...), nil
}

// rangeRule delegates range checks to the external validator.
type rangeRule struct {
	validator RangeValidator
}

func (h rangeRule) applies(values []*graph.Resource, in input) bool {
	return h.validator != nil && len(values) > 0 && in.parameter.HasProperty(vocab.Range)
}

func (h rangeRule) apply(ctx context.Context, values []*graph.Resource, in input) ([]*graph.Resource, error) {
	rangeType := in.parameter.Property(vocab.Range)
	for _, v := range values {
		ok, err := h.validator.CheckRange(ctx, rangeType, v)
		if err != nil {
			return nil, graph.NewError(
				fmt.Sprintf("Invalid range for parameter %s", in.parameter.Value()),
				"parameter", in.parameter,
				"range", rangeType,
			).WithCause(err)
		}
		if !ok {
			return nil, graph.NewError(
				fmt.Sprintf("Parameter value %q is not of required range type %s", v.Value(), rangeType.Value()),
				"parameter", in.parameter,
				"config", in.config,
				"value", v,
			).WithCause(ErrRangeMismatch)
		}
	}
	return values, nil
}

// uniqueRule keeps only the first value and marks it unique.
type uniqueRule struct{}

func (uniqueRule) applies(values []*graph.Resource, in input) bool {
	return len(values) > 0 && in.parameter.Flag(vocab.Unique)
}

func (uniqueRule) apply(_ context.Context, values []*graph.Resource, _ input) ([]*graph.Resource, error) {
	return []*graph.Resource{values[0].WithUnique()}, nil
}

// lazyRule marks every value lazy. List values get their members marked in a
// fresh list node so the original list stays untouched.
type lazyRule struct {
	store *graph.Store
}

func (lazyRule) applies(values []*graph.Resource, in input) bool {
	return len(values) > 0 && in.parameter.Flag(vocab.Lazy)
}

func (h lazyRule) apply(_ context.Context, values []*graph.Resource, _ input) ([]*graph.Resource, error) {
	out := make([]*graph.Resource, len(values))
	for i, v := range values {
		members, isList := v.List()
		if !isList {
			out[i] = v.WithLazy()
			continue
		}
		for j, m := range members {
			members[j] = m.WithLazy()
		}
		list := h.store.NewList(members...)
		if v.Unique() {
			list = list.WithUnique()
		}
		out[i] = list
	}
	return out, nil
}
