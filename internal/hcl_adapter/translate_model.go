// This file contains the logic for translating the decoded HCL blocks into
// nodes of the resource graph.

package hcl_adapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/nodeid"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// stepKinds maps step block labels to override step types.
var stepKinds = map[string]string{
	"parameters":    vocab.StepParameters,
	"insert_before": vocab.StepListInsertBefore,
	"insert_after":  vocab.StepListInsertAfter,
	"insert_at":     vocab.StepListInsertAt,
	"remove":        vocab.StepListRemove,
	"map_entry":     vocab.StepMapEntry,
}

// translator writes decoded blocks into a store.
type translator struct {
	ctx      context.Context
	store    *graph.Store
	prefixes nodeid.Prefixes
	evalCtx  *hcl.EvalContext
}

// translateComponent converts a component block into a component node.
func (t *translator) translateComponent(c *Component) (*graph.Resource, hcl.Diagnostics) {
	logger := ctxlog.FromContext(t.ctx).With("component", c.IRI)
	logger.Debug("Translating HCL component to graph.")

	component, diag := t.node(c.IRI, c.DefRange)
	if diag != nil {
		return nil, hcl.Diagnostics{diag}
	}
	var diags hcl.Diagnostics

	component.AddPropertyUnique(vocab.Type, t.store.Named(vocab.Component))
	if c.Module != "" {
		component.SetProperty(vocab.Module, t.store.Literal(c.Module))
	}
	if c.Member != "" {
		component.SetProperty(vocab.Member, t.store.Literal(c.Member))
	}
	if c.NoConstructor {
		component.SetProperty(vocab.NoConstructor, t.store.True())
	}

	supers, moreDiags := t.nodes(c.Extends, c.DefRange)
	diags = append(diags, moreDiags...)
	component.AddPropertyUnique(vocab.Extends, supers...)

	for _, p := range c.Parameters {
		parameter, moreDiags := t.translateParameter(p)
		diags = append(diags, moreDiags...)
		if parameter != nil {
			component.AddPropertyUnique(vocab.Parameters, parameter)
		}
	}

	if isExprDefined(t.ctx, c.ConstructorArguments, "constructor_arguments") {
		template, moreDiags := t.term(c.ConstructorArguments)
		diags = append(diags, moreDiags...)
		if template != nil {
			component.SetProperty(vocab.ConstructorArguments, template)
		}
	}

	logger.Debug("Component translated.", "parameters", len(c.Parameters), "extends", len(supers))
	return component, diags
}

// translateParameter converts a parameter block into a parameter node.
func (t *translator) translateParameter(p *Parameter) (*graph.Resource, hcl.Diagnostics) {
	parameter, diag := t.node(p.IRI, p.DefRange)
	if diag != nil {
		return nil, hcl.Diagnostics{diag}
	}
	var diags hcl.Diagnostics

	parameter.AddPropertyUnique(vocab.Type, t.store.Named(vocab.Parameter))
	if isExprDefined(t.ctx, p.Default, "default") {
		value, moreDiags := t.term(p.Default)
		diags = append(diags, moreDiags...)
		if value != nil {
			parameter.SetProperty(vocab.Default, value)
		}
	}
	if isExprDefined(t.ctx, p.Fixed, "fixed") {
		values, moreDiags := t.terms(p.Fixed)
		diags = append(diags, moreDiags...)
		parameter.SetProperty(vocab.Fixed, values...)
	}
	if p.Unique {
		parameter.SetProperty(vocab.Unique, t.store.True())
	}
	if p.Lazy {
		parameter.SetProperty(vocab.Lazy, t.store.True())
	}
	if p.Range != "" {
		rangeType, moreDiags := t.rangeTerm(p.Range, p.DefRange)
		diags = append(diags, moreDiags...)
		if rangeType != nil {
			parameter.SetProperty(vocab.Range, rangeType)
		}
	}

	for _, scoped := range p.DefaultScoped {
		node := t.store.NewBlank()
		scopes, moreDiags := t.nodes(scoped.Scope, p.DefRange)
		diags = append(diags, moreDiags...)
		node.SetProperty(vocab.DefaultScope, scopes...)
		value, moreDiags := t.term(scoped.Value)
		diags = append(diags, moreDiags...)
		if value != nil {
			node.SetProperty(vocab.DefaultScopedValue, value)
		}
		parameter.AddProperty(vocab.DefaultScoped, node)
	}

	for _, inherit := range p.InheritValues {
		node := t.store.NewBlank()
		node.SetProperty(vocab.Type, t.store.Named(vocab.InheritanceValue))
		from, moreDiags := t.nodes(inherit.From, p.DefRange)
		diags = append(diags, moreDiags...)
		node.SetProperty(vocab.From, from...)
		onParameter, moreDiags := t.nodes(inherit.OnParameter, p.DefRange)
		diags = append(diags, moreDiags...)
		node.SetProperty(vocab.OnParameter, onParameter...)
		parameter.AddProperty(vocab.InheritValues, node)
	}
	return parameter, diags
}

// translateConfig converts a config block into a config node.
func (t *translator) translateConfig(c *Config) (*graph.Resource, hcl.Diagnostics) {
	ctxlog.FromContext(t.ctx).Debug("Translating HCL config to graph.", "config", c.IRI)

	config, diag := t.node(c.IRI, c.DefRange)
	if diag != nil {
		return nil, hcl.Diagnostics{diag}
	}
	var diags hcl.Diagnostics

	typeNames := c.Types
	if c.Type != "" {
		typeNames = append([]string{c.Type}, typeNames...)
	}
	types, moreDiags := t.nodes(typeNames, c.DefRange)
	diags = append(diags, moreDiags...)
	config.AddPropertyUnique(vocab.Type, types...)

	if c.Module != "" {
		config.SetProperty(vocab.Module, t.store.Literal(c.Module))
	}
	if c.Member != "" {
		config.SetProperty(vocab.Member, t.store.Literal(c.Member))
	}
	if c.NoConstructor {
		config.SetProperty(vocab.NoConstructor, t.store.True())
	}

	if isExprDefined(t.ctx, c.Arguments, "arguments") {
		args, moreDiags := t.term(c.Arguments)
		diags = append(diags, moreDiags...)
		if args != nil && !args.IsList() {
			diags = append(diags, errorDiag("Invalid arguments", "The arguments of a config must be a list.", c.Arguments.Range()))
		} else if args != nil {
			config.SetProperty(vocab.Arguments, args)
		}
	}

	if isExprDefined(t.ctx, c.Params, "params") {
		moreDiags := t.translateParams(config, c.Params)
		diags = append(diags, moreDiags...)
	}
	return config, diags
}

// translateParams sets one property per key of the params object.
func (t *translator) translateParams(config *graph.Resource, expr hcl.Expression) hcl.Diagnostics {
	val, diags := t.eval(expr)
	if diags.HasErrors() {
		return diags
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return append(diags, errorDiag("Invalid params", "The params of a config must be an object.", expr.Range()))
	}

	attrs := val.AsValueMap()
	for _, key := range sortedKeys(attrs) {
		value, moreDiags := t.encode(attrs[key], expr.Range())
		diags = append(diags, moreDiags...)
		if value != nil {
			config.AddProperty(t.predicate(key), value)
		}
	}
	return diags
}

// translateOverride converts an override block into an override node.
func (t *translator) translateOverride(o *Override) (*graph.Resource, hcl.Diagnostics) {
	override, diag := t.node(o.IRI, o.DefRange)
	if diag != nil {
		return nil, hcl.Diagnostics{diag}
	}
	var diags hcl.Diagnostics

	override.AddPropertyUnique(vocab.Type, t.store.Named(vocab.Override))
	if o.Target != "" {
		target, diag := t.node(o.Target, o.DefRange)
		if diag != nil {
			diags = append(diags, diag)
		} else {
			override.AddPropertyUnique(vocab.OverrideInstance, target)
		}
	}

	if isExprDefined(t.ctx, o.Parameters, "parameters") {
		shorthand, moreDiags := t.term(o.Parameters)
		diags = append(diags, moreDiags...)
		if shorthand != nil {
			override.SetProperty(vocab.OverrideParameters, shorthand)
		}
	}

	steps := make([]*graph.Resource, 0, len(o.Steps))
	for _, s := range o.Steps {
		step, moreDiags := t.translateStep(s)
		diags = append(diags, moreDiags...)
		if step != nil {
			steps = append(steps, step)
		}
	}
	if len(steps) > 0 {
		override.SetProperty(vocab.OverrideSteps, t.store.NewList(steps...))
	}
	return override, diags
}

// translateStep converts a step block into a step node.
func (t *translator) translateStep(s *Step) (*graph.Resource, hcl.Diagnostics) {
	kind, ok := stepKinds[s.Kind]
	if !ok {
		return nil, hcl.Diagnostics{errorDiag(
			"Unknown override step",
			fmt.Sprintf("Step kind %q is not one of %v.", s.Kind, sortedKeys(stepKinds)),
			s.DefRange,
		)}
	}
	var diags hcl.Diagnostics

	step := t.store.NewBlank()
	step.SetProperty(vocab.Type, t.store.Named(kind))
	if s.Parameter != "" {
		step.SetProperty(vocab.OverrideParameter, t.store.Named(t.predicate(s.Parameter)))
	}
	if isExprDefined(t.ctx, s.Target, "target") {
		target, moreDiags := t.term(s.Target)
		diags = append(diags, moreDiags...)
		if target != nil {
			step.SetProperty(vocab.OverrideTarget, target)
		}
	}
	if isExprDefined(t.ctx, s.Values, "values") {
		values, moreDiags := t.terms(s.Values)
		diags = append(diags, moreDiags...)
		step.SetProperty(vocab.OverrideValue, values...)
	}
	return step, diags
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
