// Package rangecheck is the default range validator of the parameter
// resolver. A range is either an HCL type expression such as `number` or
// `list(string)`, an XSD datatype IRI, or a component IRI.
package rangecheck

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/vocab"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var datatypes = map[string]cty.Type{
	vocab.XSDString:  cty.String,
	vocab.XSDBoolean: cty.Bool,
	vocab.XSDInteger: cty.Number,
	vocab.XSDDecimal: cty.Number,
}

// Checker validates parameter values against declared ranges.
type Checker struct {
	catalog *registry.Registry
	// types caches parsed type expressions by source text.
	types sync.Map
}

// New creates a Checker resolving component ranges through the catalog.
func New(catalog *registry.Registry) *Checker {
	return &Checker{catalog: catalog}
}

// CheckRange reports whether value conforms to rangeType.
func (c *Checker) CheckRange(_ context.Context, rangeType, value *graph.Resource) (bool, error) {
	if value.IsA(vocab.Undefined) {
		return true, nil
	}

	if rangeType.IsNamed() {
		if ty, ok := datatypes[rangeType.Value()]; ok {
			return conforms(value, ty), nil
		}
		if c.catalog != nil {
			if _, ok := c.catalog.Component(rangeType.Value()); ok {
				return c.isInstanceOf(value, rangeType.Value()), nil
			}
		}
		return false, fmt.Errorf("range %s is neither a datatype nor a known component", rangeType.Value())
	}

	if !rangeType.IsLiteral() {
		return false, fmt.Errorf("unsupported range %s", rangeType.Key())
	}
	ty, err := c.parse(rangeType.Value())
	if err != nil {
		return false, err
	}
	return conforms(value, ty), nil
}

func (c *Checker) parse(src string) (cty.Type, error) {
	if cached, ok := c.types.Load(src); ok {
		return cached.(cty.Type), nil
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), "range", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("failed to parse range %q: %w", src, diags)
	}
	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("invalid range type %q: %w", src, diags)
	}
	c.types.Store(src, ty)
	return ty, nil
}

func (c *Checker) isInstanceOf(value *graph.Resource, component string) bool {
	if value.IsLiteral() {
		return false
	}
	for _, t := range value.Types() {
		if c.catalog.IsSubtypeOf(t.Value(), component) {
			return true
		}
	}
	return false
}

// conforms converts the value into cty and checks that it can be converted
// to the wanted type.
func conforms(value *graph.Resource, ty cty.Type) bool {
	if ty == cty.DynamicPseudoType {
		return true
	}
	v, ok := toCty(value)
	if !ok {
		return false
	}
	_, err := convert.Convert(v, ty)
	return err == nil
}

func toCty(value *graph.Resource) (cty.Value, bool) {
	if members, ok := value.List(); ok {
		if len(members) == 0 {
			return cty.EmptyTupleVal, true
		}
		vals := make([]cty.Value, len(members))
		for i, m := range members {
			v, ok := toCty(m)
			if !ok {
				return cty.NilVal, false
			}
			vals[i] = v
		}
		return cty.TupleVal(vals), true
	}
	if value.IsLiteral() {
		return cty.StringVal(value.Value()), true
	}
	return cty.NilVal, false
}
