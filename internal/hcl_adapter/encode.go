package hcl_adapter

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/vocab"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Reserved object keys naming and typing the node an object becomes.
const (
	idKey   = "@id"
	typeKey = "@type"
)

// eval evaluates an expression with the configuration functions.
func (t *translator) eval(expr hcl.Expression) (cty.Value, hcl.Diagnostics) {
	return expr.Value(t.evalCtx)
}

// term evaluates an expression into a single graph term.
func (t *translator) term(expr hcl.Expression) (*graph.Resource, hcl.Diagnostics) {
	val, diags := t.eval(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	r, moreDiags := t.encode(val, expr.Range())
	return r, append(diags, moreDiags...)
}

// terms evaluates an expression into one term per tuple element, or a single
// term for any other value.
func (t *translator) terms(expr hcl.Expression) ([]*graph.Resource, hcl.Diagnostics) {
	val, diags := t.eval(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		r, moreDiags := t.encode(val, expr.Range())
		return []*graph.Resource{r}, append(diags, moreDiags...)
	}
	var out []*graph.Resource
	for it := val.ElementIterator(); it.Next(); {
		_, element := it.Element()
		r, moreDiags := t.encode(element, expr.Range())
		diags = append(diags, moreDiags...)
		if r != nil {
			out = append(out, r)
		}
	}
	return out, diags
}

// encode is a recursive function that turns a cty.Value into a graph term:
// primitives become literals, sequences lists and objects nodes.
func (t *translator) encode(val cty.Value, subject hcl.Range) (*graph.Resource, hcl.Diagnostics) {
	if !val.IsKnown() {
		return nil, hcl.Diagnostics{errorDiag("Unknown value", "The value cannot be determined when loading.", subject)}
	}
	if val.IsNull() {
		return t.undefined(), nil
	}

	ty := val.Type()
	switch {
	case ty.Equals(refType):
		n, diag := t.node(*val.EncapsulatedValue().(*string), subject)
		if diag != nil {
			return nil, hcl.Diagnostics{diag}
		}
		return n, nil

	case ty.Equals(variableType):
		n, diag := t.node(*val.EncapsulatedValue().(*string), subject)
		if diag != nil {
			return nil, hcl.Diagnostics{diag}
		}
		n.AddPropertyUnique(vocab.Type, t.store.Named(vocab.Variable))
		return n, nil

	case ty.Equals(rawType):
		return t.raw(*val.EncapsulatedValue().(*cty.Value), subject)

	case ty == cty.String:
		return t.store.Literal(val.AsString()), nil

	case ty == cty.Number:
		return t.number(val.AsBigFloat()), nil

	case ty == cty.Bool:
		if val.True() {
			return t.store.True(), nil
		}
		return t.store.TypedLiteral("false", vocab.XSDBoolean), nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var diags hcl.Diagnostics
		var members []*graph.Resource
		for it := val.ElementIterator(); it.Next(); {
			_, element := it.Element()
			r, moreDiags := t.encode(element, subject)
			diags = append(diags, moreDiags...)
			members = append(members, r)
		}
		if diags.HasErrors() {
			return nil, diags
		}
		return t.store.NewList(members...), diags

	case ty.IsObjectType() || ty.IsMapType():
		return t.object(val, subject)
	}

	return nil, hcl.Diagnostics{errorDiag("Unsupported value", fmt.Sprintf("Values of type %s cannot be used in a configuration.", ty.FriendlyName()), subject)}
}

// object turns an object into a node. `@id` names the node, `@type` types
// it, every other key is a predicate.
func (t *translator) object(val cty.Value, subject hcl.Range) (*graph.Resource, hcl.Diagnostics) {
	attrs := val.AsValueMap()
	var diags hcl.Diagnostics

	node := t.store.NewBlank()
	if id, ok := attrs[idKey]; ok {
		if !id.Type().Equals(cty.String) || id.IsNull() {
			return nil, hcl.Diagnostics{errorDiag("Invalid @id", "The @id of an object must be a string.", subject)}
		}
		n, diag := t.node(id.AsString(), subject)
		if diag != nil {
			return nil, hcl.Diagnostics{diag}
		}
		node = n
	}

	if types, ok := attrs[typeKey]; ok {
		names, diag := stringList(types, subject)
		if diag != nil {
			return nil, hcl.Diagnostics{diag}
		}
		typeNodes, moreDiags := t.nodes(names, subject)
		diags = append(diags, moreDiags...)
		node.AddPropertyUnique(vocab.Type, typeNodes...)
	}

	for _, key := range sortedKeys(attrs) {
		if key == idKey || key == typeKey {
			continue
		}
		r, moreDiags := t.encode(attrs[key], subject)
		diags = append(diags, moreDiags...)
		if r != nil {
			node.AddProperty(t.predicate(key), r)
		}
	}
	return node, diags
}

// raw creates a literal carrying the Go form of the value. Its text is the
// string itself, or the JSON encoding of anything else.
func (t *translator) raw(val cty.Value, subject hcl.Range) (*graph.Resource, hcl.Diagnostics) {
	if !val.IsWhollyKnown() {
		return nil, hcl.Diagnostics{errorDiag("Unknown value", "The value of raw() cannot be determined when loading.", subject)}
	}
	goVal, err := toGo(val)
	if err != nil {
		return nil, hcl.Diagnostics{errorDiag("Invalid raw value", err.Error(), subject)}
	}

	text := ""
	switch {
	case val.IsNull():
	case val.Type() == cty.String:
		text = val.AsString()
	default:
		b, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return nil, hcl.Diagnostics{errorDiag("Invalid raw value", err.Error(), subject)}
		}
		text = string(b)
	}
	return t.store.Literal(text).WithRaw(goVal), nil
}

func (t *translator) number(f *big.Float) *graph.Resource {
	if f.IsInt() {
		return t.store.TypedLiteral(f.Text('f', 0), vocab.XSDInteger)
	}
	return t.store.TypedLiteral(f.Text('g', -1), vocab.XSDDecimal)
}

func (t *translator) undefined() *graph.Resource {
	n := t.store.NewBlank()
	n.SetProperty(vocab.Type, t.store.Named(vocab.Undefined))
	return n
}

// toGo converts a cty value into plain Go values: string, int64 or float64,
// bool, []any and map[string]any.
func toGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		f := val.AsBigFloat()
		if i, acc := f.Int64(); acc == big.Exact {
			return i, nil
		}
		v, _ := f.Float64()
		return v, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, element := it.Element()
			v, err := toGo(element)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for k, element := range val.AsValueMap() {
			v, err := toGo(element)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("values of type %s have no Go form", ty.FriendlyName())
}

// stringList reads a string or a sequence of strings.
func stringList(val cty.Value, subject hcl.Range) ([]string, *hcl.Diagnostic) {
	if val.Type() == cty.String && !val.IsNull() {
		return []string{val.AsString()}, nil
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, errorDiag("Invalid @type", "The @type of an object must be a string or a list of strings.", subject)
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, element := it.Element()
		if element.Type() != cty.String || element.IsNull() {
			return nil, errorDiag("Invalid @type", "The @type of an object must be a string or a list of strings.", subject)
		}
		out = append(out, element.AsString())
	}
	return out, nil
}
