package hcl_adapter

import (
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Capsule types carry values that have no plain cty equivalent through
// expression evaluation, until the encoder turns them into graph terms.
var (
	refType      = cty.Capsule("ref", reflect.TypeOf(""))
	variableType = cty.Capsule("variable", reflect.TypeOf(""))
	rawType      = cty.Capsule("raw", reflect.TypeOf(cty.NilVal))
)

// iriFunction builds a function turning its string argument into a capsule.
func iriFunction(capsule cty.Type) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "iri", Type: cty.String}},
		Type:   function.StaticReturnType(capsule),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			iri := args[0].AsString()
			return cty.CapsuleVal(capsule, &iri), nil
		},
	})
}

// rawFunction wraps any value so it reaches the strategy as a Go value
// instead of literal text.
var rawFunction = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "value", Type: cty.DynamicPseudoType, AllowNull: true}},
	Type:   function.StaticReturnType(rawType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		v := args[0]
		return cty.CapsuleVal(rawType, &v), nil
	},
})

// evalContext is shared by all expressions of a configuration.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"ref":      iriFunction(refType),
			"variable": iriFunction(variableType),
			"raw":      rawFunction,
		},
	}
}
