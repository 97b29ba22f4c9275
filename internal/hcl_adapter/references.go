package hcl_adapter

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Expressions returns every expression of the file that may hold ref() calls.
func (r *fileRoot) Expressions() []hcl.Expression {
	var exprs []hcl.Expression
	for _, c := range r.Components {
		exprs = append(exprs, c.ConstructorArguments)
		for _, p := range c.Parameters {
			exprs = append(exprs, p.Default, p.Fixed)
			for _, scoped := range p.DefaultScoped {
				exprs = append(exprs, scoped.Value)
			}
		}
	}
	for _, c := range r.Configs {
		exprs = append(exprs, c.Arguments, c.Params)
	}
	for _, o := range r.Overrides {
		exprs = append(exprs, o.Parameters)
		for _, s := range o.Steps {
			exprs = append(exprs, s.Target, s.Values)
		}
	}
	return exprs
}

// referencedIRIs finds the constant arguments of all ref() calls. The result
// is sorted and unique.
func referencedIRIs(exprs ...hcl.Expression) []string {
	refs := make(map[string]struct{})
	for _, expr := range exprs {
		if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
			walkForRefs(syntaxExpr, refs)
		}
	}

	out := make([]string, 0, len(refs))
	for ref := range refs {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

// walkForRefs recursively walks the AST, looking only for ref() calls.
func walkForRefs(expr hclsyntax.Expression, refs map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if e.Name == "ref" && len(e.Args) == 1 {
			if v, diags := e.Args[0].Value(nil); !diags.HasErrors() && v.Type() == cty.String && v.IsKnown() && !v.IsNull() {
				refs[v.AsString()] = struct{}{}
			}
		}
		for _, arg := range e.Args {
			walkForRefs(arg, refs)
		}
	case *hclsyntax.ConditionalExpr:
		walkForRefs(e.Condition, refs)
		walkForRefs(e.TrueResult, refs)
		walkForRefs(e.FalseResult, refs)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForRefs(item, refs)
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			walkForRefs(item.ValueExpr, refs)
		}
	case *hclsyntax.ForExpr:
		walkForRefs(e.CollExpr, refs)
		walkForRefs(e.KeyExpr, refs)
		walkForRefs(e.ValExpr, refs)
	case *hclsyntax.IndexExpr:
		walkForRefs(e.Collection, refs)
	case *hclsyntax.ParenthesesExpr:
		walkForRefs(e.Expression, refs)
	}
}

// danglingReferences returns the expanded IRIs of referenced nodes that no
// block or object of the configuration describes.
func (t *translator) danglingReferences(raws []string) []string {
	var out []string
	for _, raw := range raws {
		n, diag := t.node(raw, hcl.Range{})
		if diag != nil || !n.IsNamed() {
			continue
		}
		if len(n.Predicates()) == 0 {
			out = append(out, n.Value())
		}
	}
	return out
}
