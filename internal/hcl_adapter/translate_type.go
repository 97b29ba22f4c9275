package hcl_adapter

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/gridwire/internal/graph"
)

// rangeTerm translates the range of a parameter. Type expressions such as
// `string` or `list(number)` become literals and are checked here; compact
// or absolute IRIs name a datatype or a component.
func (t *translator) rangeTerm(src string, subject hcl.Range) (*graph.Resource, hcl.Diagnostics) {
	if strings.Contains(src, ":") && !strings.Contains(src, "(") {
		n, diag := t.node(src, subject)
		if diag != nil {
			return nil, hcl.Diagnostics{diag}
		}
		return n, nil
	}

	expr, diags := hclsyntax.ParseExpression([]byte(src), subject.Filename, subject.Start)
	if diags.HasErrors() {
		return nil, diags
	}
	if _, diags := typeexpr.TypeConstraint(expr); diags.HasErrors() {
		return nil, diags
	}
	return t.store.Literal(src), nil
}
