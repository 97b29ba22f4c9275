package hcl_adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/nodeid"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional expressions with zero-width
// placeholders, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// errorDiag creates a single error diagnostic.
func errorDiag(summary, detail string, subject hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  subject.Ptr(),
	}
}

// node resolves a (compact) IRI or `_:label` into a named or blank node.
func (t *translator) node(raw string, subject hcl.Range) (*graph.Resource, *hcl.Diagnostic) {
	id, err := nodeid.Parse(raw, t.prefixes)
	if err != nil {
		return nil, errorDiag("Invalid identifier", err.Error(), subject)
	}
	if id.Kind == nodeid.Literal {
		return nil, errorDiag("Invalid identifier", fmt.Sprintf("%q is a literal, a node identifier is required", raw), subject)
	}
	return t.store.Resource(id), nil
}

// nodes resolves a list of identifiers, collecting all diagnostics.
func (t *translator) nodes(raws []string, subject hcl.Range) ([]*graph.Resource, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	out := make([]*graph.Resource, 0, len(raws))
	for _, raw := range raws {
		n, diag := t.node(raw, subject)
		if diag != nil {
			diags = append(diags, diag)
			continue
		}
		out = append(out, n)
	}
	return out, diags
}

// predicate expands an object key into a predicate IRI. Keys without a
// colon belong to the construction vocabulary.
func (t *translator) predicate(key string) string {
	if strings.Contains(key, ":") {
		return t.prefixes.Expand(key)
	}
	return vocab.Namespace + key
}
