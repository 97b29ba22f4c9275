package hcl_adapter

import (
	"context"
	"fmt"
	"maps"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/fsutil"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/nodeid"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// DefaultPrefixes are available in every configuration.
var DefaultPrefixes = nodeid.Prefixes{
	"gw":  vocab.Namespace,
	"xsd": vocab.XSD,
}

// Document is the result of loading a configuration.
type Document struct {
	Store    *graph.Store
	Prefixes nodeid.Prefixes
	Files    []string

	Components []*graph.Resource
	Configs    []*graph.Resource
	Overrides  []*graph.Resource
	Variables  []*graph.Resource

	// Dangling lists referenced IRIs nothing in the configuration describes.
	Dangling []string
}

// Resolve looks up a node by (compact) IRI or blank label. Only nodes the
// configuration mentions are found.
func (d *Document) Resolve(raw string) (*graph.Resource, error) {
	id, err := nodeid.Parse(raw, d.Prefixes)
	if err != nil {
		return nil, err
	}
	r, ok := d.Store.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%s is not defined in the configuration", id)
	}
	return r, nil
}

// Loader reads HCL configuration files into a resource graph.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// parsedFile keeps the decoded blocks of one file until all prefixes are
// known.
type parsedFile struct {
	path string
	root fileRoot
}

// Load orchestrates the entire HCL configuration loading process. Paths may
// be files or directories. Prefixes declared in any file apply to all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	prefixes := maps.Clone(DefaultPrefixes)
	parsed := make([]parsedFile, 0, len(files))
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		prefixes.Merge(root.Prefixes)
		parsed = append(parsed, parsedFile{path: file, root: root})
	}

	doc := &Document{Store: graph.NewStore(), Prefixes: prefixes, Files: files}
	t := &translator{ctx: ctx, store: doc.Store, prefixes: prefixes, evalCtx: evalContext()}

	var exprs []hcl.Expression
	for _, f := range parsed {
		if diags := t.translateFile(doc, f.root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to translate HCL file %s: %w", f.path, diags)
		}
		exprs = append(exprs, f.root.Expressions()...)
	}

	doc.Dangling = t.danglingReferences(referencedIRIs(exprs...))
	for _, iri := range doc.Dangling {
		logger.Warn("Reference to a node the configuration does not describe.", "iri", iri)
	}

	logger.Debug("HCL loading complete.",
		"components", len(doc.Components),
		"configs", len(doc.Configs),
		"overrides", len(doc.Overrides),
		"variables", len(doc.Variables),
	)
	return doc, nil
}

// translateFile translates and records all blocks of one file.
func (t *translator) translateFile(doc *Document, root fileRoot) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, v := range root.Variables {
		variable, diag := t.node(v.IRI, v.DefRange)
		if diag != nil {
			diags = append(diags, diag)
			continue
		}
		variable.AddPropertyUnique(vocab.Type, t.store.Named(vocab.Variable))
		doc.Variables = append(doc.Variables, variable)
	}
	for _, c := range root.Components {
		component, moreDiags := t.translateComponent(c)
		diags = append(diags, moreDiags...)
		if component != nil {
			doc.Components = append(doc.Components, component)
		}
	}
	for _, c := range root.Configs {
		config, moreDiags := t.translateConfig(c)
		diags = append(diags, moreDiags...)
		if config != nil {
			doc.Configs = append(doc.Configs, config)
		}
	}
	for _, o := range root.Overrides {
		override, moreDiags := t.translateOverride(o)
		diags = append(diags, moreDiags...)
		if override != nil {
			doc.Overrides = append(doc.Overrides, override)
		}
	}
	return diags
}
