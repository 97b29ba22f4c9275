package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Prefixes   map[string]string `hcl:"prefixes,optional"`
	Components []*Component      `hcl:"component,block"`
	Configs    []*Config         `hcl:"config,block"`
	Overrides  []*Override       `hcl:"override,block"`
	Variables  []*Variable       `hcl:"variable,block"`
}

// Component is the schema of a `component "<iri>"` block.
type Component struct {
	IRI                  string         `hcl:"iri,label"`
	Module               string         `hcl:"module,optional"`
	Member               string         `hcl:"member,optional"`
	NoConstructor        bool           `hcl:"no_constructor,optional"`
	Extends              []string       `hcl:"extends,optional"`
	Parameters           []*Parameter   `hcl:"parameter,block"`
	ConstructorArguments hcl.Expression `hcl:"constructor_arguments,optional"`
	DefRange             hcl.Range      `hcl:",def_range"`
}

// Parameter is the schema of a `parameter "<iri>"` block.
type Parameter struct {
	IRI           string           `hcl:"iri,label"`
	Default       hcl.Expression   `hcl:"default,optional"`
	Fixed         hcl.Expression   `hcl:"fixed,optional"`
	Unique        bool             `hcl:"unique,optional"`
	Lazy          bool             `hcl:"lazy,optional"`
	Range         string           `hcl:"range,optional"`
	DefaultScoped []*DefaultScoped `hcl:"default_scoped,block"`
	InheritValues []*InheritValues `hcl:"inherit_values,block"`
	DefRange      hcl.Range        `hcl:",def_range"`
}

// DefaultScoped is a default restricted to some component types.
type DefaultScoped struct {
	Scope []string       `hcl:"scope"`
	Value hcl.Expression `hcl:"value"`
}

// InheritValues copies parameter values from configs of other components.
type InheritValues struct {
	From        []string `hcl:"from"`
	OnParameter []string `hcl:"on_parameter"`
}

// Config is the schema of a `config "<iri>"` block.
type Config struct {
	IRI           string         `hcl:"iri,label"`
	Type          string         `hcl:"type,optional"`
	Types         []string       `hcl:"types,optional"`
	Module        string         `hcl:"module,optional"`
	Member        string         `hcl:"member,optional"`
	NoConstructor bool           `hcl:"no_constructor,optional"`
	Arguments     hcl.Expression `hcl:"arguments,optional"`
	Params        hcl.Expression `hcl:"params,optional"`
	DefRange      hcl.Range      `hcl:",def_range"`
}

// Override is the schema of an `override "<iri>"` block.
type Override struct {
	IRI        string         `hcl:"iri,label"`
	Target     string         `hcl:"target,optional"`
	Parameters hcl.Expression `hcl:"parameters,optional"`
	Steps      []*Step        `hcl:"step,block"`
	DefRange   hcl.Range      `hcl:",def_range"`
}

// Step is the schema of a `step "<kind>"` block inside an override.
type Step struct {
	Kind      string         `hcl:"kind,label"`
	Parameter string         `hcl:"parameter,optional"`
	Target    hcl.Expression `hcl:"target,optional"`
	Values    hcl.Expression `hcl:"values,optional"`
	DefRange  hcl.Range      `hcl:",def_range"`
}

// Variable is the schema of a `variable "<iri>"` block.
type Variable struct {
	IRI      string    `hcl:"iri,label"`
	DefRange hcl.Range `hcl:",def_range"`
}
