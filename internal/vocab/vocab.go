// Package vocab lists the IRIs of the construction vocabulary: the types and
// predicates the engine reads from, and writes into, the resource graph.
package vocab

// Namespace is the base IRI of every term defined by this package.
const Namespace = "https://w3id.org/gridwire/vocab#"

// Type is the predicate linking a node to its declared types.
const Type = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Node types.
const (
	Component        = Namespace + "Component"
	Parameter        = Namespace + "Parameter"
	Variable         = Namespace + "Variable"
	Undefined        = Namespace + "Undefined"
	Instance         = Namespace + "Instance"
	Override         = Namespace + "Override"
	InheritanceValue = Namespace + "InheritanceValue"
)

// Canonical config shape.
const (
	Module           = Namespace + "module"
	Member           = Namespace + "member"
	NoConstructor    = Namespace + "noConstructor"
	Arguments        = Namespace + "arguments"
	OriginalInstance = Namespace + "originalInstance"
)

// Argument shapes.
const (
	Fields            = Namespace + "fields"
	HasFields         = Namespace + "hasFields"
	Key               = Namespace + "key"
	Value             = Namespace + "value"
	Elements          = Namespace + "elements"
	KeyRaw            = Namespace + "keyRaw"
	ValueRawReference = Namespace + "valueRawReference"
	CollectEntries    = Namespace + "collectEntries"
)

// Component type definitions.
const (
	Parameters           = Namespace + "parameters"
	ConstructorArguments = Namespace + "constructorArguments"
	Extends              = Namespace + "extends"
)

// Parameter definitions.
const (
	Default            = Namespace + "default"
	DefaultScoped      = Namespace + "defaultScoped"
	DefaultScope       = Namespace + "defaultScope"
	DefaultScopedValue = Namespace + "defaultScopedValue"
	Fixed              = Namespace + "fixed"
	Unique             = Namespace + "unique"
	Lazy               = Namespace + "lazy"
	Range              = Namespace + "range"
	InheritValues      = Namespace + "inheritValues"
	OnParameter        = Namespace + "onParameter"
	From               = Namespace + "from"
)

// Overrides.
const (
	OverrideInstance   = Namespace + "overrideInstance"
	OverrideSteps      = Namespace + "overrideSteps"
	OverrideParameters = Namespace + "overrideParameters"
	OverrideParameter  = Namespace + "overrideParameter"
	OverrideTarget     = Namespace + "overrideTarget"
	OverrideValue      = Namespace + "overrideValue"

	StepParameters       = Namespace + "OverrideParameters"
	StepListInsertBefore = Namespace + "OverrideListInsertBefore"
	StepListInsertAfter  = Namespace + "OverrideListInsertAfter"
	StepListInsertAt     = Namespace + "OverrideListInsertAt"
	StepListRemove       = Namespace + "OverrideListRemove"
	StepMapEntry         = Namespace + "OverrideMapEntry"
)

// Datatypes used for typed literals.
const (
	XSD        = "http://www.w3.org/2001/XMLSchema#"
	XSDString  = XSD + "string"
	XSDBoolean = XSD + "boolean"
	XSDInteger = XSD + "integer"
	XSDDecimal = XSD + "decimal"
)
