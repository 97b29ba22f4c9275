// internal/nodeid/types.go
package nodeid

// Kind distinguishes the three shapes a term can take.
type Kind int

const (
	// NamedNode is a globally addressable node identified by an IRI.
	NamedNode Kind = iota
	// BlankNode is an anonymous node with a document-local label.
	BlankNode
	// Literal is a textual value, optionally annotated with a datatype IRI.
	Literal
)

func (k Kind) String() string {
	switch k {
	case NamedNode:
		return "NamedNode"
	case BlankNode:
		return "BlankNode"
	case Literal:
		return "Literal"
	default:
		return "Unknown"
	}
}

// ID is the structured representation of a term identifier.
type ID struct {
	Kind Kind
	// Value is the IRI of a named node, the label of a blank node (without
	// the `_:` marker) or the lexical form of a literal.
	Value string
	// Datatype is only meaningful for literals and may be empty.
	Datatype string
}

// Named creates the identifier of a named node.
func Named(iri string) ID {
	return ID{Kind: NamedNode, Value: iri}
}

// Blank creates the identifier of a blank node.
func Blank(label string) ID {
	return ID{Kind: BlankNode, Value: label}
}

// Lit creates the identifier of a plain literal.
func Lit(value string) ID {
	return ID{Kind: Literal, Value: value}
}

// IsZero reports whether the identifier was never set.
func (id ID) IsZero() bool {
	return id == ID{}
}
