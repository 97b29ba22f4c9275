// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for the
identifiers of graph terms.

A term is one of three kinds, each with a canonical string form:

	http://example.org/thing    named node (an absolute IRI)
	_:b0                        blank node (an anonymous, locally scoped node)
	"text"^^<datatype>          literal (the datatype suffix is optional)

Compact IRIs such as `ex:thing` are expanded through a Prefixes table
before they become named-node identifiers. This package centralizes all
formatting and parsing of these forms.
*/
package nodeid
