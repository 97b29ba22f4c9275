// internal/nodeid/address.go
package nodeid

import (
	"strconv"
	"strings"
)

// String serializes the identifier into its canonical representation.
func (id ID) String() string {
	switch id.Kind {
	case BlankNode:
		return "_:" + id.Value
	case Literal:
		var sb strings.Builder
		sb.WriteString(strconv.Quote(id.Value))
		if id.Datatype != "" {
			sb.WriteString("^^<")
			sb.WriteString(id.Datatype)
			sb.WriteRune('>')
		}
		return sb.String()
	default:
		return id.Value
	}
}

// Equal checks whether two identifiers denote the same term.
func (id ID) Equal(other ID) bool {
	return id == other
}
