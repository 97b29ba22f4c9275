package graph

import (
	"fmt"
	"strings"
)

// ContextEntry is one named piece of context attached to a ContextError.
type ContextEntry struct {
	Name  string
	Value any
}

// ContextError is a configuration error carrying the graph nodes (or plain
// values) that are implicated in it.
type ContextError struct {
	Message string
	Context []ContextEntry
	cause   error
}

// NewError creates a ContextError. The variadic arguments are alternating
// names and values, in the style of slog attributes. A trailing name without
// a value is ignored.
func NewError(message string, kv ...any) *ContextError {
	e := &ContextError{Message: message}
	for i := 0; i+1 < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			name = fmt.Sprint(kv[i])
		}
		e.Context = append(e.Context, ContextEntry{Name: name, Value: kv[i+1]})
	}
	return e
}

// WithCause attaches an underlying error, exposed through Unwrap.
func (e *ContextError) WithCause(err error) *ContextError {
	e.cause = err
	return e
}

// Unwrap returns the underlying cause, if any.
func (e *ContextError) Unwrap() error {
	return e.cause
}

// Error renders the message followed by one line per context entry.
func (e *ContextError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, entry := range e.Context {
		sb.WriteString("\n  ")
		sb.WriteString(entry.Name)
		sb.WriteString(": ")
		sb.WriteString(describe(entry.Value))
	}
	if e.cause != nil {
		sb.WriteString("\n  cause: ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func describe(v any) string {
	switch val := v.(type) {
	case *Resource:
		return val.String()
	case []*Resource:
		parts := make([]string, len(val))
		for i, r := range val {
			parts[i] = r.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}
