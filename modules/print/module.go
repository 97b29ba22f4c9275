package print

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/specialistvlad/gridwire/internal/handlers"
)

// ModuleName is the module name configs use to require this package.
const ModuleName = "print"

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the constructor argument of a Printer.
type Input struct {
	Prefix string         `arg:"prefix"`
	Value  map[string]any `arg:"value"`
}

// Printer renders a map of values, one sorted key per line.
type Printer struct {
	prefix string
	value  map[string]any
}

// NewPrinter is the factory of the 'Printer' member.
func NewPrinter(_ context.Context, args []any) (any, error) {
	var input Input
	if err := handlers.DecodeArg(args, 0, &input); err != nil {
		return nil, err
	}
	return &Printer{prefix: input.Prefix, value: input.Value}, nil
}

// String renders the printer's values.
func (p *Printer) String() string {
	if p.value == nil {
		return p.prefix + "(null)"
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(p.value))
	for k := range p.value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s%s = %q", p.prefix, k, fmt.Sprint(p.value[k]))
	}
	return b.String()
}

// WriteTo writes the rendered values followed by a newline.
func (p *Printer) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintln(w, p.String())
	return int64(n), err
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(handlers.Name(ModuleName, "Printer"), &handlers.Registered{
		New: NewPrinter,
	})
}
