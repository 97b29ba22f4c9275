package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
)

// Factory builds a component instance from its resolved constructor
// arguments.
type Factory func(ctx context.Context, args []any) (any, error)

// Registered is what a module exports under one module name and member.
// New is called when the config asks for a constructor call, Export is
// returned as-is otherwise.
type Registered struct {
	New    Factory
	Export any
}

// Module is implemented by every package contributing native components.
type Module interface {
	Register(h *Handlers)
}

// Handlers holds all the registered component factories.
type Handlers struct {
	mu     sync.RWMutex
	all    map[string]*Registered
	logger *slog.Logger
}

// New creates and initializes a new Handlers instance. Registrations are
// logged to the context's logger.
func New(ctx context.Context, modules ...Module) *Handlers {
	h := &Handlers{
		all:    make(map[string]*Registered),
		logger: ctxlog.FromContext(ctx),
	}
	for _, m := range modules {
		m.Register(h)
	}
	return h
}

// Name is the registration name of a module member. A module without member
// is registered under its bare name.
func Name(module, member string) string {
	if member == "" {
		return module
	}
	return module + "#" + member
}

// Register registers the exports of a module member.
func (h *Handlers) Register(name string, registered *Registered) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("component handler with name '%s' already registered", name))
	}
	h.logger.Debug("Registering component handler.", "name", name)
	h.all[name] = registered
}

// Lookup finds the exports of a module member.
func (h *Handlers) Lookup(module, member string) (*Registered, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.all[Name(module, member)]
	return r, ok
}

// Names returns the sorted registration names.
func (h *Handlers) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.all))
	for name := range h.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeArg decodes one constructor argument into a tagged struct. Fields
// are matched with the `arg` tag; string values are weakly converted to the
// field types, since literals arrive as text.
func DecodeArg(args []any, index int, out any) error {
	if index >= len(args) || args[index] == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "arg",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args[index]); err != nil {
		return fmt.Errorf("decoding argument %d: %w", index, err)
	}
	return nil
}
