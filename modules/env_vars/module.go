package env_vars

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/gridwire/internal/handlers"
)

// ModuleName is the module name configs use to require this package.
const ModuleName = "env_vars"

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the constructor argument of an Environment.
type Input struct {
	Include     []string          `arg:"include"`
	Required    []string          `arg:"required"`
	Defaults    map[string]string `arg:"defaults"`
	Prefix      string            `arg:"prefix"`
	StripPrefix bool              `arg:"strip_prefix"`
}

// Environment is a snapshot of selected environment variables.
type Environment struct {
	Vars map[string]string
}

// Get returns the value of a variable in the snapshot.
func (e *Environment) Get(key string) string {
	return e.Vars[key]
}

// NewEnvironment is the factory of the 'Environment' member.
func NewEnvironment(_ context.Context, args []any) (any, error) {
	var input Input
	if err := handlers.DecodeArg(args, 0, &input); err != nil {
		return nil, err
	}
	return snapshot(&input)
}

func snapshot(input *Input) (*Environment, error) {
	candidateKeys := make(map[string]struct{})

	// Explicitly mentioned keys are always considered.
	for _, key := range input.Include {
		candidateKeys[key] = struct{}{}
	}
	for key := range input.Defaults {
		candidateKeys[key] = struct{}{}
	}
	for _, key := range input.Required {
		candidateKeys[key] = struct{}{}
	}

	if len(candidateKeys) == 0 {
		for _, e := range os.Environ() {
			if strings.HasPrefix(e, input.Prefix) {
				key := strings.SplitN(e, "=", 2)[0]
				candidateKeys[key] = struct{}{}
			}
		}
	}

	results := make(map[string]string)
	for key := range candidateKeys {
		value, found := os.LookupEnv(key)
		if !found {
			value, found = input.Defaults[key]
		}
		if !found {
			continue
		}
		resultKey := key
		if input.StripPrefix && input.Prefix != "" {
			resultKey = strings.TrimPrefix(key, input.Prefix)
		}
		results[resultKey] = value
	}

	for _, reqKey := range input.Required {
		_, inEnv := os.LookupEnv(reqKey)
		_, inDefaults := input.Defaults[reqKey]
		if !inEnv && !inDefaults {
			return nil, fmt.Errorf("required environment variable '%s' is not set and has no default", reqKey)
		}
	}

	return &Environment{Vars: results}, nil
}

// Register registers the handlers with the engine. 'Getenv' is exported
// as-is, for configs that only need the lookup function.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(handlers.Name(ModuleName, "Environment"), &handlers.Registered{
		New: NewEnvironment,
	})
	h.Register(handlers.Name(ModuleName, "Getenv"), &handlers.Registered{
		Export: os.Getenv,
	})
}
