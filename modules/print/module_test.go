package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/gridwire/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrinter(t *testing.T) {
	t.Parallel()

	instance, err := NewPrinter(context.Background(), []any{
		map[string]any{
			"prefix": "> ",
			"value":  map[string]any{"b": "2", "a": 1},
		},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = instance.(*Printer).WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, "> a = \"1\"\n> b = \"2\"\n", out.String())
}

func TestNewPrinter_NoArguments(t *testing.T) {
	t.Parallel()

	instance, err := NewPrinter(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "(null)", instance.(*Printer).String())
}

func TestNewPrinter_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := NewPrinter(context.Background(), []any{map[string]any{"colour": "red"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding argument 0")
}

func TestModule_Register(t *testing.T) {
	t.Parallel()

	h := handlers.New(context.Background(), &Module{})
	registered, ok := h.Lookup(ModuleName, "Printer")
	require.True(t, ok)
	assert.NotNil(t, registered.New)
}
