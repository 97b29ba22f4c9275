package integration_tests

import (
	"context"
	"testing"

	"github.com/specialistvlad/gridwire/internal/construct"
	"github.com/specialistvlad/gridwire/internal/handlers"
	"github.com/specialistvlad/gridwire/internal/testutil"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/"

// captured is built by the 'capture#Capture' component: it keeps the
// constructor arguments it was called with.
type captured struct {
	Args []any
}

type captureModule struct{}

func (captureModule) Register(h *handlers.Handlers) {
	h.Register(handlers.Name("capture", "Capture"), &handlers.Registered{
		New: func(_ context.Context, args []any) (any, error) {
			return &captured{Args: args}, nil
		},
	})
}

// instanceOf returns the cached instance of a config after a run.
func instanceOf(t *testing.T, result *testutil.HarnessResult, iri string) any {
	t.Helper()
	require.NotNil(t, result.App, "app failed to start: %v", result.Err)

	r, err := result.App.Document().Resolve(iri)
	require.NoError(t, err)
	instance, err := result.App.Pool().Instantiate(context.Background(), r, construct.Settings{})
	require.NoError(t, err)
	return instance
}

// fieldsOf returns the single hash argument a component config is built with.
func fieldsOf(t *testing.T, instance any) map[string]any {
	t.Helper()
	c, ok := instance.(*captured)
	require.True(t, ok, "unexpected instance %T", instance)
	require.Len(t, c.Args, 1)
	fields, ok := c.Args[0].(map[string]any)
	require.True(t, ok, "unexpected argument %T", c.Args[0])
	return fields
}
