package native_test

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/gridwire/internal/construct"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/handlers"
	"github.com/specialistvlad/gridwire/internal/native"
	"github.com/specialistvlad/gridwire/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/"

type server struct {
	options map[string]any
	deps    []any
}

type moduleFunc func(h *handlers.Handlers)

func (f moduleFunc) Register(h *handlers.Handlers) { f(h) }

func newHandlers() *handlers.Handlers {
	return handlers.New(context.Background(), moduleFunc(func(h *handlers.Handlers) {
		h.Register(handlers.Name("net", "Server"), &handlers.Registered{
			New: func(_ context.Context, args []any) (any, error) {
				s := &server{}
				if len(args) > 0 {
					s.options, _ = args[0].(map[string]any)
				}
				if len(args) > 1 {
					s.deps, _ = args[1].([]any)
				}
				return s, nil
			},
		})
		h.Register(handlers.Name("net", "DefaultPort"), &handlers.Registered{Export: 80})
		h.Register(handlers.Name("net", "Broken"), &handlers.Registered{
			New: func(context.Context, []any) (any, error) { return nil, errors.New("boom") },
		})
	}))
}

func config(s *graph.Store, name, member string, args ...*graph.Resource) *graph.Resource {
	c := s.Named(ex + name)
	c.SetProperty(vocab.Module, s.Literal("net"))
	c.SetProperty(vocab.Member, s.Literal(member))
	c.SetProperty(vocab.Arguments, s.NewList(args...))
	return c
}

func entry(s *graph.Store, key string, value *graph.Resource) *graph.Resource {
	e := s.NewBlank()
	e.SetProperty(vocab.Key, s.Literal(key))
	if value != nil {
		e.SetProperty(vocab.Value, value)
	}
	return e
}

func TestStrategy_BuildsLiveValues(t *testing.T) {
	t.Parallel()
	ctx := ctxlog.Discard(context.Background())

	s := graph.NewStore()
	port := s.Named(ex + "port")
	port.SetProperty(vocab.Type, s.Named(vocab.Variable))
	defaultPort := config(s, "defaultPort", "DefaultPort")
	defaultPort.SetProperty(vocab.NoConstructor, s.True())
	dep := config(s, "dep", "Server")

	options := s.NewBlank()
	options.SetProperty(vocab.Fields, s.NewList(
		entry(s, "port", port),
		entry(s, "fallback", defaultPort),
		entry(s, "gap", nil),
		entry(s, "lazy", dep.WithLazy()),
	))
	root := config(s, "root", "Server", options, s.NewList(dep, s.Literal("x")))

	pool := construct.NewPool(native.New(newHandlers()), nil)
	instance, err := pool.Instantiate(ctx, root, construct.Settings{
		Variables: map[string]any{ex + "port": 8080},
	})
	require.NoError(t, err)

	srv := instance.(*server)
	assert.Equal(t, 8080, srv.options["port"])
	assert.Equal(t, 80, srv.options["fallback"])
	assert.NotContains(t, srv.options, "gap")

	supplier, ok := srv.options["lazy"].(native.Supplier)
	require.True(t, ok)
	lazyDep, err := supplier(ctx)
	require.NoError(t, err)

	require.Len(t, srv.deps, 2)
	assert.Same(t, srv.deps[0], lazyDep, "lazy and eager references share the instance")
	assert.Equal(t, "x", srv.deps[1])
}

func TestStrategy_UndefinedIsNil(t *testing.T) {
	t.Parallel()

	s := native.New(handlers.New(context.Background()))
	assert.Nil(t, s.CreateUndefined(context.Background()))
}

func TestStrategy_Errors(t *testing.T) {
	t.Parallel()
	ctx := ctxlog.Discard(context.Background())
	s := native.New(newHandlers())

	testCases := []struct {
		name     string
		opts     construct.InstanceOptions
		expected string
	}{
		{
			name:     "unregistered",
			opts:     construct.InstanceOptions{RequireName: "net", RequireElement: "Client", CallConstructor: true, InstanceID: "c"},
			expected: "no component registered as 'net#Client' for c",
		},
		{
			name:     "export only",
			opts:     construct.InstanceOptions{RequireName: "net", RequireElement: "DefaultPort", CallConstructor: true, InstanceID: "p"},
			expected: "component 'net#DefaultPort' cannot be constructed for p",
		},
		{
			name:     "factory failure",
			opts:     construct.InstanceOptions{RequireName: "net", RequireElement: "Broken", CallConstructor: true, InstanceID: "b"},
			expected: "failed to construct b: boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateInstance(ctx, tc.opts)
			require.Error(t, err)
			assert.EqualError(t, err, tc.expected)
		})
	}
}

func TestStrategy_UndefinedVariable(t *testing.T) {
	t.Parallel()

	_, err := native.New(handlers.New(context.Background())).GetVariableValue(context.Background(), construct.VariableOptions{VariableName: "v"})
	assert.ErrorIs(t, err, construct.ErrUndefinedVariable)
}
