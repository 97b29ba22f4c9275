package construct_test

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/gridwire/internal/construct"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/nodeid"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/testutil"
	"github.com/specialistvlad/gridwire/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/"

func testCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

// canonicalConfig creates a config already in canonical shape.
func canonicalConfig(s *graph.Store, name, module string, args ...*graph.Resource) *graph.Resource {
	config := s.Named(ex + name)
	config.SetProperty(vocab.Module, s.Literal(module))
	config.SetProperty(vocab.Arguments, s.NewList(args...))
	return config
}

func field(s *graph.Store, key string, values ...*graph.Resource) *graph.Resource {
	f := s.NewBlank()
	f.SetProperty(vocab.Key, s.Literal(key))
	f.SetProperty(vocab.Value, values...)
	return f
}

func hash(s *graph.Store, fields ...*graph.Resource) *graph.Resource {
	h := s.NewBlank()
	h.SetProperty(vocab.Fields, s.NewList(fields...))
	return h
}

func newPool(strategy construct.Strategy) *construct.Pool {
	return construct.NewPool(strategy, nil)
}

func TestPool_RoundTrip(t *testing.T) {
	s := graph.NewStore()
	config := canonicalConfig(s, "lexer", "n3", hash(s, field(s, "comments", s.Literal("true"))))
	config.SetProperty(vocab.Member, s.Literal("Lexer"))
	strategy := testutil.NewRecordingStrategy()

	instance, err := newPool(strategy).Instantiate(testCtx(), config, construct.Settings{})

	require.NoError(t, err)
	expected := &testutil.InstanceCall{
		RequireName:     "n3",
		RequireElement:  "Lexer",
		CallConstructor: true,
		InstanceID:      ex + "lexer",
		Args: []any{
			map[string]any{"entries": []any{
				map[string]any{"key": "comments", "value": "true"},
			}},
		},
	}
	if diff := cmp.Diff(expected, instance); diff != "" {
		t.Errorf("instance mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, strategy.Calls(), 1)
}

func TestPool_Memoization(t *testing.T) {
	s := graph.NewStore()
	config := canonicalConfig(s, "shared", "m")
	strategy := testutil.NewRecordingStrategy()
	strategy.Delay = 20 * time.Millisecond
	pool := newPool(strategy)

	const workers = 16
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instance, err := pool.Instantiate(testCtx(), config, construct.Settings{})
			assert.NoError(t, err)
			results[i] = instance
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, 1, strategy.CallsFor(ex+"shared"))

	again, err := pool.Instantiate(testCtx(), config, construct.Settings{})
	require.NoError(t, err)
	assert.Same(t, results[0], again)
	assert.Equal(t, 1, strategy.CallsFor(ex+"shared"))
}

func TestPool_SharedDependencyIsBuiltOnce(t *testing.T) {
	s := graph.NewStore()
	dep := canonicalConfig(s, "dep", "m")
	a := canonicalConfig(s, "a", "m", dep)
	b := canonicalConfig(s, "b", "m", dep)
	root := canonicalConfig(s, "root", "m", s.NewList(a, b, dep))
	strategy := testutil.NewRecordingStrategy()
	strategy.Delay = 5 * time.Millisecond

	_, err := newPool(strategy).Instantiate(testCtx(), root, construct.Settings{})

	require.NoError(t, err)
	assert.Equal(t, 1, strategy.CallsFor(ex+"dep"))
	assert.Len(t, strategy.Calls(), 4)
}

func TestPool_SelfCycleResolvesToUndefined(t *testing.T) {
	s := graph.NewStore()
	config := s.Named(ex + "self")
	config.SetProperty(vocab.Module, s.Literal("m"))
	config.SetProperty(vocab.Arguments, s.NewList(hash(s, field(s, "me", config))))
	strategy := testutil.NewRecordingStrategy()

	instance, err := newPool(strategy).Instantiate(testCtx(), config, construct.Settings{})

	require.NoError(t, err)
	call := instance.(*testutil.InstanceCall)
	assert.Equal(t, []any{
		map[string]any{"entries": []any{
			map[string]any{"key": "me", "value": testutil.Undefined{}},
		}},
	}, call.Args)
}

func TestPool_CycleAcrossConcurrentBranches(t *testing.T) {
	s := graph.NewStore()
	y := s.Named(ex + "y")
	z := s.Named(ex + "z")
	y.SetProperty(vocab.Module, s.Literal("m"))
	y.SetProperty(vocab.Arguments, s.NewList(z))
	z.SetProperty(vocab.Module, s.Literal("m"))
	z.SetProperty(vocab.Arguments, s.NewList(y))
	root := canonicalConfig(s, "root", "m", s.NewList(y, z))
	strategy := testutil.NewRecordingStrategy()
	strategy.Delay = 5 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		_, err := newPool(strategy).Instantiate(testCtx(), root, construct.Settings{})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("instantiation did not complete")
	}
	assert.Equal(t, 1, strategy.CallsFor(ex+"y"))
	assert.Equal(t, 1, strategy.CallsFor(ex+"z"))
}

// ring links configs into one cycle: head -> chain... -> next.
func ring(s *graph.Store, head, next *graph.Resource, prefix string, length int) {
	previous := head
	for i := 0; i < length; i++ {
		link := s.Named(fmt.Sprintf("%s%s%d", ex, prefix, i))
		link.SetProperty(vocab.Module, s.Literal("m"))
		previous.SetProperty(vocab.Arguments, s.NewList(link))
		previous = link
	}
	previous.SetProperty(vocab.Arguments, s.NewList(next))
}

func TestPool_LongCycleAcrossConcurrentBranches(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(8))

	for run := 0; run < 50; run++ {
		s := graph.NewStore()
		x := s.Named(ex + "x")
		y := s.Named(ex + "y")
		x.SetProperty(vocab.Module, s.Literal("m"))
		y.SetProperty(vocab.Module, s.Literal("m"))
		ring(s, x, y, "z", 100)
		ring(s, y, x, "w", 100)
		root := canonicalConfig(s, "root", "m", s.NewList(x, y))
		strategy := testutil.NewRecordingStrategy()

		done := make(chan error, 1)
		go func() {
			_, err := newPool(strategy).Instantiate(testCtx(), root, construct.Settings{})
			done <- err
		}()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatalf("run %d: instantiation did not complete", run)
		}
		assert.Equal(t, 1, strategy.CallsFor(ex+"x"))
		assert.Equal(t, 1, strategy.CallsFor(ex+"y"))
		assert.Equal(t, 1, strategy.CallsFor(ex+"z99"))
		assert.Equal(t, 1, strategy.CallsFor(ex+"w99"))
	}
}

func TestPool_Variables(t *testing.T) {
	s := graph.NewStore()
	variable := s.Named(ex + "port")
	variable.SetProperty(vocab.Type, s.Named(vocab.Variable))
	config := canonicalConfig(s, "server", "m", variable)
	strategy := testutil.NewRecordingStrategy()

	t.Run("defined", func(t *testing.T) {
		instance, err := newPool(strategy).Instantiate(testCtx(), config, construct.Settings{
			Variables: map[string]any{ex + "port": 8080},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{8080}, instance.(*testutil.InstanceCall).Args)
	})

	t.Run("undefined", func(t *testing.T) {
		_, err := newPool(strategy).Instantiate(testCtx(), config, construct.Settings{})
		require.Error(t, err)
		assert.ErrorIs(t, err, construct.ErrUndefinedVariable)
	})
}

func TestPool_Shallow(t *testing.T) {
	s := graph.NewStore()
	dep := canonicalConfig(s, "dep", "m")
	config := canonicalConfig(s, "config", "m", dep)
	strategy := testutil.NewRecordingStrategy()

	instance, err := newPool(strategy).Instantiate(testCtx(), config, construct.Settings{Shallow: true})

	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"entries": []any{}}}, instance.(*testutil.InstanceCall).Args)
	assert.Zero(t, strategy.CallsFor(ex+"dep"))
}

func TestPool_LazyReference(t *testing.T) {
	s := graph.NewStore()
	dep := canonicalConfig(s, "dep", "m")
	config := canonicalConfig(s, "config", "m", dep.WithLazy(), s.Literal("text").WithLazy())
	strategy := testutil.NewRecordingStrategy()

	instance, err := newPool(strategy).Instantiate(testCtx(), config, construct.Settings{})
	require.NoError(t, err)
	assert.Zero(t, strategy.CallsFor(ex+"dep"), "lazy references are not built eagerly")

	args := instance.(*testutil.InstanceCall).Args
	require.Len(t, args, 2)
	lazyDep, ok := args[0].(testutil.Lazy)
	require.True(t, ok)
	built, err := lazyDep.Supplier(testCtx())
	require.NoError(t, err)
	assert.Equal(t, ex+"dep", built.(*testutil.InstanceCall).InstanceID)

	lazyText, ok := args[1].(testutil.Lazy)
	require.True(t, ok)
	text, err := lazyText.Supplier(testCtx())
	require.NoError(t, err)
	assert.Equal(t, "text", text)
}

func TestPool_RawValue(t *testing.T) {
	s := graph.NewStore()
	raw := map[string]int{"a": 1}
	config := canonicalConfig(s, "config", "m", s.Literal("ignored").WithRaw(raw))

	instance, err := newPool(testutil.NewRecordingStrategy()).Instantiate(testCtx(), config, construct.Settings{})

	require.NoError(t, err)
	assert.Equal(t, []any{raw}, instance.(*testutil.InstanceCall).Args)
}

func TestPool_NoConstructor(t *testing.T) {
	s := graph.NewStore()
	flagged := canonicalConfig(s, "flagged", "m")
	flagged.SetProperty(vocab.NoConstructor, s.True())
	typed := canonicalConfig(s, "typed", "m")
	typed.SetProperty(vocab.Type, s.Named(vocab.Instance))
	pool := newPool(testutil.NewRecordingStrategy())

	for _, config := range []*graph.Resource{flagged, typed} {
		instance, err := pool.Instantiate(testCtx(), config, construct.Settings{})
		require.NoError(t, err)
		assert.False(t, instance.(*testutil.InstanceCall).CallConstructor, config.Key())
	}
}

func TestPool_ErrorsAreCached(t *testing.T) {
	s := graph.NewStore()
	config := s.Named(ex + "broken")
	strategy := testutil.NewRecordingStrategy()
	pool := newPool(strategy)

	_, first := pool.Instantiate(testCtx(), config, construct.Settings{})
	require.Error(t, first)
	assert.Contains(t, first.Error(), "exactly 1 is required")

	// Fixing the graph does not matter until the pool is reset.
	config.SetProperty(vocab.Module, s.Literal("m"))
	_, second := pool.Instantiate(testCtx(), config, construct.Settings{})
	assert.Equal(t, first, second)

	pool.Reset()
	_, err := pool.Instantiate(testCtx(), config, construct.Settings{})
	require.NoError(t, err)
}

func TestPool_Reset(t *testing.T) {
	s := graph.NewStore()
	config := canonicalConfig(s, "config", "m")
	strategy := testutil.NewRecordingStrategy()
	pool := newPool(strategy)

	_, err := pool.Instantiate(testCtx(), config, construct.Settings{})
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Cached())

	pool.Reset()
	assert.Zero(t, pool.Cached())

	_, err = pool.Instantiate(testCtx(), config, construct.Settings{})
	require.NoError(t, err)
	assert.Equal(t, 2, strategy.CallsFor(ex+"config"))
}

func TestPool_Validation(t *testing.T) {
	testCases := []struct {
		name     string
		setup    func(s *graph.Store, config *graph.Resource)
		expected string
	}{
		{
			name: "module is not a literal",
			setup: func(s *graph.Store, config *graph.Resource) {
				config.SetProperty(vocab.Module, s.Named(ex+"module"))
			},
			expected: "Invalid module name",
		},
		{
			name: "member is not a literal",
			setup: func(s *graph.Store, config *graph.Resource) {
				config.SetProperty(vocab.Module, s.Literal("m"))
				config.SetProperty(vocab.Member, s.NewBlank())
			},
			expected: "must be a single literal",
		},
		{
			name: "arguments are not a list",
			setup: func(s *graph.Store, config *graph.Resource) {
				config.SetProperty(vocab.Module, s.Literal("m"))
				config.SetProperty(vocab.Arguments, s.Literal("x"))
			},
			expected: "Detected non-list as value for arguments",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := graph.NewStore()
			config := s.Named(ex + "config")
			tc.setup(s, config)

			_, err := newPool(testutil.NewRecordingStrategy()).Instantiate(testCtx(), config, construct.Settings{})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expected)
			var ctxErr *graph.ContextError
			assert.True(t, errors.As(err, &ctxErr))
		})
	}
}

func TestPool_DefaultPipeline(t *testing.T) {
	s := graph.NewStore()
	component := s.Named(ex + "Lexer")
	component.SetProperty(vocab.Type, s.Named(vocab.Component))
	component.SetProperty(vocab.Module, s.Literal("n3"))
	component.SetProperty(vocab.Member, s.Literal("Lexer"))
	component.SetProperty(vocab.Parameters, s.Named(ex+"comments"))
	config := s.Named(ex + "lexer")
	config.SetProperty(vocab.Type, component)
	config.SetProperty(ex+"comments", s.Literal("true"))

	catalog := registry.New()
	require.NoError(t, catalog.PopulateFromStore(testCtx(), s))
	require.NoError(t, catalog.Finalize(testCtx()))
	strategy := testutil.NewRecordingStrategy()
	pool := construct.NewPool(strategy, construct.DefaultPreprocessors(s, catalog, nil))

	instance, err := pool.Instantiate(testCtx(), config, construct.Settings{})

	require.NoError(t, err)
	expected := &testutil.InstanceCall{
		RequireName:     "n3",
		RequireElement:  "Lexer",
		CallConstructor: true,
		InstanceID:      ex + "lexer",
		Args: []any{
			map[string]any{"entries": []any{
				map[string]any{"key": ex + "comments", "value": "true"},
			}},
		},
	}
	if diff := cmp.Diff(expected, instance); diff != "" {
		t.Errorf("instance mismatch (-want +got):\n%s", diff)
	}
}

func TestConstructor_UnsupportedArgument(t *testing.T) {
	s := graph.NewStore()
	odd := s.Resource(nodeid.ID{Kind: nodeid.Kind(42), Value: "odd"})

	_, err := newPool(testutil.NewRecordingStrategy()).Constructor().GetArgumentValue(testCtx(), odd, construct.Settings{})

	require.Error(t, err)
	assert.ErrorIs(t, err, construct.ErrUnsupportedArgument)
}

func TestConstructor_GetArgumentValues(t *testing.T) {
	s := graph.NewStore()
	c := newPool(testutil.NewRecordingStrategy()).Constructor()

	t.Run("no values are undefined", func(t *testing.T) {
		v, err := c.GetArgumentValues(testCtx(), nil, construct.Settings{})
		require.NoError(t, err)
		assert.Equal(t, testutil.Undefined{}, v)
	})

	t.Run("lists are concatenated", func(t *testing.T) {
		v, err := c.GetArgumentValues(testCtx(), []*graph.Resource{
			s.NewList(s.Literal("a"), s.Literal("b")),
			s.NewList(s.Literal("c")),
		}, construct.Settings{})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b", "c"}, v)
	})

	t.Run("multiple non-list values are rejected", func(t *testing.T) {
		_, err := c.GetArgumentValues(testCtx(), []*graph.Resource{s.Literal("a"), s.Literal("b")}, construct.Settings{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RDF lists should be used")
	})
}

func TestConstructor_Shapes(t *testing.T) {
	s := graph.NewStore()
	c := newPool(testutil.NewRecordingStrategy()).Constructor()

	element := s.NewBlank()
	element.SetProperty(vocab.Value, s.Literal("e"))
	array := s.NewBlank()
	array.SetProperty(vocab.Elements, s.NewList(element))

	emptyHash := s.NewBlank()
	emptyHash.SetProperty(vocab.HasFields, s.True())

	gap := s.NewBlank()
	gap.SetProperty(vocab.Key, s.Literal("gap"))

	undefined := s.NewBlank()
	undefined.SetProperty(vocab.Type, s.Named(vocab.Undefined))

	wrapped := s.NewBlank()
	wrapped.SetProperty(vocab.Value, s.Literal("inner"))

	testCases := []struct {
		name     string
		value    *graph.Resource
		expected any
	}{
		{name: "array", value: array, expected: []any{"e"}},
		{name: "fields flag", value: emptyHash, expected: map[string]any{"entries": []any{}}},
		{name: "gap", value: hash(s, gap, field(s, "k", s.Literal("v"))), expected: map[string]any{"entries": []any{
			map[string]any{"key": "k", "value": "v"},
		}}},
		{name: "undefined", value: undefined, expected: testutil.Undefined{}},
		{name: "list", value: s.NewList(s.Literal("x"), s.Literal("y")), expected: []any{"x", "y"}},
		{name: "value property", value: wrapped, expected: "inner"},
		{name: "literal", value: s.Literal("plain"), expected: "plain"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := c.GetArgumentValue(testCtx(), tc.value, construct.Settings{})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestConstructor_ShapeErrors(t *testing.T) {
	s := graph.NewStore()
	c := newPool(testutil.NewRecordingStrategy()).Constructor()

	nonLiteralKey := s.NewBlank()
	nonLiteralKey.SetProperty(vocab.Key, s.Named(ex+"key"))
	nonLiteralKey.SetProperty(vocab.Value, s.Literal("v"))

	twoKeys := s.NewBlank()
	twoKeys.SetProperty(vocab.Key, s.Literal("a"), s.Literal("b"))

	emptyElement := s.NewBlank()
	array := s.NewBlank()
	array.SetProperty(vocab.Elements, s.NewList(emptyElement))

	testCases := []struct {
		name     string
		value    *graph.Resource
		expected string
	}{
		{name: "non-literal key", value: hash(s, nonLiteralKey), expected: "non-literal key"},
		{name: "multiple keys", value: hash(s, twoKeys), expected: "Detected 2 keys"},
		{name: "element without value", value: array, expected: "array element without value"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.GetArgumentValue(testCtx(), tc.value, construct.Settings{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expected)
		})
	}
}
