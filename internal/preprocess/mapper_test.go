package preprocess

import (
	"testing"

	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) field(key string, value *graph.Resource) *graph.Resource {
	f := e.store.NewBlank()
	f.SetProperty(vocab.KeyRaw, e.store.Literal(key))
	if value != nil {
		f.SetProperty(vocab.Value, value)
	}
	return f
}

func (e *env) fieldsTemplate(fields ...*graph.Resource) *graph.Resource {
	t := e.store.NewBlank()
	t.SetProperty(vocab.Fields, e.store.NewList(fields...))
	return t
}

func TestMappedNormalizer_OnlyClaimsTemplates(t *testing.T) {
	e := newEnv()
	component := e.defineComponent(t, "Plain", "m")

	_, handled, err := e.mapped.Preprocess(testCtx(), e.newConfig("c", component))

	require.NoError(t, err)
	assert.False(t, handled)
}

func TestMappedNormalizer_Transform(t *testing.T) {
	e := newEnv()
	component := e.defineComponent(t, "Server", "http", "host", "port", "tags", "missing")

	element := e.store.NewBlank()
	element.SetProperty(vocab.Value, e.store.Named(ex+"tags"))
	elements := e.store.NewBlank()
	elements.SetProperty(vocab.Elements, e.store.NewList(element))

	component.SetProperty(vocab.ConstructorArguments, e.store.NewList(
		e.fieldsTemplate(
			e.field("host", e.store.Named(ex+"host")),
			e.field("port", e.store.Named(ex+"port")),
			e.field("constant", e.store.Literal("c")),
		),
		elements,
		e.store.Named(ex+"missing"),
	))

	config := e.newConfig("server", component)
	config.SetProperty(ex+"host", e.store.Literal("localhost"))
	config.SetProperty(ex+"port", e.store.Literal("8080"))
	config.SetProperty(ex+"tags", e.store.Literal("a"))

	res, handled, err := e.mapped.Preprocess(testCtx(), config)
	require.NoError(t, err)
	require.True(t, handled)

	args := arguments(t, res.Config)
	require.Len(t, args, 3)

	assert.Equal(t, map[string][]string{
		"host":     {"localhost"},
		"port":     {"8080"},
		"constant": {"c"},
	}, hashEntries(t, args[0]))

	members, ok := args[1].Property(vocab.Elements).List()
	require.True(t, ok)
	require.Len(t, members, 1)
	assert.Equal(t, "a", members[0].Property(vocab.Value).Value())

	assert.True(t, args[2].IsA(vocab.Undefined))
}

func TestMapper_KeyFromParameterIsRaw(t *testing.T) {
	e := newEnv()
	component := e.defineComponent(t, "C", "m", "p")
	f := e.store.NewBlank()
	f.SetProperty(vocab.Key, e.store.Named(ex+"p"))
	f.SetProperty(vocab.ValueRawReference, e.store.Named(ex+"p"))
	template := e.fieldsTemplate(f)
	config := e.newConfig("c", component)
	config.SetProperty(ex+"p", e.store.Literal("value"))

	out, err := NewMapper(e.store, nil).ParameterValue(testCtx(), component, template, config, false)

	require.NoError(t, err)
	assert.Equal(t, map[string][]string{ex + "p": {ex + "p"}}, hashEntries(t, out))
}

func TestMapper_CollectEntries(t *testing.T) {
	e := newEnv()
	component := e.defineComponent(t, "Router", "m", "routes")
	e.defineComponent(t, "Route", "m", "path", "handler")

	collect := e.store.NewBlank()
	collect.SetProperty(vocab.CollectEntries, e.store.Named(ex+"routes"))
	collect.SetProperty(vocab.Key, e.store.Named(ex+"path"))
	collect.SetProperty(vocab.Value, e.store.Named(ex+"handler"))
	component.SetProperty(vocab.ConstructorArguments, e.store.NewList(e.fieldsTemplate(collect)))

	route := func(path, handler string) *graph.Resource {
		r := e.store.NewBlank()
		r.SetProperty(ex+"path", e.store.Literal(path))
		r.SetProperty(ex+"handler", e.store.Named(ex+handler))
		return r
	}
	config := e.newConfig("router", component)
	config.SetProperty(ex+"routes", e.store.NewList(route("/a", "A"), route("/b", "B")))

	res, _, err := e.mapped.Preprocess(testCtx(), config)
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"/a": {ex + "A"},
		"/b": {ex + "B"},
	}, hashEntries(t, arguments(t, res.Config)[0]))
}

func TestMapper_CollectEntriesWithoutKeyOrValue(t *testing.T) {
	e := newEnv()
	component := e.defineComponent(t, "Set", "m", "members")
	collect := e.store.NewBlank()
	collect.SetProperty(vocab.CollectEntries, e.store.Named(ex+"members"))
	template := e.fieldsTemplate(collect)

	config := e.newConfig("set", component)
	config.SetProperty(ex+"members", e.store.NewList(e.store.Named(ex+"x")))

	out, err := e.mapped.mapper.ParameterValue(testCtx(), component, template, config, false)

	require.NoError(t, err)
	assert.Equal(t, map[string][]string{ex + "x": {ex + "x"}}, hashEntries(t, out))
}

func TestMapper_ListSplicesMultiValuedParameters(t *testing.T) {
	e := newEnv()
	component := e.defineComponent(t, "C", "m", "items")
	template := e.store.NewList(e.store.Literal("first"), e.store.Named(ex+"items"))
	config := e.newConfig("c", component)
	config.SetProperty(ex+"items", e.store.NewList(e.store.Literal("a"), e.store.Literal("b")))

	out, err := e.mapped.mapper.ParameterValue(testCtx(), component, template, config, false)

	require.NoError(t, err)
	members, ok := out.List()
	require.True(t, ok)
	var got []string
	for _, m := range members {
		got = append(got, m.Value())
	}
	assert.Equal(t, []string{"first", "a", "b"}, got)
}

func TestMapper_MultiValuedParameter(t *testing.T) {
	listValues := func(t *testing.T, r *graph.Resource) []string {
		t.Helper()
		members, ok := r.List()
		require.True(t, ok, "expected a list argument")
		var got []string
		for _, m := range members {
			got = append(got, m.Value())
		}
		return got
	}

	t.Run("wraps several values in one list", func(t *testing.T) {
		e := newEnv()
		component := e.defineComponent(t, "C", "m", "tags")
		e.store.Named(ex+"tags").SetProperty(vocab.Fixed, e.store.Literal("f1"), e.store.Literal("f2"))
		config := e.newConfig("c", component)
		config.SetProperty(ex+"tags", e.store.Literal("own"))

		out, err := e.mapped.mapper.ParameterValue(testCtx(), component, e.store.Named(ex+"tags"), config, false)

		require.NoError(t, err)
		assert.Equal(t, []string{"f1", "f2", "own"}, listValues(t, out))
	})

	t.Run("unique keeps the first value unwrapped", func(t *testing.T) {
		e := newEnv()
		component := e.defineComponent(t, "C", "m", "tags")
		tags := e.store.Named(ex + "tags")
		tags.SetProperty(vocab.Fixed, e.store.Literal("f1"), e.store.Literal("f2"))
		tags.SetProperty(vocab.Unique, e.store.True())
		config := e.newConfig("c", component)

		out, err := e.mapped.mapper.ParameterValue(testCtx(), component, tags, config, false)

		require.NoError(t, err)
		require.NotNil(t, out)
		_, isList := out.List()
		assert.False(t, isList)
		assert.Equal(t, "f1", out.Value())
		assert.True(t, out.Unique())
	})
}

func TestMapper_NonListTemplate(t *testing.T) {
	e := newEnv()
	component := e.defineComponent(t, "C", "m")
	component.SetProperty(vocab.ConstructorArguments, e.store.NewBlank())

	_, _, err := e.mapped.Preprocess(testCtx(), e.newConfig("c", component))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Detected non-list")
}
