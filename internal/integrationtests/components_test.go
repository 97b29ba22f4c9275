package integration_tests

import (
	"testing"

	"github.com/specialistvlad/gridwire/internal/app"
	"github.com/specialistvlad/gridwire/internal/native"
	"github.com/specialistvlad/gridwire/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseComponents = `
prefixes = { ex = "http://example.org/" }

component "ex:Base" {
  module = "capture"
  member = "Capture"

  parameter "ex:name" {
    default = "anonymous"
  }
  parameter "ex:mode" {
    fixed  = "strict"
    unique = true
  }
}

component "ex:Child" {
  extends = ["ex:Base"]
  module  = "capture"
  member  = "Capture"

  parameter "ex:level" {
    range = "number"
  }
}
`

func TestComponents_InheritedParameters(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"components.hcl": baseComponents,
		"main.hcl": `
config "ex:child" {
  type   = "ex:Child"
  params = {
    "ex:mode"  = "loose"
    "ex:level" = 3
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{}, captureModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertInstanceCreated(t, result, ex+"child")
	assert.Equal(t, map[string]any{
		ex + "name":  "anonymous",
		ex + "mode":  "strict",
		ex + "level": "3",
	}, fieldsOf(t, instanceOf(t, result, "ex:child")))
}

func TestComponents_MappedConstructorArguments(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
prefixes = { ex = "http://example.org/" }

component "ex:Server" {
  module = "capture"
  member = "Capture"

  parameter "ex:Server#port" {
    default = 80
  }
  parameter "ex:Server#handlers" {
    lazy = true
  }

  constructor_arguments = [
    ref("ex:Server#port"),
    {
      elements = [
        { value = ref("ex:Server#handlers") },
        { value = "static" },
      ]
    },
  ]
}

config "ex:handler" {
  module = "capture"
  member = "Capture"
}

config "ex:server" {
  type   = "ex:Server"
  params = {
    "ex:Server#handlers" = ref("ex:handler")
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{Instances: []string{"ex:server"}}, captureModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	server := instanceOf(t, result, "ex:server").(*captured)
	require.Len(t, server.Args, 2)
	assert.Equal(t, "80", server.Args[0])

	elements, ok := server.Args[1].([]any)
	require.True(t, ok)
	require.Len(t, elements, 2)
	assert.Equal(t, "static", elements[1])

	supplier, ok := elements[0].(native.Supplier)
	require.True(t, ok, "lazy parameters become suppliers, got %T", elements[0])
	handler, err := supplier(t.Context())
	require.NoError(t, err)
	assert.Same(t, instanceOf(t, result, "ex:handler"), handler)
}

func TestComponents_Overrides(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"components.hcl": baseComponents + `
component "ex:Listy" {
  module = "capture"
  member = "Capture"
  parameter "ex:items" {}
}
`,
		"main.hcl": `
config "ex:a" {
  type   = "ex:Base"
  params = { "ex:name" = "original" }
}

override "ex:first" {
  target     = "ex:a"
  parameters = { "ex:name" = "patched" }
}

override "ex:second" {
  target     = "ex:first"
  parameters = { "ex:name" = "patched twice" }
}

config "ex:list" {
  type   = "ex:Listy"
  params = { "ex:items" = ["a", "c"] }
}

override "ex:listEdit" {
  target = "ex:list"
  step "insert_after" {
    parameter = "ex:items"
    target    = "a"
    values    = ["b"]
  }
  step "insert_at" {
    parameter = "ex:items"
    target    = "-0"
    values    = ["d"]
  }
  step "remove" {
    parameter = "ex:items"
    target    = "c"
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{}, captureModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, "patched twice", fieldsOf(t, instanceOf(t, result, "ex:a"))[ex+"name"])
	assert.Equal(t, []any{"a", "b", "d"}, fieldsOf(t, instanceOf(t, result, "ex:list"))[ex+"items"])
}

func TestComponents_Plan(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"components.hcl": baseComponents,
		"main.hcl": `
config "ex:child" {
  type   = "ex:Child"
  params = { "ex:level" = 1 }
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{Strategy: app.StrategyPlan}, captureModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, `instance "child"`)
	assert.Regexp(t, `"http://example.org/mode"\s+= "strict"`, result.LogOutput)
}
