package integration_tests

import (
	"testing"

	"github.com/specialistvlad/gridwire/internal/app"
	"github.com/specialistvlad/gridwire/internal/construct"
	"github.com/specialistvlad/gridwire/internal/params"
	"github.com/specialistvlad/gridwire/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	testCases := []struct {
		name    string
		hcl     string
		cfg     app.Config
		wantErr string
		wantIs  error
	}{
		{
			name: "unknown component type",
			hcl: `
config "ex:a" {
  type = "ex:Nope"
}
`,
			wantErr: "Could not find (valid) component types",
		},
		{
			name: "range mismatch",
			hcl: `
component "ex:Typed" {
  module = "capture"
  member = "Capture"
  parameter "ex:count" {
    range = "number"
  }
}
config "ex:a" {
  type   = "ex:Typed"
  params = { "ex:count" = "many" }
}
`,
			wantErr: `Parameter value "many" is not of required range type`,
			wantIs:  params.ErrRangeMismatch,
		},
		{
			name: "undefined variable",
			hcl: `
config "ex:a" {
  module    = "capture"
  member    = "Capture"
  arguments = [variable("ex:missing")]
}
`,
			wantIs: construct.ErrUndefinedVariable,
		},
		{
			name: "missing handler",
			hcl: `
config "ex:a" {
  module = "nothing"
  member = "Here"
}
`,
			wantErr: "no component registered as 'nothing#Here'",
		},
		{
			name: "override target not in list",
			hcl: `
component "ex:Listy" {
  module = "capture"
  member = "Capture"
  parameter "ex:items" {}
}
config "ex:a" {
  type   = "ex:Listy"
  params = { "ex:items" = ["a"] }
}
override "ex:o" {
  target = "ex:a"
  step "remove" {
    parameter = "ex:items"
    target    = "zzz"
  }
}
`,
			wantErr: "Unable to find the override target",
		},
		{
			name: "unknown instance",
			hcl: `
config "ex:a" {
  module = "capture"
  member = "Capture"
}
`,
			cfg:     app.Config{Instances: []string{"ex:b"}},
			wantErr: "is not defined in the configuration",
		},
		{
			name:    "invalid HCL",
			hcl:     `config "ex:a" {`,
			wantErr: "application startup panicked",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			files := map[string]string{
				"main.hcl": "prefixes = { ex = \"http://example.org/\" }\n" + tc.hcl,
			}

			// --- Act ---
			result := testutil.RunIntegrationTest(t, files, tc.cfg, captureModule{})

			// --- Assert ---
			require.Error(t, result.Err)
			if tc.wantErr != "" {
				assert.Contains(t, result.Err.Error(), tc.wantErr)
			}
			if tc.wantIs != nil {
				assert.ErrorIs(t, result.Err, tc.wantIs)
			}
		})
	}
}
