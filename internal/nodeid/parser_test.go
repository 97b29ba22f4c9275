// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrefixes = Prefixes{
	"ex":  "http://example.org/",
	"xsd": "http://www.w3.org/2001/XMLSchema#",
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		raw        string
		expectErr  bool
		expectedID ID
	}{
		{
			name:       "absolute IRI",
			raw:        "http://example.org/a",
			expectedID: Named("http://example.org/a"),
		},
		{
			name:       "compact IRI",
			raw:        "ex:lexer",
			expectedID: Named("http://example.org/lexer"),
		},
		{
			name:       "unknown prefix stays untouched",
			raw:        "urn:thing",
			expectedID: Named("urn:thing"),
		},
		{
			name:       "blank node",
			raw:        "_:b0",
			expectedID: Blank("b0"),
		},
		{
			name:       "plain literal",
			raw:        `"true"`,
			expectedID: Lit("true"),
		},
		{
			name:       "literal with escaped quote",
			raw:        `"say \"hi\""`,
			expectedID: Lit(`say "hi"`),
		},
		{
			name:       "typed literal with compact datatype",
			raw:        `"5"^^xsd:integer`,
			expectedID: ID{Kind: Literal, Value: "5", Datatype: "http://www.w3.org/2001/XMLSchema#integer"},
		},
		{
			name:       "typed literal with bracketed datatype",
			raw:        `"5"^^<http://www.w3.org/2001/XMLSchema#integer>`,
			expectedID: ID{Kind: Literal, Value: "5", Datatype: "http://www.w3.org/2001/XMLSchema#integer"},
		},
		{
			name:      "error - empty identifier",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "error - empty blank label",
			raw:       "_:",
			expectErr: true,
		},
		{
			name:      "error - unterminated literal",
			raw:       `"abc`,
			expectErr: true,
		},
		{
			name:      "error - garbage after literal",
			raw:       `"abc"xyz`,
			expectErr: true,
		},
		{
			name:      "error - whitespace in IRI",
			raw:       "ex:a b",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.raw, testPrefixes)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
		})
	}
}

func TestID_RoundTrip(t *testing.T) {
	ids := []ID{
		Named("http://example.org/a"),
		Blank("b12"),
		Lit("with \"quotes\" and\nnewline"),
		{Kind: Literal, Value: "1", Datatype: "http://www.w3.org/2001/XMLSchema#integer"},
	}

	for _, id := range ids {
		t.Run(id.String(), func(t *testing.T) {
			parsed, err := Parse(id.String(), nil)
			require.NoError(t, err)
			assert.True(t, id.Equal(parsed))
		})
	}
}

func TestPrefixes_Compact(t *testing.T) {
	p := Prefixes{
		"ex":    "http://example.org/",
		"exsub": "http://example.org/sub/",
	}
	assert.Equal(t, "exsub:x", p.Compact("http://example.org/sub/x"))
	assert.Equal(t, "ex:y", p.Compact("http://example.org/y"))
	assert.Equal(t, "urn:z", p.Compact("urn:z"))
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("", nil) })
}
