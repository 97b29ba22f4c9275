package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertInstanceCreated checks the log output within a HarnessResult to
// confirm that the pool created the instance of a config.
func AssertInstanceCreated(t *testing.T, result *HarnessResult, configIRI string) {
	t.Helper()

	expectedLogSubstring := fmt.Sprintf("msg=\"Creating instance.\" config=%s", configIRI)
	require.True(t,
		strings.Contains(result.LogOutput, expectedLogSubstring),
		"expected log output for the creation of '%s' was not found in logs", configIRI,
	)
}
