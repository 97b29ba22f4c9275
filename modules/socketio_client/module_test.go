package socketio_client

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/gridwire/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_Register(t *testing.T) {
	h := handlers.New(context.Background(), &Module{})
	_, ok := h.Lookup(ModuleName, "Client")
	assert.True(t, ok)
}

func TestInput_Settings(t *testing.T) {
	base, path, timeout, err := Input{URL: "https://example.org/socket.io/", ConnectTimeout: "2s"}.settings()
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", base)
	assert.Equal(t, "/socket.io/", path)
	assert.Equal(t, 2*time.Second, timeout)
}

func TestNewClient_InvalidInput(t *testing.T) {
	testCases := []struct {
		name    string
		arg     map[string]any
		wantErr string
	}{
		{name: "missing url", arg: map[string]any{}, wantErr: "requires a url"},
		{name: "relative url", arg: map[string]any{"url": "/socket.io"}, wantErr: "must be absolute"},
		{name: "bad url", arg: map[string]any{"url": "http://[::1"}, wantErr: "failed to parse URL"},
		{name: "bad timeout", arg: map[string]any{"url": "http://localhost", "connect_timeout": "later"}, wantErr: "invalid connect_timeout"},
		{name: "unknown option", arg: map[string]any{"url": "http://localhost", "room": "a"}, wantErr: "decoding argument 0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), []any{tc.arg})
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
