package http_client

import (
	"context"
	"net/http"
	"time"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/handlers"
)

// ClientInput defines the constructor argument of a Client.
type ClientInput struct {
	Timeout      string `arg:"timeout"`
	MaxIdleConns int    `arg:"max_idle_conns"`
}

// NewClient is the factory of the 'Client' member. It returns a live
// *http.Client, shared by every config referring to it.
func NewClient(ctx context.Context, args []any) (any, error) {
	input := ClientInput{Timeout: "30s", MaxIdleConns: 100}
	if err := handlers.DecodeArg(args, 0, &input); err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Creating HTTP client.", "timeout", timeout)
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        input.MaxIdleConns,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}, nil
}

// CloseClient closes the idle connections of a client built by NewClient.
func CloseClient(client *http.Client) {
	client.CloseIdleConnections()
}
