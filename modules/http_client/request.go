package http_client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/handlers"
)

// RequestInput defines the second constructor argument of a Request.
type RequestInput struct {
	URL    string `arg:"url"`
	Method string `arg:"method"`
}

// Response is the outcome of a Request.
type Response struct {
	StatusCode int
	Body       string
}

// Request is a prepared HTTP request using an injected client.
type Request struct {
	client *http.Client
	url    string
	method string
}

// NewRequest is the factory of the 'Request' member. The first argument is
// the client, the second the request options.
func NewRequest(_ context.Context, args []any) (any, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, fmt.Errorf("http client dependency was not injected")
	}
	client, ok := args[0].(*http.Client)
	if !ok {
		return nil, fmt.Errorf("expected an *http.Client as first argument, got %T", args[0])
	}

	input := RequestInput{Method: http.MethodGet}
	if err := handlers.DecodeArg(args, 1, &input); err != nil {
		return nil, err
	}
	if input.URL == "" {
		return nil, fmt.Errorf("a request requires a url")
	}
	return &Request{client: client, url: input.URL, method: input.Method}, nil
}

// Do executes the request and reads the whole response body.
func (r *Request) Do(ctx context.Context) (*Response, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Making HTTP request", "method", r.method, "url", r.url)

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: string(bodyBytes)}, nil
}

// String describes the request.
func (r *Request) String() string {
	return r.method + " " + r.url
}
