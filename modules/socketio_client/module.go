// Package socketio_client provides a connected socket.io client component.
package socketio_client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/handlers"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// ModuleName is the module name configs use to require this package.
const ModuleName = "socketio_client"

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the constructor argument of a Client.
type Input struct {
	URL                string `arg:"url"`
	Namespace          string `arg:"namespace"`
	InsecureSkipVerify bool   `arg:"insecure_skip_verify"`
	ConnectTimeout     string `arg:"connect_timeout"`
}

// settings validates the input and splits the URL into the manager address
// and the engine path.
func (in Input) settings() (baseURL, path string, timeout time.Duration, err error) {
	if in.URL == "" {
		return "", "", 0, fmt.Errorf("a socket.io client requires a url")
	}
	parsedURL, err := url.Parse(in.URL)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", "", 0, fmt.Errorf("URL %q must be absolute", in.URL)
	}
	timeout, err = time.ParseDuration(in.ConnectTimeout)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid connect_timeout: %w", err)
	}
	return fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host), parsedURL.Path, timeout, nil
}

// NewClient is the factory of the 'Client' member. It connects before
// returning, so dependents receive a live socket.
func NewClient(ctx context.Context, args []any) (any, error) {
	input := Input{Namespace: "/", ConnectTimeout: "15s"}
	if err := handlers.DecodeArg(args, 0, &input); err != nil {
		return nil, err
	}
	baseURL, path, timeout, err := input.settings()
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("component", "socketio_client", "url", input.URL)
	logger.Info("Creating new client instance...")

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Close disconnects a client built by NewClient.
func Close(client *socket.Socket) {
	client.Disconnect()
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(handlers.Name(ModuleName, "Client"), &handlers.Registered{
		New: NewClient,
	})
}
