// Package http_client provides a shareable HTTP client component and request
// components bound to a client.
package http_client

import (
	"github.com/specialistvlad/gridwire/internal/handlers"
)

// ModuleName is the module name configs use to require this package.
const ModuleName = "http_client"

// Module implements the handlers.Module interface. It's the main entrypoint
// for the http_client module.
type Module struct{}

// Register registers the 'Client' and 'Request' members.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(handlers.Name(ModuleName, "Client"), &handlers.Registered{
		New: NewClient,
	})
	h.Register(handlers.Name(ModuleName, "Request"), &handlers.Registered{
		New: NewRequest,
	})
}
