package app

import (
	"github.com/specialistvlad/gridwire/internal/handlers"
	"github.com/specialistvlad/gridwire/modules/env_vars"
	"github.com/specialistvlad/gridwire/modules/http_client"
	"github.com/specialistvlad/gridwire/modules/print"
	"github.com/specialistvlad/gridwire/modules/s3"
	"github.com/specialistvlad/gridwire/modules/socketio_client"
)

// coreModules is the definitive list of all modules that are compiled into
// the gridwire binary.
var coreModules = []handlers.Module{
	&env_vars.Module{},
	&http_client.Module{},
	&print.Module{},
	&s3.Module{},
	&socketio_client.Module{},
}
