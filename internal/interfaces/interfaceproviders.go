package interfaces

import (
	"github.com/daosail/daosail-server/internal/interfaces/httpserver"

	"github.com/google/wire"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHTTPServer,
)
