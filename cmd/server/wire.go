//go:build wireinject

package main

import (
	"github.com/daosail/daosail-server/internal/domain"
	"github.com/daosail/daosail-server/internal/infrastructure"
	"github.com/daosail/daosail-server/internal/interfaces"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/routes"

	"github.com/google/wire"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
