//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"mediareview/internal/biz"
	"mediareview/internal/conf"
	"mediareview/internal/data"
	"mediareview/internal/server"
	"mediareview/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init the application.
func wireApp(*conf.Server, *conf.Data, *conf.Ingest, *conf.Notify, log.Logger) (*application, func(), error) {
	panic(wire.Build(server.ProviderSet, data.ProviderSet, biz.ProviderSet, service.ProviderSet, newApplication))
}
