package main

import (
	"context"

	"mediareview/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// application is the wired object graph shared by every command.
type application struct {
	svc    *service.ReviewService
	hs     *khttp.Server
	logger log.Logger
}

func newApplication(svc *service.ReviewService, hs *khttp.Server, logger log.Logger) *application {
	return &application{svc: svc, hs: hs, logger: logger}
}

// kratosApp runs the HTTP server until ctx is done or a termination signal arrives.
func (a *application) kratosApp(ctx context.Context) *kratos.App {
	return kratos.New(
		kratos.Context(ctx),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Logger(a.logger),
		kratos.Server(a.hs),
	)
}
