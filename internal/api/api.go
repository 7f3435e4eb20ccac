// Package api assembles the HTTP surface: the convert-pdf endpoint, health
// probes, metrics, and the middleware stack wrapping them.
package api

import (
	"net/http"

	"github.com/JaimeStill/intake/internal/config"
	"github.com/JaimeStill/intake/internal/infrastructure"
	"github.com/JaimeStill/intake/internal/intake"
	"github.com/JaimeStill/intake/pkg/middleware"
)

// NewHandler builds the service's root handler. Middleware order, outermost
// first: request id, access log, metrics, then the mux.
func NewHandler(cfg *config.Config, infra *infrastructure.Infrastructure) http.Handler {
	runtime := NewRuntime(infra)

	intakeHandler := intake.NewHandler(
		runtime.Workspace,
		runtime.Workflow(),
		intake.Options{
			MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
			UploadField:   cfg.API.UploadField,
			Middleware: []func(http.Handler) http.Handler{
				middleware.Auth(runtime.Verifier, runtime.Logger.With("system", "auth")),
			},
		},
		runtime.Logger,
	)

	mux := http.NewServeMux()
	registerRoutes(mux, runtime, intakeHandler)

	mw := middleware.New()
	mw.Use(middleware.RequestID())
	mw.Use(middleware.Logger(runtime.Logger))
	mw.Use(runtime.Metrics.Middleware())

	return mw.Apply(mux)
}
