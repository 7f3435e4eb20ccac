package api

import (
	"net/http"

	"github.com/JaimeStill/intake/internal/intake"
	"github.com/JaimeStill/intake/pkg/handlers"
	"github.com/JaimeStill/intake/pkg/routes"
)

type status struct {
	Status string `json:"status"`
}

func registerRoutes(mux *http.ServeMux, runtime *Runtime, intakeHandler *intake.Handler) {
	routes.Register(
		mux,
		systemRoutes(runtime),
		intakeHandler.Routes(),
	)
}

func systemRoutes(runtime *Runtime) routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "/healthz",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					handlers.RespondJSON(w, http.StatusOK, status{Status: "ok"})
				},
			},
			{
				Method:  "GET",
				Pattern: "/readyz",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					if !runtime.Lifecycle.Ready() {
						handlers.RespondJSON(w, http.StatusServiceUnavailable, status{Status: "not ready"})
						return
					}
					handlers.RespondJSON(w, http.StatusOK, status{Status: "ready"})
				},
			},
			{
				Method:  "GET",
				Pattern: "/metrics",
				Handler: runtime.Metrics.Handler().ServeHTTP,
			},
		},
	}
}
