package api

import (
	"github.com/JaimeStill/intake/internal/infrastructure"
	"github.com/JaimeStill/intake/internal/workflow"
)

// Runtime extends Infrastructure with an API-scoped logger.
type Runtime struct {
	*infrastructure.Infrastructure
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")
	return &Runtime{Infrastructure: &scoped}
}

// Workflow returns the dependencies for the convert → classify workflow.
func (r *Runtime) Workflow() *workflow.Runtime {
	return &workflow.Runtime{
		Converter:  r.Converter,
		Classifier: r.Classifier,
		Metrics:    r.Metrics,
		Logger:     r.Logger.With("system", "workflow"),
	}
}
