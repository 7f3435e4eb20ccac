// Package infrastructure provides core service initialization for application startup.
// It assembles the systems the convert-pdf pipeline requires: logging,
// metrics, the upload workspace, the PDF converter, and the classifier.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/intake/internal/classification"
	"github.com/JaimeStill/intake/internal/config"
	"github.com/JaimeStill/intake/internal/conversion"
	"github.com/JaimeStill/intake/pkg/lifecycle"
	"github.com/JaimeStill/intake/pkg/metrics"
	"github.com/JaimeStill/intake/pkg/middleware"
)

// Infrastructure holds the core systems shared by the HTTP surface.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Workspace  *conversion.Workspace
	Converter  conversion.Converter
	Classifier *classification.Service
	// Verifier is nil when authentication is disabled.
	Verifier middleware.TokenVerifier
}

// New creates an Infrastructure from the application configuration.
// The classification backend is built from cfg.Classifier unless
// classifier is non-nil.
func New(cfg *config.Config, classifier classification.Classifier) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := cfg.Log.NewLogger()

	workspace, err := conversion.NewWorkspace(cfg.Conversion.UploadsDir, cfg.Conversion.KeepImages)
	if err != nil {
		return nil, fmt.Errorf("workspace init failed: %w", err)
	}

	if classifier == nil {
		classifier, err = classification.New(&cfg.Classifier, &cfg.Agent, logger)
		if err != nil {
			return nil, fmt.Errorf("classifier init failed: %w", err)
		}
	}

	svc, err := classification.NewService(
		classifier,
		classification.InstructionOptions{
			EstimateAuthor:         cfg.Classifier.EstimateAuthor,
			LetterOfRepresentation: cfg.Classifier.LetterOfRepresentation,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("classification init failed: %w", err)
	}

	var verifier middleware.TokenVerifier
	if cfg.Auth.Enabled {
		verifier, err = middleware.NewVerifier(lc.Context(), &cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Metrics:    metrics.New(),
		Workspace:  workspace,
		Converter:  conversion.NewPDFConverter(cfg.Conversion.DPI(), logger),
		Classifier: svc,
		Verifier:   verifier,
	}, nil
}

// Start registers infrastructure hooks with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnStartup(func() {
		i.Logger.Info("workspace ready", "root", i.Workspace.Root())
	})

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		i.Logger.Info("infrastructure stopped")
	})

	return nil
}
