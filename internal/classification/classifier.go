// Package classification sends rendered page images to an external
// multimodal model and validates its reply into a Result.
package classification

import (
	"context"
	"fmt"
	"log/slog"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/intake/internal/config"
)

// Classifier sends the instruction text and the page data URIs, in order,
// as a single request and returns the raw textual reply.
type Classifier interface {
	Classify(ctx context.Context, instructions string, images []string) (string, error)
}

// New builds the Classifier selected by cfg.Provider.
func New(cfg *config.ClassifierConfig, agentCfg *gaconfig.AgentConfig, logger *slog.Logger) (Classifier, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(OpenAIOptions{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Token:       cfg.Token,
			Temperature: cfg.TemperatureValue(),
			Timeout:     cfg.TimeoutDuration(),
		}, logger), nil
	case config.ProviderAgent:
		return NewAgentClassifier(agentCfg, cfg.TemperatureValue(), logger), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}
