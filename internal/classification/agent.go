package classification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentClassifier routes the vision request through a go-agents agent, so
// any provider go-agents supports can serve classification. The configured
// temperature overrides any vision temperature in the model capabilities.
type AgentClassifier struct {
	cfg         *gaconfig.AgentConfig
	temperature float64
	logger      *slog.Logger
}

// NewAgentClassifier creates an AgentClassifier for cfg that decodes at temperature.
func NewAgentClassifier(cfg *gaconfig.AgentConfig, temperature float64, logger *slog.Logger) *AgentClassifier {
	return &AgentClassifier{
		cfg:         cfg,
		temperature: temperature,
		logger:      logger.With("system", "classifier", "provider", "agent"),
	}
}

// Classify issues a single Vision call carrying every image in order.
func (c *AgentClassifier) Classify(ctx context.Context, instructions string, images []string) (string, error) {
	a, err := agent.New(c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Vision(ctx, instructions, images, map[string]any{
		"temperature": c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("vision call: %w", err)
	}

	c.logger.InfoContext(
		ctx, "classifier responded",
		"agent", c.cfg.Name,
		"images", len(images),
		"temperature", c.temperature,
	)

	return resp.Content(), nil
}
