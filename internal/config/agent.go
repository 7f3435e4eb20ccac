package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentName         = "INTAKE_AGENT_NAME"
	EnvAgentProviderName = "INTAKE_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "INTAKE_AGENT_BASE_URL"
	EnvAgentToken        = "INTAKE_AGENT_TOKEN"
	EnvAgentDeployment   = "INTAKE_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "INTAKE_AGENT_API_VERSION"
	EnvAgentAuthType     = "INTAKE_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "INTAKE_AGENT_MODEL_NAME"
)

// FinalizeAgent fills a go-agents AgentConfig from DefaultAgentConfig,
// applies INTAKE_AGENT_* overrides, and validates the result. Config.Finalize
// only calls it when classifier.provider is "agent".
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	if v := os.Getenv(EnvAgentName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	options := map[string]string{
		EnvAgentToken:      "token",
		EnvAgentDeployment: "deployment",
		EnvAgentAPIVersion: "api_version",
		EnvAgentAuthType:   "auth_type",
	}
	for envVar, key := range options {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}
