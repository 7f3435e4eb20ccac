package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvClassifierProvider               = "INTAKE_CLASSIFIER_PROVIDER"
	EnvClassifierBaseURL                = "INTAKE_CLASSIFIER_BASE_URL"
	EnvClassifierModel                  = "INTAKE_CLASSIFIER_MODEL"
	EnvClassifierToken                  = "INTAKE_CLASSIFIER_TOKEN"
	EnvClassifierTemperature            = "INTAKE_CLASSIFIER_TEMPERATURE"
	EnvClassifierTimeout                = "INTAKE_CLASSIFIER_TIMEOUT"
	EnvClassifierEstimateAuthor         = "INTAKE_CLASSIFIER_ESTIMATE_AUTHOR"
	EnvClassifierLetterOfRepresentation = "INTAKE_CLASSIFIER_LETTER_OF_REPRESENTATION"

	// EnvOpenAIAPIKey is honored as a token fallback so existing .env files keep working.
	EnvOpenAIAPIKey = "OpenAI_API_KEY"
)

// Classifier providers.
const (
	ProviderOpenAI = "openai"
	ProviderAgent  = "agent"
)

// ClassifierConfig selects and parameterizes the external classification service.
// Provider "openai" talks to an OpenAI-compatible chat completions endpoint;
// provider "agent" routes through the go-agents configuration in [agent].
type ClassifierConfig struct {
	Provider               string   `toml:"provider"`
	BaseURL                string   `toml:"base_url"`
	Model                  string   `toml:"model"`
	Token                  string   `toml:"token"`
	Temperature            *float64 `toml:"temperature"`
	Timeout                string   `toml:"timeout"`
	EstimateAuthor         string   `toml:"estimate_author"`
	LetterOfRepresentation bool     `toml:"letter_of_representation"`
}

// TemperatureValue returns the configured decoding temperature.
func (c *ClassifierConfig) TemperatureValue() float64 {
	if c.Temperature == nil {
		return 0.1
	}
	return *c.Temperature
}

// TimeoutDuration returns Timeout as a time.Duration. Zero means no client timeout.
func (c *ClassifierConfig) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	return mustDuration(c.Timeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. LetterOfRepresentation
// always applies.
func (c *ClassifierConfig) Merge(overlay *ClassifierConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Temperature != nil {
		c.Temperature = overlay.Temperature
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.EstimateAuthor != "" {
		c.EstimateAuthor = overlay.EstimateAuthor
	}
	c.LetterOfRepresentation = overlay.LetterOfRepresentation
}

func (c *ClassifierConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Temperature == nil {
		t := 0.1
		c.Temperature = &t
	}
	if c.EstimateAuthor == "" {
		c.EstimateAuthor = "AdjustPro Solutions LLC"
	}
}

func (c *ClassifierConfig) loadEnv() {
	if v := os.Getenv(EnvClassifierProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvClassifierBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvClassifierModel); v != "" {
		c.Model = v
	}
	if c.Token == "" {
		c.Token = os.Getenv(EnvOpenAIAPIKey)
	}
	if v := os.Getenv(EnvClassifierToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvClassifierTemperature); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = &t
		}
	}
	if v := os.Getenv(EnvClassifierTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvClassifierEstimateAuthor); v != "" {
		c.EstimateAuthor = v
	}
	if v := os.Getenv(EnvClassifierLetterOfRepresentation); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.LetterOfRepresentation = enabled
		}
	}
}

func (c *ClassifierConfig) validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAgent:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if t := c.TemperatureValue(); t < 0 || t > 2 {
		return fmt.Errorf("temperature out of range [0, 2]: %v", t)
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}
	return nil
}
