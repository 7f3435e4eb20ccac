package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/intake/pkg/formatting"
)

const (
	EnvAPIMaxUploadSize = "INTAKE_API_MAX_UPLOAD_SIZE"
	EnvAPIUploadField   = "INTAKE_API_UPLOAD_FIELD"
)

// APIConfig holds settings for the convert-pdf endpoint.
type APIConfig struct {
	MaxUploadSize string `toml:"max_upload_size"`
	UploadField   string `toml:"upload_field"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Finalize guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.UploadField != "" {
		c.UploadField = overlay.UploadField
	}
}

func (c *APIConfig) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
	if c.UploadField == "" {
		c.UploadField = "data"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvAPIUploadField); v != "" {
		c.UploadField = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
