package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvConversionUploadsDir = "INTAKE_CONVERSION_UPLOADS_DIR"
	EnvConversionScale      = "INTAKE_CONVERSION_SCALE"
	EnvConversionKeepImages = "INTAKE_CONVERSION_KEEP_IMAGES"
)

// ConversionConfig controls where uploads land and how pages are rasterized.
// Scale multiplies the 72 DPI PDF user space; the default of 3 renders at 216 DPI.
type ConversionConfig struct {
	UploadsDir string  `toml:"uploads_dir"`
	Scale      float64 `toml:"scale"`
	KeepImages bool    `toml:"keep_images"`
}

// DPI returns the render resolution derived from Scale.
func (c *ConversionConfig) DPI() int {
	return int(72 * c.Scale)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ConversionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. KeepImages always applies.
func (c *ConversionConfig) Merge(overlay *ConversionConfig) {
	if overlay.UploadsDir != "" {
		c.UploadsDir = overlay.UploadsDir
	}
	if overlay.Scale != 0 {
		c.Scale = overlay.Scale
	}
	c.KeepImages = overlay.KeepImages
}

func (c *ConversionConfig) loadDefaults() {
	if c.UploadsDir == "" {
		c.UploadsDir = "uploads"
	}
	if c.Scale == 0 {
		c.Scale = 3
	}
}

func (c *ConversionConfig) loadEnv() {
	if v := os.Getenv(EnvConversionUploadsDir); v != "" {
		c.UploadsDir = v
	}
	if v := os.Getenv(EnvConversionScale); v != "" {
		if scale, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scale = scale
		}
	}
	if v := os.Getenv(EnvConversionKeepImages); v != "" {
		if keep, err := strconv.ParseBool(v); err == nil {
			c.KeepImages = keep
		}
	}
}

func (c *ConversionConfig) validate() error {
	if c.Scale <= 0 || c.Scale > 8 {
		return fmt.Errorf("scale out of range (0, 8]: %v", c.Scale)
	}
	return nil
}
