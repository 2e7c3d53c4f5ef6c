// Package config loads run settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mstoykov/envconfig"
	"github.com/v0xg/checkoutpage/internal/wait"
)

// Config holds the settings of a checkout run
type Config struct {
	BaseURL      string        `envconfig:"CHECKOUT_BASE_URL"`
	Headless     bool          `envconfig:"CHECKOUT_HEADLESS"`
	Width        int           `envconfig:"CHECKOUT_WIDTH"`
	Height       int           `envconfig:"CHECKOUT_HEIGHT"`
	WaitTimeout  time.Duration `envconfig:"CHECKOUT_WAIT_TIMEOUT"`
	PollInterval time.Duration `envconfig:"CHECKOUT_POLL_INTERVAL"`
	ProfileDir   string        `envconfig:"CHECKOUT_PROFILE_DIR"`
	Record       string        `envconfig:"CHECKOUT_RECORD"` // GIF output path, empty disables recording
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		BaseURL:      "http://localhost:8080",
		Headless:     true,
		Width:        1280,
		Height:       720,
		WaitTimeout:  5 * time.Second,
		PollInterval: wait.DefaultInterval,
	}
}

// Load reads .env files (silently ignoring missing ones) and the process environment
func Load(envFiles ...string) (Config, error) {
	// godotenv never overrides variables already set in the environment
	_ = godotenv.Load(envFiles...)
	return FromLookup(os.LookupEnv)
}

// FromLookup applies the variables visible through lookup on top of Default
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if err := envconfig.Process("", &cfg, lookup); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings no run can work with
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive, got %s", c.WaitTimeout)
	}
	if c.PollInterval <= 0 || c.PollInterval > c.WaitTimeout {
		return fmt.Errorf("poll interval must be in (0, %s], got %s", c.WaitTimeout, c.PollInterval)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}
