package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fyrsmithlabs/decisiond/internal/classifier"
)

// Config is the top-level daemon and CLI configuration.
type Config struct {
	Storage    StorageConfig     `koanf:"storage"`
	Server     ServerConfig      `koanf:"server"`
	Logging    LoggingConfig     `koanf:"logging"`
	Classifier classifier.Tables `koanf:"classifier"`
}

// StorageConfig locates the on-disk data root. Decision records live under
// <data_dir>/decisions, generated reports under <data_dir>/reviews.
type StorageConfig struct {
	DataDir string `koanf:"data_dir"`
}

// DecisionsDir returns the decision record directory.
func (c StorageConfig) DecisionsDir() string {
	return filepath.Join(c.DataDir, "decisions")
}

// ReviewsDir returns the generated report directory.
func (c StorageConfig) ReviewsDir() string {
	return filepath.Join(c.DataDir, "reviews")
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig configures logger construction.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is "json" or "console".
	Format string `koanf:"format"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
