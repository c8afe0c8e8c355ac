// Package config provides configuration loading and management for the
// course registration client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRequestTimeout is used when no timeout is configured
	DefaultRequestTimeout = 10 * time.Second

	// defaultStateDirName is the state directory created under the user
	// config dir when none is configured
	defaultStateDirName = "coursereg"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Endpoint is the base URL of the course-registration service API
	Endpoint string `yaml:"endpoint"`

	// RequestTimeout is the per-request timeout (e.g. "10s", "1m")
	RequestTimeout string `yaml:"requestTimeout,omitempty"`

	// StateDir is the directory holding the persisted key-value store
	StateDir string `yaml:"stateDir,omitempty"`

	// FallbackGeneration overrides the default cohort selection used when
	// the store holds none
	FallbackGeneration string `yaml:"fallbackGeneration,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetRequestTimeout returns the configured request timeout, or the default
// when unset
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == "" {
		return DefaultRequestTimeout
	}
	timeout, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return DefaultRequestTimeout
	}
	return timeout
}

// GetStateDir returns the configured state directory, falling back to a
// directory under the user config dir
func (c *Config) GetStateDir() (string, error) {
	if c.StateDir != "" {
		return c.StateDir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, defaultStateDirName), nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	parsed, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("endpoint must use http or https, got %q", parsed.Scheme)
	}

	if c.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
			return fmt.Errorf("requestTimeout is not a valid duration: %w", err)
		}
	}

	return nil
}
