// Package config handles CLI configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OCBOT_"

// Config represents the CLI configuration.
type Config struct {
	DefaultRuntime string                   `yaml:"default_runtime" env:"RUNTIME"`
	BotID          string                   `yaml:"bot_id" env:"BOT_ID"`
	Runtimes       map[string]RuntimeConfig `yaml:"runtimes"`
	Logging        LoggingConfig            `yaml:"logging" envPrefix:"LOG_"`
	Middleware     MiddlewareConfig         `yaml:"middleware" envPrefix:"MIDDLEWARE_"`

	// BaseURL overrides the default runtime's base_url. Environment only.
	BaseURL string `yaml:"-" env:"BASE_URL"`
}

// RuntimeConfig holds configuration for a specific runtime.
type RuntimeConfig struct {
	BaseURL  string        `yaml:"base_url,omitempty"`
	TokenRef string        `yaml:"token_ref,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// MiddlewareConfig enables runtime middleware. Zero values disable each one.
type MiddlewareConfig struct {
	RateLimit float64       `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst int           `yaml:"rate_burst" env:"RATE_BURST"`
	Retries   int           `yaml:"retries" env:"RETRIES"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.ocbot/config.yaml
// - Windows: %USERPROFILE%\.ocbot\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		// Fallback to current directory
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".ocbot", "config.yaml")
}

// LoadConfig loads configuration from the specified path, then applies
// OCBOT_* environment overrides.
// If the file doesn't exist, the result holds only the overrides.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Runtimes: make(map[string]RuntimeConfig),
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if cfg.Runtimes == nil {
		cfg.Runtimes = make(map[string]RuntimeConfig)
	}
	if cfg.BaseURL != "" && cfg.DefaultRuntime != "" {
		rc := cfg.Runtimes[cfg.DefaultRuntime]
		rc.BaseURL = cfg.BaseURL
		cfg.Runtimes[cfg.DefaultRuntime] = rc
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// GetRuntime returns the runtime config for the given name.
// Returns nil if the runtime is not configured.
func (c *Config) GetRuntime(name string) *RuntimeConfig {
	if c.Runtimes == nil {
		return nil
	}
	if rc, ok := c.Runtimes[name]; ok {
		return &rc
	}
	return nil
}
