// Package config handles configuration for patrol-runner.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/patrol-runner/pkg/core"
)

// Output formats for test listings.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ServerConfig locates the UIAutomator2 server. Socket wins over Port.
type ServerConfig struct {
	Socket    string `yaml:"socket"`    // Unix socket forwarded from the device
	Port      int    `yaml:"port"`      // Local TCP port forwarded from the device
	TimeoutMs int    `yaml:"timeoutMs"` // Element find timeout, 0 = driver default
}

// Config represents the workspace configuration (config.yaml).
type Config struct {
	Server ServerConfig `yaml:"server"`

	// Logging
	LogFile  string `yaml:"logFile"`
	LogLevel string `yaml:"logLevel"` // logrus level name

	// Test selection
	Include []string `yaml:"include"` // Glob patterns on qualified test names
	Format  string   `yaml:"format"`  // text or json
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.ErrInvalidConfig.
			WithDetails(map[string]interface{}{"path": path}).
			WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// Validate checks field values. Empty fields are valid and mean defaults.
func (c *Config) Validate() error {
	switch c.Format {
	case "", FormatText, FormatJSON:
	default:
		return invalid("format", fmt.Errorf("unknown format %q", c.Format))
	}

	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return invalid("logLevel", err)
		}
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if c.Server.TimeoutMs < 0 {
		return invalid("server.timeoutMs", fmt.Errorf("negative timeout %d", c.Server.TimeoutMs))
	}

	return nil
}

// OutputFormat returns Format, defaulting to text.
func (c *Config) OutputFormat() string {
	if c.Format == "" {
		return FormatText
	}
	return c.Format
}

func invalid(field string, cause error) error {
	return core.ErrInvalidConfig.
		WithDetails(map[string]interface{}{"field": field}).
		WithCause(cause)
}
