// ABOUTME: Configuration loading and parsing for fleet-gateway
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete fleet-gateway configuration
type Config struct {
	Gateway  GatewayConfig  `yaml:"gateway"`
	Manifest ManifestConfig `yaml:"manifest"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GatewayConfig identifies this gateway instance
type GatewayConfig struct {
	Name string `yaml:"name"`
}

// ManifestConfig points at the provisioning manifest
type ManifestConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig holds per-session resource limits and shutdown timing
type SessionConfig struct {
	MaxRobots     int `yaml:"max_robots"`
	MaxContainers int `yaml:"max_containers"`

	TeardownGrace    time.Duration `yaml:"-"`
	TeardownGraceRaw string        `yaml:"teardown_grace"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Gateway.Name == "" {
		return fmt.Errorf("gateway.name is required")
	}

	if c.Session.MaxRobots < 0 {
		return fmt.Errorf("session.max_robots must not be negative")
	}
	if c.Session.MaxContainers < 0 {
		return fmt.Errorf("session.max_containers must not be negative")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Session.TeardownGraceRaw != "" {
		cfg.Session.TeardownGrace, err = time.ParseDuration(cfg.Session.TeardownGraceRaw)
		if err != nil {
			return fmt.Errorf("parsing teardown_grace %q: %w", cfg.Session.TeardownGraceRaw, err)
		}
	}

	return nil
}
