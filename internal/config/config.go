// Package config loads settings from .genforge/config.yaml under the
// project root, then applies environment overrides. Flags win over both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	Dir      = ".genforge"
	fileName = "config.yaml"
)

// Duration decodes yaml values like "5s" or plain integer seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all tunable settings.
type Config struct {
	APIKey          string        `yaml:"-"` // environment only, never persisted
	Model           string        `yaml:"model"`
	Temperature     float32       `yaml:"temperature"`
	MaxOutputTokens int32         `yaml:"max_output_tokens"`
	SafetyThreshold string        `yaml:"safety_threshold"`
	Stream          bool          `yaml:"stream"`
	MaxAttempts     int           `yaml:"max_attempts"`
	Backoff         string        `yaml:"backoff"` // "exponential" or "fixed"
	RetryDelay      Duration      `yaml:"retry_delay"`
	TrimContent     bool          `yaml:"trim_content"`
	TestCommand     string        `yaml:"test_command"`
	Debug           bool          `yaml:"debug"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Model:           "gemini-2.5-flash",
		Temperature:     0.4,
		MaxOutputTokens: 65536,
		SafetyThreshold: "BLOCK_ONLY_HIGH",
		MaxAttempts:     3,
		Backoff:         "exponential",
		RetryDelay:      Duration(time.Second),
		TestCommand:     "go test ./...",
	}
}

// Load reads the config file under root (if present) on top of the defaults,
// then applies environment overrides.
func Load(root string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(root, Dir, fileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GENFORGE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GENFORGE_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}
	if v := os.Getenv("GENFORGE_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}

func (c *Config) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	switch c.Backoff {
	case "exponential", "fixed":
	default:
		return fmt.Errorf("backoff must be \"exponential\" or \"fixed\", got %q", c.Backoff)
	}
	return nil
}
