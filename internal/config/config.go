// Package config loads irontide's runtime settings.
//
// These are tunables the command line does not carry (fetch timeout, worker
// count, proxy, colors). The file is optional: when it does not exist every
// field takes its default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the settings path.
const EnvPath = "IRONTIDE_SETTINGS"

const (
	defaultTimeoutSeconds = 30
	defaultWorkers        = 1
	defaultMaxBodyBytes   = 10 << 20
	defaultColor          = "auto"
)

// Config is the top-level settings structure.
type Config struct {
	Fetch  FetchConfig  `yaml:"fetch"`
	Output OutputConfig `yaml:"output"`
}

// FetchConfig controls HTTP retrieval of feeds.
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	// Workers is the number of feeds fetched concurrently. 1 keeps the run
	// strictly sequential.
	Workers      int    `yaml:"workers"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	Proxy        string `yaml:"proxy"` // http://, https:// or socks5://
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	Color string `yaml:"color"` // auto, always, never
}

// DefaultPath returns the settings file location: $IRONTIDE_SETTINGS if set,
// otherwise <user config dir>/irontide/settings.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".irontide", "settings.yaml")
	}
	return filepath.Join(dir, "irontide", "settings.yaml")
}

// Load reads the YAML settings file at path. ${VAR_NAME} references are
// expanded from the environment before decoding. A missing file is not an
// error; the defaults are returned instead.
func Load(path string, version string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	default:
		expanded := os.Expand(string(data), os.Getenv)
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}

	setDefaults(cfg, version)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return cfg, nil
}

// setDefaults fills every unset field.
func setDefaults(cfg *Config, version string) {
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "irontide/" + version
	}
	if cfg.Fetch.Workers == 0 {
		cfg.Fetch.Workers = defaultWorkers
	}
	if cfg.Fetch.MaxBodyBytes == 0 {
		cfg.Fetch.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = defaultColor
	}
	cfg.Output.Color = strings.ToLower(cfg.Output.Color)
}

func (c *Config) validate() error {
	if c.Fetch.TimeoutSeconds < 0 {
		return fmt.Errorf("fetch.timeout_seconds must not be negative, got %d", c.Fetch.TimeoutSeconds)
	}
	if c.Fetch.Workers < 0 {
		return fmt.Errorf("fetch.workers must not be negative, got %d", c.Fetch.Workers)
	}
	if c.Fetch.MaxBodyBytes < 0 {
		return fmt.Errorf("fetch.max_body_bytes must not be negative, got %d", c.Fetch.MaxBodyBytes)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	return nil
}
