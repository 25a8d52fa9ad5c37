// ABOUTME: Configuration loading for confadmin-ctl
// ABOUTME: Loads TOML config from the XDG path with environment variable expansion

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/dashboard"
	"github.com/2389/confadmin/internal/session"
)

// BackendEnvVar overrides backend.url.
const BackendEnvVar = "CONFADMIN_BACKEND"

const defaultBackendURL = "http://localhost:5000"

type Config struct {
	Backend   BackendConfig   `toml:"backend"`
	Auth      AuthConfig      `toml:"auth"`
	Dashboard DashboardConfig `toml:"dashboard"`
}

type BackendConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

type AuthConfig struct {
	Email     string `toml:"email"`
	TokenFile string `toml:"token_file"`
}

type DashboardConfig struct {
	Interval Duration `toml:"interval"`
}

// Duration decodes TOML strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("duration %q must not be negative", text)
	}
	d.Duration = v
	return nil
}

// configPath returns $XDG_CONFIG_HOME/confadmin/ctl.toml or ~/.config/confadmin/ctl.toml.
func configPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "ctl.toml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "confadmin", "ctl.toml")
}

// Load reads config from path, expanding environment variables. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if _, err := toml.Decode(expandEnvVars(string(data)), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func (c *Config) applyDefaults() {
	if env := os.Getenv(BackendEnvVar); env != "" {
		c.Backend.URL = env
	}
	if c.Backend.URL == "" {
		c.Backend.URL = defaultBackendURL
	}
	if c.Backend.Timeout.Duration == 0 {
		c.Backend.Timeout.Duration = cms.DefaultTimeout
	}
	if c.Auth.TokenFile == "" {
		c.Auth.TokenFile = session.DefaultTokenPath()
	}
	if c.Dashboard.Interval.Duration == 0 {
		c.Dashboard.Interval.Duration = dashboard.DefaultRefreshInterval
	}
}

// Validate checks that required config fields are present and valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.url must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("backend.url must include a host")
	}
	return nil
}
