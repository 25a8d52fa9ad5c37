// ABOUTME: Configuration loading and parsing for the confadmin console
// ABOUTME: Supports YAML files with environment variable expansion, .env preload, and duration parsing

package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "CONFADMIN_CONFIG"

// MinSecretLength is the minimum length of session.secret.
const MinSecretLength = 32

// Defaults applied when a field is left empty.
const (
	DefaultHTTPAddr        = "127.0.0.1:8090"
	DefaultBackendTimeout  = 15 * time.Second
	DefaultSessionTTL      = 24 * time.Hour
	DefaultIdleTTL         = 30 * time.Minute
	DefaultMaxWorkspaces   = 256
	DefaultNoticeTTL       = 3 * time.Second
	DefaultRefreshInterval = 30 * time.Second
	DefaultCookieName      = "confadmin_session"
)

// Config represents the complete confadmin configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Backend   BackendConfig   `yaml:"backend"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	WebAdmin  WebAdminConfig  `yaml:"webadmin"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the listen address
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Hostname  string `yaml:"hostname"`
	AuthKey   string `yaml:"auth_key"`
	StateDir  string `yaml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral"`
	HTTPS     bool   `yaml:"https"`  // serve on :443 with tailnet certificates
	Funnel    bool   `yaml:"funnel"` // expose publicly through Funnel (implies HTTPS)
}

// BackendConfig points at the CMS REST backend
type BackendConfig struct {
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// DatabaseConfig holds the session database location
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig controls browser sessions and their server-side workspaces
type SessionConfig struct {
	Secret        string `yaml:"secret"`
	CookieName    string `yaml:"cookie_name"`
	SecureCookie  bool   `yaml:"secure_cookie"`
	MaxWorkspaces int    `yaml:"max_workspaces"`

	TTL     time.Duration `yaml:"-"`
	IdleTTL time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	TTLRaw     string `yaml:"ttl"`
	IdleTTLRaw string `yaml:"idle_ttl"`
}

// WebAdminConfig holds web admin UI configuration
type WebAdminConfig struct {
	// BaseURL is the external URL of the console. If not set, it's derived
	// from server.http_addr or the tailscale hostname.
	BaseURL        string        `yaml:"base_url"`
	CSRFKey        string        `yaml:"csrf_key"`
	TrustedOrigins []string      `yaml:"trusted_origins"`
	NoticeTTL      time.Duration `yaml:"-"`
	NoticeTTLRaw   string        `yaml:"notice_ttl"`
}

// DashboardConfig holds dashboard refresh settings
type DashboardConfig struct {
	RefreshInterval    time.Duration `yaml:"-"`
	RefreshIntervalRaw string        `yaml:"refresh_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultPath returns the config location: $CONFADMIN_CONFIG if set,
// otherwise $XDG_CONFIG_HOME/confadmin/admin.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "admin.yaml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "confadmin", "admin.yaml")
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, defaults, and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" && !c.Tailscale.Enabled {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = DefaultBackendTimeout
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = DefaultSessionTTL
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = DefaultIdleTTL
	}
	if c.Session.MaxWorkspaces == 0 {
		c.Session.MaxWorkspaces = DefaultMaxWorkspaces
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.WebAdmin.NoticeTTL == 0 {
		c.WebAdmin.NoticeTTL = DefaultNoticeTTL
	}
	if c.Dashboard.RefreshInterval == 0 {
		c.Dashboard.RefreshInterval = DefaultRefreshInterval
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Tailscale.Funnel {
		c.Tailscale.HTTPS = true
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.url must be an absolute http(s) URL, got %q", c.Backend.URL)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if len(c.Session.Secret) < MinSecretLength {
		return fmt.Errorf("session.secret must be at least %d characters", MinSecretLength)
	}
	if c.Session.MaxWorkspaces < 0 {
		return fmt.Errorf("session.max_workspaces must not be negative")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// CSRFKey returns the 32-byte key for CSRF tokens. It is derived from
// webadmin.csrf_key, falling back to session.secret.
func (c *Config) CSRFKey() []byte {
	src := c.WebAdmin.CSRFKey
	if src == "" {
		src = "csrf:" + c.Session.Secret
	}
	sum := sha256.Sum256([]byte(src))
	return sum[:]
}

// ExternalURL returns the URL operators reach the console at.
func (c *Config) ExternalURL() string {
	if c.WebAdmin.BaseURL != "" {
		return strings.TrimRight(c.WebAdmin.BaseURL, "/")
	}
	if c.Tailscale.Enabled {
		if c.Tailscale.HTTPS {
			return "https://" + c.Tailscale.Hostname
		}
		return "http://" + c.Tailscale.Hostname
	}
	return "http://" + c.Server.HTTPAddr
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"backend.timeout", cfg.Backend.TimeoutRaw, &cfg.Backend.Timeout},
		{"session.ttl", cfg.Session.TTLRaw, &cfg.Session.TTL},
		{"session.idle_ttl", cfg.Session.IdleTTLRaw, &cfg.Session.IdleTTL},
		{"webadmin.notice_ttl", cfg.WebAdmin.NoticeTTLRaw, &cfg.WebAdmin.NoticeTTL},
		{"dashboard.refresh_interval", cfg.Dashboard.RefreshIntervalRaw, &cfg.Dashboard.RefreshInterval},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
		*f.dst = d
	}

	return nil
}
