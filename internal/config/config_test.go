// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, .env preload, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admin.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "0.0.0.0:9000"

backend:
  url: "https://cms.example.org"
  timeout: "5s"

database:
  path: "./sessions.db"

session:
  secret: "`+testSecret+`"
  ttl: "12h"
  idle_ttl: "10m"
  max_workspaces: 8

webadmin:
  notice_ttl: "2500ms"
  trusted_origins:
    - "admin.example.org"

dashboard:
  refresh_interval: "1m"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:9000" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:9000")
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("Backend.Timeout = %v, want 5s", cfg.Backend.Timeout)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Errorf("Session.TTL = %v, want 12h", cfg.Session.TTL)
	}
	if cfg.Session.IdleTTL != 10*time.Minute {
		t.Errorf("Session.IdleTTL = %v, want 10m", cfg.Session.IdleTTL)
	}
	if cfg.Session.MaxWorkspaces != 8 {
		t.Errorf("Session.MaxWorkspaces = %d, want 8", cfg.Session.MaxWorkspaces)
	}
	if cfg.WebAdmin.NoticeTTL != 2500*time.Millisecond {
		t.Errorf("WebAdmin.NoticeTTL = %v, want 2.5s", cfg.WebAdmin.NoticeTTL)
	}
	if len(cfg.WebAdmin.TrustedOrigins) != 1 {
		t.Errorf("WebAdmin.TrustedOrigins len = %d, want 1", len(cfg.WebAdmin.TrustedOrigins))
	}
	if cfg.Dashboard.RefreshInterval != time.Minute {
		t.Errorf("Dashboard.RefreshInterval = %v, want 1m", cfg.Dashboard.RefreshInterval)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: "http://localhost:5000"
database:
  path: "./sessions.db"
session:
  secret: "`+testSecret+`"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"Server.HTTPAddr", cfg.Server.HTTPAddr, DefaultHTTPAddr},
		{"Backend.Timeout", cfg.Backend.Timeout, DefaultBackendTimeout},
		{"Session.TTL", cfg.Session.TTL, DefaultSessionTTL},
		{"Session.IdleTTL", cfg.Session.IdleTTL, DefaultIdleTTL},
		{"Session.MaxWorkspaces", cfg.Session.MaxWorkspaces, DefaultMaxWorkspaces},
		{"Session.CookieName", cfg.Session.CookieName, DefaultCookieName},
		{"WebAdmin.NoticeTTL", cfg.WebAdmin.NoticeTTL, DefaultNoticeTTL},
		{"Dashboard.RefreshInterval", cfg.Dashboard.RefreshInterval, DefaultRefreshInterval},
		{"Logging.Level", cfg.Logging.Level, "info"},
		{"Logging.Format", cfg.Logging.Format, "text"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_CONFADMIN_SECRET", testSecret)
	t.Setenv("TEST_CONFADMIN_BACKEND", "https://cms.internal")

	path := writeConfig(t, `
backend:
  url: "${TEST_CONFADMIN_BACKEND}"
database:
  path: "./sessions.db"
session:
  secret: "${TEST_CONFADMIN_SECRET}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.URL != "https://cms.internal" {
		t.Errorf("Backend.URL = %q, want expanded value", cfg.Backend.URL)
	}
	if cfg.Session.Secret != testSecret {
		t.Errorf("Session.Secret was not expanded")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "TEST_DOTENV_ONLY=from-file\nTEST_DOTENV_PRESET=from-file\n"
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEST_DOTENV_PRESET", "from-env")
	t.Cleanup(func() { os.Unsetenv("TEST_DOTENV_ONLY") })

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("TEST_DOTENV_ONLY"); got != "from-file" {
		t.Errorf("TEST_DOTENV_ONLY = %q, want from-file", got)
	}
	if got := os.Getenv("TEST_DOTENV_PRESET"); got != "from-env" {
		t.Errorf("TEST_DOTENV_PRESET = %q, existing env should win", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("LoadDotEnv() on missing file error = %v, want nil", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing backend",
			yaml:    "database: {path: x}\nsession: {secret: " + testSecret + "}\n",
			wantErr: "backend.url is required",
		},
		{
			name:    "relative backend",
			yaml:    "backend: {url: cms.local}\ndatabase: {path: x}\nsession: {secret: " + testSecret + "}\n",
			wantErr: "absolute http(s) URL",
		},
		{
			name:    "missing database",
			yaml:    "backend: {url: 'http://cms'}\nsession: {secret: " + testSecret + "}\n",
			wantErr: "database.path is required",
		},
		{
			name:    "short secret",
			yaml:    "backend: {url: 'http://cms'}\ndatabase: {path: x}\nsession: {secret: short}\n",
			wantErr: "session.secret must be at least",
		},
		{
			name:    "tailscale without hostname",
			yaml:    "tailscale: {enabled: true}\nbackend: {url: 'http://cms'}\ndatabase: {path: x}\nsession: {secret: " + testSecret + "}\n",
			wantErr: "tailscale.hostname is required",
		},
		{
			name:    "bad duration",
			yaml:    "backend: {url: 'http://cms', timeout: soon}\ndatabase: {path: x}\nsession: {secret: " + testSecret + "}\n",
			wantErr: "backend.timeout",
		},
		{
			name:    "bad log format",
			yaml:    "backend: {url: 'http://cms'}\ndatabase: {path: x}\nsession: {secret: " + testSecret + "}\nlogging: {format: xml}\n",
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() on missing file should fail")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != "/tmp/xdg/confadmin/admin.yaml" {
		t.Errorf("DefaultPath() = %q", got)
	}

	t.Setenv(EnvConfigPath, "/etc/confadmin.yaml")
	if got := DefaultPath(); got != "/etc/confadmin.yaml" {
		t.Errorf("DefaultPath() with override = %q", got)
	}
}

func TestCSRFKeyAndExternalURL(t *testing.T) {
	cfg := &Config{Session: SessionConfig{Secret: testSecret}, Server: ServerConfig{HTTPAddr: "127.0.0.1:8090"}}
	if len(cfg.CSRFKey()) != 32 {
		t.Errorf("CSRFKey() length = %d, want 32", len(cfg.CSRFKey()))
	}

	other := *cfg
	other.WebAdmin.CSRFKey = "explicit"
	if string(other.CSRFKey()) == string(cfg.CSRFKey()) {
		t.Error("explicit csrf_key should change the derived key")
	}

	if got := cfg.ExternalURL(); got != "http://127.0.0.1:8090" {
		t.Errorf("ExternalURL() = %q", got)
	}
	cfg.Tailscale = TailscaleConfig{Enabled: true, Hostname: "confadmin", HTTPS: true}
	if got := cfg.ExternalURL(); got != "https://confadmin" {
		t.Errorf("ExternalURL() with tailscale = %q", got)
	}
	cfg.WebAdmin.BaseURL = "https://admin.example.org/"
	if got := cfg.ExternalURL(); got != "https://admin.example.org" {
		t.Errorf("ExternalURL() with base_url = %q", got)
	}
}
