// Package config handles configuration loading for the confadmin console.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CONFADMIN_CONFIG environment variable
//  2. ~/.config/confadmin/admin.yaml
//
// A .env file next to the working directory is loaded first, so secrets can
// live there during development. Variables already set in the environment win.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	session:
//	  secret: "${CONFADMIN_SESSION_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	session:
//	  ttl: "24h"
//	  idle_ttl: "30m"
//	webadmin:
//	  notice_ttl: "3s"
//	dashboard:
//	  refresh_interval: "30s"
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "127.0.0.1:8090"
//
// Backend:
//
//	backend:
//	  url: "https://cms.example.org"   # /api is appended
//	  timeout: "15s"
//
// Sessions:
//
//	database:
//	  path: "/var/lib/confadmin/sessions.db"
//	session:
//	  secret: "${CONFADMIN_SESSION_SECRET}"   # at least 32 characters
//	  max_workspaces: 256
//
// Tailscale (optional, serves the console only on the tailnet):
//
//	tailscale:
//	  enabled: true
//	  hostname: "confadmin"
//	  auth_key: "${TS_AUTHKEY}"
//	  https: true
//
// Logging:
//
//	logging:
//	  level: "info"    # debug, info, warn, error
//	  format: "text"   # text, json
package config
