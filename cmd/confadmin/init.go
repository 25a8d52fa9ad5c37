// ABOUTME: Interactive config file generator for confadmin init
// ABOUTME: Prompts for each setting and writes admin.yaml with a fresh session secret

package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389/confadmin/internal/config"
)

// initAnswers are the values collected by runInit.
type initAnswers struct {
	HTTPAddr   string
	BackendURL string
	DBPath     string
	Secret     string

	Tailscale bool
	Hostname  string
	AuthKey   string
	Ephemeral bool
	Funnel    bool

	LogLevel  string
	LogFormat string
}

// defaultDataPath returns $XDG_DATA_HOME/confadmin or ~/.local/share/confadmin.
func defaultDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "confadmin")
}

func newSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("confadmin configuration setup")
	fmt.Println("=============================")
	fmt.Println()

	outputFile := prompt(reader, "Config file path", config.DefaultPath())
	if _, err := os.Stat(outputFile); err == nil {
		if !yes(prompt(reader, "File exists. Overwrite?", "no")) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	secret, err := newSecret()
	if err != nil {
		return err
	}
	a := initAnswers{Secret: secret}

	fmt.Println("\n--- Backend ---")
	a.BackendURL = prompt(reader, "CMS backend URL", "http://localhost:5000")

	fmt.Println("\n--- Server ---")
	a.HTTPAddr = prompt(reader, "HTTP address", config.DefaultHTTPAddr)
	a.DBPath = prompt(reader, "Session database path", filepath.Join(defaultDataPath(), "sessions.db"))

	fmt.Println("\n--- Tailscale ---")
	a.Tailscale = yes(prompt(reader, "Enable Tailscale?", "no"))
	if a.Tailscale {
		a.Hostname = prompt(reader, "Tailscale hostname", "confadmin")
		a.AuthKey = prompt(reader, "Tailscale auth key (leave empty to use TS_AUTHKEY)", "")
		a.Ephemeral = yes(prompt(reader, "Ephemeral node?", "no"))
		a.Funnel = yes(prompt(reader, "Enable Funnel (public HTTPS)?", "no"))
	}

	fmt.Println("\n--- Logging ---")
	a.LogLevel = prompt(reader, "Log level (debug/info/warn/error)", "info")
	a.LogFormat = prompt(reader, "Log format (text/json)", "text")

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	// The file holds the session secret.
	if err := os.WriteFile(outputFile, []byte(renderConfig(a)), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nTo start the console:")
	fmt.Println("  confadmin serve")
	return nil
}

// renderConfig produces the YAML document for a.
func renderConfig(a initAnswers) string {
	var b strings.Builder
	b.WriteString("# confadmin configuration\n")
	b.WriteString("# Generated by confadmin init\n\n")

	b.WriteString("server:\n")
	if !a.Tailscale {
		fmt.Fprintf(&b, "  http_addr: %q\n", a.HTTPAddr)
	}
	b.WriteString("\n")

	b.WriteString("backend:\n")
	fmt.Fprintf(&b, "  url: %q\n", a.BackendURL)
	fmt.Fprintf(&b, "  timeout: %q\n\n", config.DefaultBackendTimeout.String())

	b.WriteString("database:\n")
	fmt.Fprintf(&b, "  path: %q\n\n", a.DBPath)

	b.WriteString("session:\n")
	fmt.Fprintf(&b, "  secret: %q\n", a.Secret)
	fmt.Fprintf(&b, "  ttl: %q\n", config.DefaultSessionTTL.String())
	fmt.Fprintf(&b, "  secure_cookie: %t\n\n", a.Funnel)

	b.WriteString("tailscale:\n")
	fmt.Fprintf(&b, "  enabled: %t\n", a.Tailscale)
	if a.Tailscale {
		fmt.Fprintf(&b, "  hostname: %q\n", a.Hostname)
		if a.AuthKey != "" {
			fmt.Fprintf(&b, "  auth_key: %q\n", a.AuthKey)
		}
		fmt.Fprintf(&b, "  ephemeral: %t\n", a.Ephemeral)
		fmt.Fprintf(&b, "  funnel: %t\n", a.Funnel)
	}
	b.WriteString("\n")

	b.WriteString("dashboard:\n")
	fmt.Fprintf(&b, "  refresh_interval: %q\n\n", config.DefaultRefreshInterval.String())

	b.WriteString("logging:\n")
	fmt.Fprintf(&b, "  level: %q\n", a.LogLevel)
	fmt.Fprintf(&b, "  format: %q\n", a.LogFormat)
	return b.String()
}

func yes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}
