// ABOUTME: Tests for confadmin-ctl commands against an in-memory backend
// ABOUTME: Covers config loading, sign in, listing and quick edits

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/confadmin/internal/content"
	"github.com/2389/confadmin/internal/session"
)

const testPassword = "hunter2"

type fakeBackend struct {
	mu            sync.Mutex
	token         string
	speakers      []content.Speaker
	announcements []content.Announcement
	statsDown     bool
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-only"))
	require.NoError(t, err)

	one := 1
	f := &fakeBackend{
		token: token,
		speakers: []content.Speaker{
			{ID: "s2", Name: "Grace", Title: "Keynote"},
			{ID: "s1", Name: "Ada", Title: "Opening", Order: &one},
		},
	}

	guard := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+f.token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
				return
			}
			h(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": f.token})
	})
	mux.HandleFunc("GET /api/auth/me", guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, content.User{ID: "u1", Username: "ada", Email: "ada@example.com", Role: "admin"})
	}))
	mux.HandleFunc("GET /api/speakers", guard(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.speakers)
	}))
	mux.HandleFunc("PATCH /api/speakers/{id}/toggle-blog", guard(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.speakers {
			if f.speakers[i].ID == r.PathValue("id") {
				f.speakers[i].BlogVisible = !f.speakers[i].BlogVisible
				writeJSON(w, http.StatusOK, map[string]any{"speaker": f.speakers[i]})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Speaker not found"})
	}))
	mux.HandleFunc("POST /api/announcements", guard(func(w http.ResponseWriter, r *http.Request) {
		var a content.Announcement
		_ = json.NewDecoder(r.Body).Decode(&a)
		f.mu.Lock()
		defer f.mu.Unlock()
		a.ID = "a1"
		f.announcements = append(f.announcements, a)
		writeJSON(w, http.StatusCreated, a)
	}))
	mux.HandleFunc("GET /api/important-dates", guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []content.ImportantDate{
			{ID: "d1", Title: "Paper deadline", Date: "2026-03-01", DateRange: []string{}},
			{ID: "d2", Title: "Conference", DateRange: []string{"Jun 1", "Jun 3"}},
			{ID: "d3", Title: "Camera ready", Date: "2026-04-15T00:00:00.000Z"},
			{ID: "d4", Title: "Workshops", Date: "Late summer"},
		})
	}))
	mux.HandleFunc("GET /api/dashboard/stats", guard(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		down := f.statsDown
		f.mu.Unlock()
		if down {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			return
		}
		writeJSON(w, http.StatusOK, content.Stats{TotalVisitors: 12500, TotalRegistrations: 40, ActiveUsers: 3})
	}))
	mux.HandleFunc("GET /api/dashboard/visitors", guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []content.VisitorPoint{{Name: "Mon", Visitors: 10}})
	}))
	mux.HandleFunc("GET /api/dashboard/registration-types", guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []content.RegistrationType{{Name: "Student", Value: 30}, {Name: "Industry", Value: 10}})
	}))
	mux.HandleFunc("GET /api/dashboard/activity", guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []content.Activity{})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func testApp(t *testing.T, backendURL, input string) (*app, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	t.Setenv(session.TokenEnvVar, "")
	t.Setenv(PasswordEnvVar, "")

	var out bytes.Buffer
	cfg := &Config{
		Backend: BackendConfig{URL: backendURL},
		Auth:    AuthConfig{TokenFile: filepath.Join(t.TempDir(), "token")},
	}
	cfg.applyDefaults()
	return newApp(cfg, strings.NewReader(input), &out), &out
}

func signIn(t *testing.T, a *app) {
	t.Helper()
	require.NoError(t, a.run(context.Background(), "login", []string{"-email", "ada@example.com"}))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(BackendEnvVar, "")
	t.Setenv("CMS_HOST", "cms.example.org")

	path := filepath.Join(t.TempDir(), "ctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[backend]
url = "https://${CMS_HOST}"
timeout = "5s"

[auth]
email = "ada@example.com"

[dashboard]
interval = "1m"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cms.example.org", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout.Duration)
	assert.Equal(t, "ada@example.com", cfg.Auth.Email)
	assert.Equal(t, time.Minute, cfg.Dashboard.Interval.Duration)
	assert.NotEmpty(t, cfg.Auth.TokenFile)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(BackendEnvVar, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultBackendURL, cfg.Backend.URL)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv(BackendEnvVar, "http://override:9000")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.Backend.URL)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv(BackendEnvVar, "")
	dir := t.TempDir()

	cases := map[string]string{
		"scheme":   "[backend]\nurl = \"ftp://cms\"\n",
		"duration": "[backend]\ntimeout = \"soon\"\n",
		"negative": "[dashboard]\ninterval = \"-1s\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoginStoresCredential(t *testing.T) {
	f, srv := newFakeBackend(t)
	a, out := testApp(t, srv.URL, testPassword+"\n")

	signIn(t, a)
	assert.Contains(t, out.String(), "Signed in as ada")

	data, err := os.ReadFile(a.cfg.Auth.TokenFile)
	require.NoError(t, err)
	assert.Equal(t, f.token, strings.TrimSpace(string(data)))

	info, err := os.Stat(a.cfg.Auth.TokenFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoginRejected(t *testing.T) {
	_, srv := newFakeBackend(t)
	a, _ := testApp(t, srv.URL, "wrong\n")

	err := a.run(context.Background(), "login", []string{"-email", "ada@example.com"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	_, statErr := os.Stat(a.cfg.Auth.TokenFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoginPasswordFromEnv(t *testing.T) {
	_, srv := newFakeBackend(t)
	a, _ := testApp(t, srv.URL, "")
	t.Setenv(PasswordEnvVar, testPassword)

	signIn(t, a)
}

func TestWhoamiAndLogout(t *testing.T) {
	_, srv := newFakeBackend(t)
	a, out := testApp(t, srv.URL, testPassword+"\n")

	require.Error(t, a.run(context.Background(), "whoami", nil))

	signIn(t, a)
	out.Reset()
	require.NoError(t, a.run(context.Background(), "whoami", nil))
	assert.Contains(t, out.String(), "ada@example.com")
	assert.Contains(t, out.String(), "admin")
	assert.Contains(t, out.String(), "from now")

	require.NoError(t, a.run(context.Background(), "logout", nil))
	require.Error(t, a.run(context.Background(), "whoami", nil))
}

func TestSpeakersListedInOrder(t *testing.T) {
	_, srv := newFakeBackend(t)
	a, out := testApp(t, srv.URL, testPassword+"\n")
	signIn(t, a)
	out.Reset()

	require.NoError(t, a.run(context.Background(), "speakers", nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Ada")
	assert.Contains(t, lines[2], "Grace")
	assert.Contains(t, lines[2], "hidden")
}

func TestToggleBlog(t *testing.T) {
	f, srv := newFakeBackend(t)
	a, out := testApp(t, srv.URL, testPassword+"\n")
	signIn(t, a)
	out.Reset()

	require.NoError(t, a.run(context.Background(), "toggle-blog", []string{"s1"}))
	assert.Contains(t, out.String(), "Blog for Ada is now visible")

	f.mu.Lock()
	visible := f.speakers[1].BlogVisible
	f.mu.Unlock()
	assert.True(t, visible)

	err := a.run(context.Background(), "toggle-blog", []string{"missing"})
	require.Error(t, err)
	assert.Equal(t, "Speaker not found", err.Error())

	require.Error(t, a.run(context.Background(), "toggle-blog", nil))
}

func TestAnnounce(t *testing.T) {
	f, srv := newFakeBackend(t)
	a, out := testApp(t, srv.URL, testPassword+"\n")
	signIn(t, a)
	out.Reset()

	require.Error(t, a.run(context.Background(), "announce", []string{"  "}), "blank message is rejected locally")

	require.NoError(t, a.run(context.Background(), "announce", []string{"Doors", "open", "at", "9"}))
	assert.Contains(t, out.String(), "Announcement created")

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.announcements, 1)
	assert.Equal(t, "Doors open at 9", f.announcements[0].Message)
}

func TestDates(t *testing.T) {
	_, srv := newFakeBackend(t)
	a, out := testApp(t, srv.URL, testPassword+"\n")
	signIn(t, a)
	out.Reset()

	require.NoError(t, a.run(context.Background(), "dates", nil))
	assert.Contains(t, out.String(), "Mar 1, 2026")
	assert.Contains(t, out.String(), "Jun 1 - Jun 3")
	assert.Contains(t, out.String(), "Apr 15, 2026")
	assert.Contains(t, out.String(), "Late summer")
}

func TestDateLabel(t *testing.T) {
	assert.Equal(t, "Mar 1, 2026", dateLabel("2026-03-01"))
	assert.Equal(t, "Apr 15, 2026", dateLabel("2026-04-15T00:00:00.000Z"))
	assert.Equal(t, "TBA", dateLabel("TBA"))
	assert.Empty(t, dateLabel(""))
}

func TestDashboard(t *testing.T) {
	f, srv := newFakeBackend(t)
	a, out := testApp(t, srv.URL, testPassword+"\n")
	signIn(t, a)
	out.Reset()

	require.NoError(t, a.run(context.Background(), "dashboard", nil))
	assert.Contains(t, out.String(), "12,500")
	assert.Contains(t, out.String(), "75%")
	assert.Contains(t, out.String(), "40 total")
	assert.Contains(t, out.String(), "nothing yet")

	f.mu.Lock()
	f.statsDown = true
	f.mu.Unlock()
	out.Reset()

	require.NoError(t, a.run(context.Background(), "dashboard", nil), "one failed widget is not a command failure")
	assert.Contains(t, out.String(), "unavailable")
	assert.Contains(t, out.String(), "Mon")
}

func TestDashboardWatchStopsOnCancel(t *testing.T) {
	_, srv := newFakeBackend(t)
	a, out := testApp(t, srv.URL, testPassword+"\n")
	signIn(t, a)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	require.NoError(t, a.run(ctx, "dashboard", []string{"-watch", "-interval", "50ms"}))
	assert.Contains(t, out.String(), "refreshing every 50ms")
}

func TestUnauthenticatedCommandFails(t *testing.T) {
	_, srv := newFakeBackend(t)
	a, _ := testApp(t, srv.URL, "")

	require.Error(t, a.run(context.Background(), "speakers", nil))
}

func TestUnknownCommand(t *testing.T) {
	a, _ := testApp(t, "http://127.0.0.1:1", "")
	err := a.run(context.Background(), "frobnicate", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
