// ABOUTME: Admin console package for the conference CMS
// ABOUTME: Provides browser sessions, CSRF protection, sign-in, and the console routes

package webadmin

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"

	"github.com/2389/confadmin/internal/auth"
	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/dashboard"
	"github.com/2389/confadmin/internal/editor"
	"github.com/2389/confadmin/internal/session"
	"github.com/2389/confadmin/internal/workspace"
)

const (
	// LoginPath is where the route guard sends visitors without a credential.
	LoginPath = "/admin/login"

	// DefaultCookieName is the browser session cookie used when none is configured.
	DefaultCookieName = "confadmin_session"

	// CSRFCookieName is the name of the CSRF token cookie
	CSRFCookieName = "confadmin_csrf"

	// CSRFFieldName is the form field carrying the CSRF token
	CSRFFieldName = "csrf_token"
)

// Config holds admin UI configuration
type Config struct {
	// BaseURL is the external URL of the console
	BaseURL string

	CookieName   string
	SecureCookie bool
	SessionTTL   time.Duration

	// CSRFKey is the 32-byte key CSRF tokens are derived from.
	CSRFKey        []byte
	TrustedOrigins []string

	NoticeTTL       time.Duration
	RefreshInterval time.Duration

	// IdleTTL and MaxWorkspaces bound the per-session workspaces kept in memory.
	IdleTTL       time.Duration
	MaxWorkspaces int
}

// Admin handles console routes and authentication
type Admin struct {
	client     *cms.Client
	tokens     session.Store
	gate       *auth.Gate
	dashboard  *dashboard.Service
	workspaces *workspace.Registry[*Workspace]

	panels    map[string]panel
	panelList []panel
	pageViews map[string]*template.Template
	partials  *template.Template

	config Config
	logger *slog.Logger
}

// New creates the console. client must attach credentials from tokens.
func New(client *cms.Client, tokens session.Store, cfg Config) *Admin {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = editor.DefaultNoticeTTL
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = dashboard.DefaultRefreshInterval
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}

	a := &Admin{
		client:    client,
		tokens:    tokens,
		gate:      auth.NewGate(tokens, client),
		dashboard: dashboard.NewService(client),
		panels:    make(map[string]panel),
		config:    cfg,
		logger:    slog.Default().With("component", "admin"),
	}

	a.workspaces = workspace.New[*Workspace](cfg.IdleTTL, cfg.MaxWorkspaces,
		workspace.WithEvict(func(id string, ws *Workspace) {
			ws.Close()
			a.logger.Debug("workspace released", "session", shortID(id))
		}),
	)

	a.panelList = buildPanels()
	for _, p := range a.panelList {
		a.panels[p.Key()] = p
	}
	a.pageViews, a.partials = parseTemplates()

	return a
}

// Close cleans up admin resources
func (a *Admin) Close() {
	a.workspaces.Close()
}

// RegisterRoutes registers all console routes on the given mux
func (a *Admin) RegisterRoutes(mux *http.ServeMux) {
	routes := http.NewServeMux()

	// Public routes (no credential required)
	routes.HandleFunc("GET /admin/login", a.handleLoginPage)
	routes.HandleFunc("POST /admin/login", a.handleLogin)
	routes.HandleFunc("GET /admin/register", a.handleRegisterPage)
	routes.HandleFunc("POST /admin/register", a.handleRegister)
	routes.HandleFunc("POST /admin/logout", a.handleLogout)

	// Shell pages
	for _, pg := range pages {
		if pg.Slug == dashboardSlug {
			routes.Handle("GET /admin/{$}", a.protectPage(a.handleDashboard))
			routes.Handle("GET /admin/dashboard", http.RedirectHandler("/admin/", http.StatusSeeOther))
			continue
		}
		routes.Handle("GET "+pg.Path(), a.protectPage(a.handlePage(pg)))
	}
	routes.Handle("GET /admin/dashboard/widgets", a.protect(a.handleDashboardWidgets))
	routes.Handle("DELETE /admin/notices/{id}", a.protect(a.handleDismissNotice))

	// Manager panels
	for _, p := range a.panelList {
		p.register(routes, a)
	}

	// Unknown console paths land on the dashboard.
	routes.Handle("GET /admin/", http.RedirectHandler("/admin/", http.StatusSeeOther))

	protect := csrf.Protect(a.config.CSRFKey,
		csrf.Secure(a.config.SecureCookie),
		csrf.Path("/admin"),
		csrf.CookieName(CSRFCookieName),
		csrf.FieldName(CSRFFieldName),
		csrf.MaxAge(int(a.config.SessionTTL.Seconds())),
		csrf.TrustedOrigins(a.config.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(a.handleCSRFFailure)),
	)

	mux.Handle("/admin/", a.withSession(protect(routes)))
	mux.Handle("GET /admin", http.RedirectHandler("/admin/", http.StatusSeeOther))

	a.logger.Info("admin routes registered", "pages", len(pages), "panels", len(a.panelList))
}

// withSession assigns every browser a session id cookie and scopes the
// request context to it.
func (a *Admin) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(a.config.CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, a.sessionCookie(r, id, int(a.config.SessionTTL.Seconds())))
		}

		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r.WithContext(session.WithID(r.Context(), id)))
	})
}

func (a *Admin) sessionCookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     a.config.CookieName,
		Value:    value,
		Path:     "/admin",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.config.SecureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}

// protect guards htmx fragments: only the presence of a credential is checked.
func (a *Admin) protect(h http.HandlerFunc) http.Handler {
	return auth.RequireToken(a.tokens, LoginPath)(h)
}

// protectPage guards full pages and resolves the operator before rendering.
func (a *Admin) protectPage(h http.HandlerFunc) http.Handler {
	return auth.RequireToken(a.tokens, LoginPath, "admin")(a.gate.Attach(h))
}

// workspace returns the caller's workspace, creating it on first use.
func (a *Admin) workspace(r *http.Request) *Workspace {
	id, _ := session.IDFromContext(r.Context())
	ws, created := a.workspaces.GetOrCreate(id, func() *Workspace {
		return NewWorkspace(a.client, a.config.NoticeTTL)
	})
	if created {
		a.logger.Debug("workspace created", "session", shortID(id))
	}
	return ws
}

// mount makes pg the active page, unmounting every panel it does not show.
func (a *Admin) mount(ws *Workspace, pg page) {
	if !ws.swapActive(pg.Slug) {
		return
	}
	keep := make(map[string]bool, len(pg.Panels))
	for _, key := range pg.Panels {
		keep[key] = true
	}
	for _, p := range a.panelList {
		if !keep[p.Key()] {
			p.unmount(ws)
		}
	}
}

func (a *Admin) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	a.logger.Warn("csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, "Forbidden - invalid request, reload the page and try again", http.StatusForbidden)
}

// handleLoginPage renders the login page
func (a *Admin) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// Already holding a credential: go straight to the console
	if session.Has(r.Context(), a.tokens) {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	a.renderAuthPage(w, r, "login.html", authPageData{Title: "Admin Login"})
}

// handleLogin exchanges email and password for a credential
func (a *Admin) handleLogin(w http.ResponseWriter, r *http.Request) {
	data := authPageData{Title: "Admin Login"}

	if err := r.ParseForm(); err != nil {
		data.Error = "Invalid form data"
		a.renderAuthPage(w, r, "login.html", data)
		return
	}

	data.Email = r.FormValue("email")
	password := r.FormValue("password")
	if data.Email == "" || password == "" {
		data.Error = "Email and password required"
		a.renderAuthPage(w, r, "login.html", data)
		return
	}

	state, err := a.gate.SignIn(r.Context(), data.Email, password)
	if err != nil {
		var apiErr *cms.APIError
		if !errors.As(err, &apiErr) {
			a.logger.Error("login request failed", "error", err)
		}
		data.Error = cms.Reason(err, "Login failed")
		a.renderAuthPage(w, r, "login.html", data)
		return
	}

	if state.Authenticated {
		a.logger.Info("operator signed in", "user", state.User.DisplayName())
	} else {
		a.logger.Warn("credential stored but operator could not be confirmed")
	}

	a.workspaces.Drop(sessionID(r))
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// handleRegisterPage renders the registration page
func (a *Admin) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	a.renderAuthPage(w, r, "register.html", authPageData{Title: "Admin Register"})
}

// handleRegister creates an account; the operator signs in afterwards.
func (a *Admin) handleRegister(w http.ResponseWriter, r *http.Request) {
	data := authPageData{Title: "Admin Register"}

	if err := r.ParseForm(); err != nil {
		data.Error = "Invalid form data"
		a.renderAuthPage(w, r, "register.html", data)
		return
	}

	data.Username = r.FormValue("username")
	data.Email = r.FormValue("email")
	password := r.FormValue("password")
	if data.Username == "" || data.Email == "" || password == "" {
		data.Error = "Username, email and password required"
		a.renderAuthPage(w, r, "register.html", data)
		return
	}

	if err := a.gate.Register(r.Context(), data.Username, data.Email, password); err != nil {
		a.logger.Warn("registration failed", "username", data.Username, "error", err)
		data.Error = cms.Reason(err, "Registration failed")
		a.renderAuthPage(w, r, "register.html", data)
		return
	}

	a.logger.Info("operator registered", "username", data.Username)
	a.renderAuthPage(w, r, "login.html", authPageData{
		Title:   "Admin Login",
		Email:   data.Email,
		Success: "Admin registered successfully! You can now log in.",
	})
}

// handleLogout clears the credential, drops the workspace, and navigates to login
func (a *Admin) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.gate.Logout(r.Context()); err != nil {
		a.logger.Error("failed to clear credential", "error", err)
	}
	a.workspaces.Drop(sessionID(r))

	// Rotate the browser session so nothing of the old one survives
	http.SetCookie(w, a.sessionCookie(r, "", -1))

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", LoginPath)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func (a *Admin) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	a.workspace(r).Notices.Dismiss(r.PathValue("id"))
	w.WriteHeader(http.StatusOK)
}

func sessionID(r *http.Request) string {
	id, _ := session.IDFromContext(r.Context())
	return id
}

// shortID trims a session id for logs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
