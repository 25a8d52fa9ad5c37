// ABOUTME: Template rendering functions for the console
// ABOUTME: Parses embedded pages and partials once and renders shells, auth pages and widgets

package webadmin

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/2389/confadmin/internal/auth"
	"github.com/2389/confadmin/internal/content"
	"github.com/2389/confadmin/internal/dashboard"
	"github.com/2389/confadmin/internal/editor"
)

// pageFiles are the full-page templates, each rendered inside base.html.
var pageFiles = []string{"login.html", "register.html", "page.html", "dashboard.html"}

// md renders operator-entered markdown previews. Raw HTML is not passed through.
var md = goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()))

// Template data types
type authPageData struct {
	Title     string
	Error     string
	Success   string
	Email     string
	Username  string
	CSRFField template.HTML
	CSRFToken string
}

type navLink struct {
	Title  string
	Path   string
	Active bool
}

type panelSlot struct {
	Key   string
	Title string
	Base  string
}

// rowRef addresses one listed item from inside a range.
type rowRef struct {
	Base string
	ID   string
}

type noticeData struct {
	Notices []editor.Notice
	OOB     bool
	TTL     time.Duration
}

type shellData struct {
	Title         string
	Nav           []navLink
	User          *content.User
	Authenticated bool
	ExpiresIn     string
	CSRFToken     string
	Notices       noticeData
	Panels        []panelSlot
}

type dashboardPageData struct {
	shellData
	RefreshSeconds int
}

type visitorBar struct {
	Name    string
	Count   string
	Percent float64
}

type registrationShare struct {
	Name    string
	Count   string
	Percent float64
}

type widgetsData struct {
	Snapshot      dashboard.Snapshot
	Bars          []visitorBar
	Shares        []registrationShare
	Registrations string
	UpdatedAt     string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": renderMarkdown,
		"count":    dashboard.Count,
		"field":    field,
		"add":      func(a, b int) int { return a + b },
		"ago": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return humanize.Time(*t)
		},
		"orderLabel": func(n *int) string {
			if n == nil {
				return "unordered"
			}
			return fmt.Sprintf("#%d", *n)
		},
		"row":      func(base, id string) rowRef { return rowRef{Base: base, ID: id} },
		"imageSrc": imageSrc,
		"millis":   func(d time.Duration) int64 { return d.Milliseconds() },
		"percent":  func(f float64) string { return fmt.Sprintf("%.0f%%", f) },
	}
}

func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	// #nosec G203 -- goldmark escapes raw HTML unless WithUnsafe is set
	return template.HTML(buf.String())
}

// imageSrc admits image previews: inline image uploads and http(s) or
// site-relative backend URLs.
func imageSrc(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"),
		strings.HasPrefix(s, "/"):
		// #nosec G203 -- limited to image data and http(s) URLs above
		return template.URL(s)
	}
	return ""
}

// parseTemplates loads every page and the shared partials from templateFS.
func parseTemplates() (map[string]*template.Template, *template.Template) {
	partials := template.Must(template.New("partials").Funcs(templateFuncs()).
		ParseFS(templateFS, "templates/partials/*.html"))

	pageViews := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		pageViews[name] = template.Must(template.New("base.html").Funcs(templateFuncs()).
			ParseFS(templateFS, "templates/base.html", "templates/partials/*.html", "templates/"+name))
	}
	return pageViews, partials
}

func (a *Admin) renderPage(w http.ResponseWriter, name string, data any) {
	tmpl, ok := a.pageViews[name]
	if !ok {
		a.logger.Error("unknown page template", "template", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		a.logger.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// renderAuthPage renders the login or registration page
func (a *Admin) renderAuthPage(w http.ResponseWriter, r *http.Request, name string, data authPageData) {
	data.CSRFField = csrf.TemplateField(r)
	data.CSRFToken = csrf.Token(r)
	a.renderPage(w, name, data)
}

func (a *Admin) noticeData(ws *Workspace, oob bool) noticeData {
	return noticeData{Notices: ws.Notices.Active(), OOB: oob, TTL: ws.Notices.TTL()}
}

// shell builds the layout data shared by every console page.
func (a *Admin) shell(r *http.Request, ws *Workspace, pg page) shellData {
	state := auth.FromContext(r.Context())

	d := shellData{
		Title:         pg.Title,
		User:          state.User,
		Authenticated: state.Authenticated,
		CSRFToken:     csrf.Token(r),
		Notices:       a.noticeData(ws, false),
	}
	if state.Claims != nil && !state.Claims.ExpiresAt.IsZero() {
		d.ExpiresIn = humanize.Time(state.Claims.ExpiresAt)
	}
	for _, p := range pages {
		d.Nav = append(d.Nav, navLink{Title: p.Title, Path: p.Path(), Active: p.Slug == pg.Slug})
	}
	for _, key := range pg.Panels {
		if p, ok := a.panels[key]; ok {
			d.Panels = append(d.Panels, panelSlot{Key: key, Title: p.Title(), Base: panelPrefix + key})
		}
	}
	return d
}

// handlePage mounts pg and renders its shell. Panels load themselves.
func (a *Admin) handlePage(pg page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := a.workspace(r)
		a.mount(ws, pg)
		a.renderPage(w, "page.html", a.shell(r, ws, pg))
	}
}

func (a *Admin) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ws := a.workspace(r)
	a.mount(ws, pages[0])
	a.renderPage(w, "dashboard.html", dashboardPageData{
		shellData:      a.shell(r, ws, pages[0]),
		RefreshSeconds: int(a.config.RefreshInterval.Seconds()),
	})
}

// handleDashboardWidgets renders one refresh of the dashboard widgets.
func (a *Admin) handleDashboardWidgets(w http.ResponseWriter, r *http.Request) {
	snap := a.dashboard.Fetch(r.Context())

	var buf bytes.Buffer
	if err := a.partials.ExecuteTemplate(&buf, "dashboard-widgets", buildWidgets(snap)); err != nil {
		a.logger.Error("failed to render dashboard widgets", "error", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func buildWidgets(snap dashboard.Snapshot) widgetsData {
	d := widgetsData{Snapshot: snap, UpdatedAt: snap.FetchedAt.Format("15:04:05")}

	peak := 0
	for _, p := range snap.Visitors.Data {
		peak = max(peak, p.Visitors)
	}
	for _, p := range snap.Visitors.Data {
		d.Bars = append(d.Bars, visitorBar{
			Name:    p.Name,
			Count:   dashboard.Count(p.Visitors),
			Percent: dashboard.Share(p.Visitors, peak),
		})
	}

	total := dashboard.TotalRegistrations(snap.RegistrationTypes.Data)
	d.Registrations = dashboard.Count(total)
	for _, t := range snap.RegistrationTypes.Data {
		d.Shares = append(d.Shares, registrationShare{
			Name:    t.Name,
			Count:   dashboard.Count(t.Value),
			Percent: dashboard.Share(t.Value, total),
		})
	}
	return d
}
