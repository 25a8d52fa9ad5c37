// ABOUTME: Generic htmx panels binding editors to routes and partial templates
// ABOUTME: Every mutation re-renders the panel plus notices out of band

package webadmin

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/2389/confadmin/internal/content"
	"github.com/2389/confadmin/internal/editor"
)

// panelPrefix roots every panel route.
const panelPrefix = "/admin/panels/"

var errUnknownOp = errors.New("unknown draft operation")

// panelData is what every panel template receives.
type panelData struct {
	Key   string
	Title string
	Base  string
	Ready bool
	View  any
	OOB   bool

	// Parent is set on the navbar children panel.
	Parent *content.NavbarItem
}

// panel is one manager rendered as an htmx fragment.
type panel interface {
	Key() string
	Title() string
	register(mux *http.ServeMux, a *Admin)
	data(ws *Workspace) panelData
	template() string
	unmount(ws *Workspace)
}

// panelFunc runs one operation and names the panels to re-render out of
// band alongside the panel that handled it.
type panelFunc func(r *http.Request, ws *Workspace) (also []string, err error)

// draftOp is a named nested edit on the open draft.
type draftOp[T any] struct {
	apply func(v T, f form, i, j int) T
	// removes marks ops that drop the nested entry at i, so focus is re-resolved.
	removes bool
	// focus, when set, picks the nested entry to open afterwards.
	focus func(v T) int
}

// itemAction is an extra operation on one listed item.
type itemAction func(ctx context.Context, ws *Workspace, id string) error

// collectionPanel serves an Editor over a list resource.
type collectionPanel[T any] struct {
	key, title, tmpl string

	editor  func(ws *Workspace) *editor.Editor[T]
	bind    func(v T, f form) (T, error)
	ops     map[string]draftOp[T]
	actions map[string]itemAction

	// tidy normalizes the draft once submitted fields and the draft op
	// have both been applied.
	tidy func(v T) T

	// after runs once a save or delete succeeded.
	after func(ctx context.Context, ws *Workspace)
	also  []string
	extra func(ws *Workspace, pd *panelData)
	close func(ws *Workspace)
}

func (p *collectionPanel[T]) Key() string      { return p.key }
func (p *collectionPanel[T]) Title() string    { return p.title }
func (p *collectionPanel[T]) template() string { return p.tmpl }

func (p *collectionPanel[T]) register(mux *http.ServeMux, a *Admin) {
	base := panelPrefix + p.key

	mux.Handle("GET "+base, a.panelHandler(p, p.show))
	mux.Handle("POST "+base+"/new", a.panelHandler(p, p.create))
	mux.Handle("POST "+base+"/items/{id}/edit", a.panelHandler(p, p.edit))
	mux.Handle("POST "+base+"/items/{id}/delete", a.panelHandler(p, p.requestDelete))
	for name, act := range p.actions {
		mux.Handle("POST "+base+"/items/{id}/"+name, a.panelHandler(p, p.action(act)))
	}
	mux.Handle("POST "+base+"/draft/{op}", a.panelHandler(p, p.draft))
	mux.Handle("POST "+base+"/save", a.panelHandler(p, p.save))
	mux.Handle("POST "+base+"/cancel", a.panelHandler(p, p.cancel))
	mux.Handle("POST "+base+"/delete/confirm", a.panelHandler(p, p.confirmDelete))
	mux.Handle("POST "+base+"/delete/cancel", a.panelHandler(p, p.cancelDelete))
}

func (p *collectionPanel[T]) data(ws *Workspace) panelData {
	ed := p.editor(ws)
	pd := panelData{Key: p.key, Title: p.title, Base: panelPrefix + p.key, Ready: ed != nil}
	if ed != nil {
		pd.View = ed.Snapshot()
	}
	if p.extra != nil {
		p.extra(ws, &pd)
	}
	return pd
}

func (p *collectionPanel[T]) unmount(ws *Workspace) {
	if p.close != nil {
		p.close(ws)
		return
	}
	if ed := p.editor(ws); ed != nil {
		ed.Unmount()
	}
}

func (p *collectionPanel[T]) show(r *http.Request, ws *Workspace) ([]string, error) {
	ed := p.editor(ws)
	if ed == nil {
		return nil, nil
	}
	// Load reports its own failure as a notice.
	_ = ed.Load(r.Context())
	return nil, nil
}

func (p *collectionPanel[T]) create(r *http.Request, ws *Workspace) ([]string, error) {
	if ed := p.editor(ws); ed != nil {
		ed.BeginCreate()
	}
	return nil, nil
}

func (p *collectionPanel[T]) edit(r *http.Request, ws *Workspace) ([]string, error) {
	ed := p.editor(ws)
	if ed == nil {
		return nil, nil
	}
	return nil, ed.BeginEdit(r.PathValue("id"))
}

func (p *collectionPanel[T]) requestDelete(r *http.Request, ws *Workspace) ([]string, error) {
	ed := p.editor(ws)
	if ed == nil {
		return nil, nil
	}
	return nil, ed.RequestDelete(r.PathValue("id"))
}

func (p *collectionPanel[T]) action(act itemAction) panelFunc {
	return func(r *http.Request, ws *Workspace) ([]string, error) {
		if err := act(r.Context(), ws, r.PathValue("id")); err != nil {
			return nil, err
		}
		return p.also, nil
	}
}

// bindDraft copies submitted fields into the open draft.
func (p *collectionPanel[T]) bindDraft(ws *Workspace, ed *editor.Editor[T], f form) error {
	if p.bind == nil {
		return nil
	}
	var bindErr error
	err := ed.Mutate(func(v T) T {
		out, err := p.bind(v, f)
		if err != nil {
			bindErr = err
			return v
		}
		return out
	})
	if err != nil {
		return err
	}
	if bindErr != nil {
		ws.Notices.Error("Could not read the submitted file")
		return bindErr
	}
	return nil
}

func (p *collectionPanel[T]) draft(r *http.Request, ws *Workspace) ([]string, error) {
	ed := p.editor(ws)
	if ed == nil {
		return nil, nil
	}
	f := form{r}
	if err := p.bindDraft(ws, ed, f); err != nil {
		return nil, err
	}
	if err := p.applyOp(ed, r.PathValue("op"), f); err != nil {
		return nil, err
	}
	return nil, p.tidyDraft(ed)
}

// applyOp runs the named draft op with the indices the form was rendered with.
func (p *collectionPanel[T]) applyOp(ed *editor.Editor[T], name string, f form) error {
	i, j := f.index("index"), f.index("sub")
	switch name {
	case "sync":
		return nil
	case "focus":
		return ed.SetFocus(i)
	}

	op, ok := p.ops[name]
	if !ok {
		return errUnknownOp
	}
	apply := func(v T) T { return op.apply(v, f, i, j) }
	if op.removes {
		return ed.MutateRemoving(i, apply)
	}
	if err := ed.Mutate(apply); err != nil {
		return err
	}
	if op.focus != nil {
		d, err := ed.Draft()
		if err != nil {
			return err
		}
		return ed.SetFocus(op.focus(d))
	}
	return nil
}

func (p *collectionPanel[T]) tidyDraft(ed *editor.Editor[T]) error {
	if p.tidy == nil {
		return nil
	}
	return ed.Mutate(p.tidy)
}

func (p *collectionPanel[T]) save(r *http.Request, ws *Workspace) ([]string, error) {
	ed := p.editor(ws)
	if ed == nil {
		return nil, nil
	}
	if err := p.bindDraft(ws, ed, form{r}); err != nil {
		return nil, err
	}
	if err := p.tidyDraft(ed); err != nil {
		return nil, err
	}
	if _, err := ed.Save(r.Context()); err != nil {
		return nil, err
	}
	if p.after != nil {
		p.after(r.Context(), ws)
	}
	return p.also, nil
}

func (p *collectionPanel[T]) cancel(r *http.Request, ws *Workspace) ([]string, error) {
	if ed := p.editor(ws); ed != nil {
		ed.Cancel()
	}
	return nil, nil
}

func (p *collectionPanel[T]) confirmDelete(r *http.Request, ws *Workspace) ([]string, error) {
	ed := p.editor(ws)
	if ed == nil {
		return nil, nil
	}
	if err := ed.ConfirmDelete(r.Context()); err != nil {
		return nil, err
	}
	if p.after != nil {
		p.after(r.Context(), ws)
	}
	return p.also, nil
}

func (p *collectionPanel[T]) cancelDelete(r *http.Request, ws *Workspace) ([]string, error) {
	if ed := p.editor(ws); ed != nil {
		ed.CancelDelete()
	}
	return nil, nil
}

// documentPanel serves a Document over a singleton resource.
type documentPanel[T any] struct {
	key, title, tmpl string

	doc  func(ws *Workspace) *editor.Document[T]
	bind func(v T, f form) (T, error)
	ops  map[string]draftOp[T]
}

func (p *documentPanel[T]) Key() string      { return p.key }
func (p *documentPanel[T]) Title() string    { return p.title }
func (p *documentPanel[T]) template() string { return p.tmpl }

func (p *documentPanel[T]) register(mux *http.ServeMux, a *Admin) {
	base := panelPrefix + p.key

	mux.Handle("GET "+base, a.panelHandler(p, p.show))
	mux.Handle("POST "+base+"/draft/{op}", a.panelHandler(p, p.draft))
	mux.Handle("POST "+base+"/save", a.panelHandler(p, p.save))
	mux.Handle("POST "+base+"/reset", a.panelHandler(p, p.reset))
}

func (p *documentPanel[T]) data(ws *Workspace) panelData {
	return panelData{
		Key:   p.key,
		Title: p.title,
		Base:  panelPrefix + p.key,
		Ready: true,
		View:  p.doc(ws).Snapshot(),
	}
}

func (p *documentPanel[T]) unmount(ws *Workspace) {
	p.doc(ws).Unmount()
}

func (p *documentPanel[T]) show(r *http.Request, ws *Workspace) ([]string, error) {
	_ = p.doc(ws).Load(r.Context())
	return nil, nil
}

func (p *documentPanel[T]) bindDraft(ws *Workspace, f form) error {
	if p.bind == nil {
		return nil
	}
	var bindErr error
	p.doc(ws).Mutate(func(v T) T {
		out, err := p.bind(v, f)
		if err != nil {
			bindErr = err
			return v
		}
		return out
	})
	if bindErr != nil {
		ws.Notices.Error("Could not read the submitted file")
	}
	return bindErr
}

func (p *documentPanel[T]) draft(r *http.Request, ws *Workspace) ([]string, error) {
	f := form{r}
	if err := p.bindDraft(ws, f); err != nil {
		return nil, err
	}
	name := r.PathValue("op")
	if name == "sync" {
		return nil, nil
	}
	op, ok := p.ops[name]
	if !ok {
		return nil, errUnknownOp
	}
	i, j := f.index("index"), f.index("sub")
	p.doc(ws).Mutate(func(v T) T { return op.apply(v, f, i, j) })
	return nil, nil
}

func (p *documentPanel[T]) save(r *http.Request, ws *Workspace) ([]string, error) {
	if err := p.bindDraft(ws, form{r}); err != nil {
		return nil, err
	}
	_, err := p.doc(ws).Save(r.Context())
	return nil, err
}

func (p *documentPanel[T]) reset(r *http.Request, ws *Workspace) ([]string, error) {
	p.doc(ws).Reset()
	return nil, nil
}

// panelHandler parses the submission, runs fn against the caller's
// workspace, and renders the result.
func (a *Admin) panelHandler(p panel, fn panelFunc) http.Handler {
	return a.protect(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			if err := parseForm(r); err != nil {
				a.logger.Warn("rejecting unreadable form", "panel", p.Key(), "error", err)
				http.Error(w, "invalid form data", http.StatusBadRequest)
				return
			}
		}

		ws := a.workspace(r)
		also, err := fn(r, ws)
		if errors.Is(err, errUnknownOp) {
			http.NotFound(w, r)
			return
		}
		a.report(ws, p.Key(), err)
		a.renderPanels(w, ws, p, also...)
	})
}

// report surfaces failures the editors do not announce themselves.
func (a *Admin) report(ws *Workspace, key string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, editor.ErrBusy):
		ws.Notices.Add(editor.LevelInfo, "A request for this item is still in progress")
	case errors.Is(err, editor.ErrNotEditing),
		errors.Is(err, editor.ErrNoPendingDelete),
		errors.Is(err, editor.ErrNotFound):
		ws.Notices.Add(editor.LevelInfo, "This view was out of date and has been refreshed")
		a.logger.Debug("stale panel request", "panel", key, "error", err)
	default:
		a.logger.Debug("panel operation failed", "panel", key, "error", err)
	}
}

// renderPanels writes p, the named extra panels out of band, and the
// notice list out of band.
func (a *Admin) renderPanels(w http.ResponseWriter, ws *Workspace, p panel, also ...string) {
	var buf bytes.Buffer

	if err := a.partials.ExecuteTemplate(&buf, p.template(), p.data(ws)); err != nil {
		a.logger.Error("failed to render panel", "panel", p.Key(), "error", err)
		http.Error(w, "failed to render panel", http.StatusInternalServerError)
		return
	}
	for _, key := range also {
		other, ok := a.panels[key]
		if !ok || other == p {
			continue
		}
		pd := other.data(ws)
		pd.OOB = true
		if err := a.partials.ExecuteTemplate(&buf, other.template(), pd); err != nil {
			a.logger.Error("failed to render panel", "panel", key, "error", err)
		}
	}
	if err := a.partials.ExecuteTemplate(&buf, "notices", a.noticeData(ws, true)); err != nil {
		a.logger.Error("failed to render notices", "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
