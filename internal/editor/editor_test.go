// ABOUTME: Tests for the collection editor, document editor and confirm gate
// ABOUTME: Uses an in-memory resource that records every call it receives

package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/content"
)

type memResource[T any] struct {
	mu    sync.Mutex
	items []T
	id    func(T) string
	setID func(T, string) T
	next  int
	calls []string

	err     error
	entered chan struct{}
	release chan struct{}
}

func (m *memResource[T]) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *memResource[T]) wait() {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
}

func (m *memResource[T]) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *memResource[T]) List(ctx context.Context) ([]T, error) {
	m.record("list")
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...), nil
}

func (m *memResource[T]) Create(ctx context.Context, v T) (T, error) {
	m.record("create")
	m.wait()
	if m.err != nil {
		var zero T
		return zero, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	v = m.setID(v, fmt.Sprintf("id%d", m.next))
	m.items = append(m.items, v)
	return v, nil
}

func (m *memResource[T]) Update(ctx context.Context, id string, v T) (T, error) {
	m.record("update " + id)
	m.wait()
	if m.err != nil {
		var zero T
		return zero, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if m.id(it) == id {
			m.items[i] = v
		}
	}
	return v, nil
}

func (m *memResource[T]) Delete(ctx context.Context, id string) error {
	m.record("delete " + id)
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, it := range m.items {
		if m.id(it) != id {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return nil
}

func sectionResource(items ...content.Section) *memResource[content.Section] {
	return &memResource[content.Section]{
		items: items,
		id:    content.SectionID,
		setID: func(s content.Section, id string) content.Section { s.ID = id; return s },
	}
}

func sectionSchema() Schema[content.Section] {
	return Schema[content.Section]{
		Name:     "section",
		ID:       content.SectionID,
		Blank:    func(items []content.Section) content.Section { return content.NewSection(len(items) + 1) },
		Clone:    content.Section.Clone,
		Validate: content.Section.Validate,
		Order:    content.SectionOrder,
	}
}

func committeeSchema() Schema[content.Committee] {
	return Schema[content.Committee]{
		Name:     "committee",
		ID:       content.CommitteeID,
		Blank:    func([]content.Committee) content.Committee { return content.NewCommittee() },
		Clone:    content.Committee.Clone,
		Validate: content.Committee.Validate,
		Sanitize: content.Committee.Sanitize,
	}
}

func TestEditorLoadSortsStably(t *testing.T) {
	res := sectionResource(
		content.Section{ID: "a", Title: "A", Order: 3},
		content.Section{ID: "b", Title: "B", Order: 1},
		content.Section{ID: "c", Title: "C", Order: 3},
		content.Section{ID: "d", Title: "D", Order: 2},
	)
	ed := New[content.Section](res, sectionSchema(), nil)

	require.NoError(t, ed.Load(context.Background()))

	var ids []string
	for _, s := range ed.Items() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
	assert.True(t, ed.Snapshot().Loaded)
}

func TestEditorRoundTripNestedSection(t *testing.T) {
	ctx := context.Background()
	res := sectionResource()
	ed := New[content.Section](res, sectionSchema(), nil)
	require.NoError(t, ed.Load(ctx))

	ed.BeginCreate()
	require.NoError(t, ed.Mutate(func(s content.Section) content.Section {
		s.Title = "Venue"
		s = s.AddParagraph().AddParagraph()
		s = s.UpdateParagraph(0, func(p content.Paragraph) content.Paragraph {
			p.Text = "Hall A"
			return p.AddBullet("Parking").AddBullet("   ").AddLink(content.Link{Label: "Map", URL: "https://map"})
		})
		return s.UpdateParagraph(1, func(p content.Paragraph) content.Paragraph {
			return p.AddButton(content.Link{Label: "Book", URL: "/book"})
		})
	}))
	require.NoError(t, ed.Mutate(func(s content.Section) content.Section {
		return s.UpdateParagraph(0, func(p content.Paragraph) content.Paragraph {
			return p.RemoveLink(0)
		})
	}))

	draft, err := ed.Draft()
	require.NoError(t, err)

	saved, err := ed.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "id1", saved.ID)
	assert.Equal(t, Viewing, ed.Snapshot().Mode)

	remote, err := res.List(ctx)
	require.NoError(t, err)
	require.Len(t, remote, 1)
	draft.ID = saved.ID
	assert.Equal(t, draft, remote[0])
	assert.Equal(t, []string{"Parking"}, remote[0].Paragraphs[0].Bullets)
	assert.Empty(t, remote[0].Paragraphs[0].Links)
}

func TestEditorCommitteeScenario(t *testing.T) {
	ctx := context.Background()
	res := &memResource[content.Committee]{
		id:    content.CommitteeID,
		setID: func(c content.Committee, id string) content.Committee { c.ID = id; return c },
	}
	ed := New[content.Committee](res, committeeSchema(), nil)

	ed.BeginCreate()
	require.NoError(t, ed.Mutate(func(c content.Committee) content.Committee {
		c.CardTitle = "Steering Committee"
		c = c.AddRole()
		return c.UpdateRole(0, func(r content.Role) content.Role {
			r.MemberRole = "Chairs"
			return r.AddBullet("Alice").AddBullet("").AddBullet("Bob")
		})
	}))
	require.NoError(t, ed.Mutate(content.Committee.AddRole))

	draft, err := ed.Draft()
	require.NoError(t, err)
	require.Len(t, draft.Roles, 2, "empty role stays while editing")
	assert.Equal(t, []string{"Alice", "", "Bob"}, draft.Roles[0].Bullets)

	_, err = ed.Save(ctx)
	require.NoError(t, err)

	remote, _ := res.List(ctx)
	require.Len(t, remote, 1)
	require.Len(t, remote[0].Roles, 1)
	assert.Equal(t, "Chairs", remote[0].Roles[0].MemberRole)
	assert.Equal(t, []string{"Alice", "Bob"}, remote[0].Roles[0].Bullets)
}

func TestEditorValidationMakesNoCall(t *testing.T) {
	res := sectionResource()
	ed := New[content.Section](res, sectionSchema(), nil)

	ed.BeginCreate()
	_, err := ed.Save(context.Background())
	require.ErrorIs(t, err, content.ErrRequired)

	assert.Empty(t, res.Calls())
	view := ed.Snapshot()
	assert.Equal(t, Editing, view.Mode, "draft stays open")
	assert.ErrorIs(t, view.DraftErr, content.ErrRequired)

	notices := ed.Notices().Active()
	require.Len(t, notices, 1)
	assert.Equal(t, LevelError, notices[0].Level)
	assert.Equal(t, "Title is required", notices[0].Message)
}

func TestEditorSaveFailureKeepsDraft(t *testing.T) {
	res := sectionResource(content.Section{ID: "s1", Title: "Old", Order: 1})
	res.err = &cms.APIError{Status: 400, Message: "Title taken"}
	ed := New[content.Section](res, sectionSchema(), nil)
	require.NoError(t, ed.Load(context.Background()))

	require.NoError(t, ed.BeginEdit("s1"))
	require.NoError(t, ed.Mutate(func(s content.Section) content.Section { s.Title = "New"; return s }))
	_, err := ed.Save(context.Background())
	require.Error(t, err)

	view := ed.Snapshot()
	assert.Equal(t, Editing, view.Mode)
	assert.Equal(t, "New", view.Draft.Title)
	assert.Equal(t, "Old", view.Items[0].Title, "remote state unchanged")
	assert.Equal(t, "Title taken", ed.Notices().Active()[0].Message)
}

func TestEditorEditDoesNotTouchItemsUntilSaved(t *testing.T) {
	res := sectionResource(content.Section{ID: "s1", Title: "Old", Order: 1,
		Paragraphs: []content.Paragraph{{Text: "p", Bullets: []string{"x"}}}})
	ed := New[content.Section](res, sectionSchema(), nil)
	require.NoError(t, ed.Load(context.Background()))

	require.NoError(t, ed.BeginEdit("s1"))
	require.NoError(t, ed.Mutate(func(s content.Section) content.Section {
		return s.UpdateParagraph(0, func(p content.Paragraph) content.Paragraph { return p.SetBullet(0, "y") })
	}))

	assert.Equal(t, []string{"x"}, ed.Items()[0].Paragraphs[0].Bullets)
	ed.Cancel()
	assert.Equal(t, Viewing, ed.Snapshot().Mode)
	assert.Equal(t, []string{"x"}, ed.Items()[0].Paragraphs[0].Bullets)
	assert.Equal(t, []string{"list"}, res.Calls())
}

func TestEditorDeleteGate(t *testing.T) {
	ctx := context.Background()
	res := sectionResource(
		content.Section{ID: "s1", Title: "One", Order: 1},
		content.Section{ID: "s2", Title: "Two", Order: 2},
	)
	ed := New[content.Section](res, sectionSchema(), nil)
	require.NoError(t, ed.Load(ctx))

	require.NoError(t, ed.RequestDelete("s1"))
	view := ed.Snapshot()
	assert.Equal(t, ConfirmingDelete, view.Mode)
	assert.Equal(t, "s1", view.PendingDelete)

	ed.CancelDelete()
	assert.Equal(t, []string{"list"}, res.Calls(), "cancel issues no request")
	assert.ErrorIs(t, ed.ConfirmDelete(ctx), ErrNoPendingDelete)

	require.NoError(t, ed.RequestDelete("s2"))
	require.NoError(t, ed.ConfirmDelete(ctx))
	assert.Equal(t, []string{"list", "delete s2"}, res.Calls())

	items := ed.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "s1", items[0].ID)
	assert.Equal(t, Viewing, ed.Snapshot().Mode)

	assert.ErrorIs(t, ed.RequestDelete("missing"), ErrNotFound)
}

func TestEditorConfirmDeleteWhileBusyKeepsTarget(t *testing.T) {
	ctx := context.Background()
	res := sectionResource(content.Section{ID: "s1", Title: "T", Order: 1})
	ed := New[content.Section](res, sectionSchema(), nil)
	require.NoError(t, ed.Load(ctx))

	res.entered = make(chan struct{}, 1)
	res.release = make(chan struct{})

	require.NoError(t, ed.BeginEdit("s1"))
	done := make(chan error, 1)
	go func() {
		_, err := ed.Save(ctx)
		done <- err
	}()
	<-res.entered

	require.NoError(t, ed.RequestDelete("s1"))
	assert.ErrorIs(t, ed.ConfirmDelete(ctx), ErrBusy)
	view := ed.Snapshot()
	assert.Equal(t, ConfirmingDelete, view.Mode)
	assert.Equal(t, "s1", view.PendingDelete, "target survives a busy confirm")

	close(res.release)
	require.NoError(t, <-done)
	assert.Equal(t, ConfirmingDelete, ed.Snapshot().Mode)

	require.NoError(t, ed.ConfirmDelete(ctx))
	assert.Equal(t, []string{"list", "update s1", "delete s1"}, res.Calls())
	assert.Empty(t, ed.Items())
	assert.Equal(t, Viewing, ed.Snapshot().Mode)
}

func TestEditorFocusReresolvesOnRemove(t *testing.T) {
	res := sectionResource(content.Section{ID: "s1", Title: "T", Order: 1,
		Paragraphs: []content.Paragraph{{Text: "a"}, {Text: "b"}, {Text: "c"}}})
	ed := New[content.Section](res, sectionSchema(), nil)
	require.NoError(t, ed.Load(context.Background()))
	require.NoError(t, ed.BeginEdit("s1"))

	require.NoError(t, ed.SetFocus(2))
	require.NoError(t, ed.MutateRemoving(0, func(s content.Section) content.Section { return s.RemoveParagraph(0) }))
	assert.Equal(t, 1, ed.Focus())
	draft, _ := ed.Draft()
	assert.Equal(t, "c", draft.Paragraphs[ed.Focus()].Text, "focus still on the same paragraph")

	require.NoError(t, ed.MutateRemoving(1, func(s content.Section) content.Section { return s.RemoveParagraph(1) }))
	assert.Equal(t, -1, ed.Focus(), "removing the focused paragraph closes it")

	require.NoError(t, ed.SetFocus(0))
	require.NoError(t, ed.MutateRemoving(3, func(s content.Section) content.Section { return s }))
	assert.Equal(t, 0, ed.Focus(), "later removals leave focus alone")
}

func TestEditorMutateRequiresDraft(t *testing.T) {
	ed := New[content.Section](sectionResource(), sectionSchema(), nil)

	assert.ErrorIs(t, ed.Mutate(func(s content.Section) content.Section { return s }), ErrNotEditing)
	_, err := ed.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.ErrorIs(t, ed.SetFocus(1), ErrNotEditing)
}

func TestEditorBusyGuard(t *testing.T) {
	ctx := context.Background()
	res := sectionResource(content.Section{ID: "s1", Title: "T", Order: 1})
	ed := New[content.Section](res, sectionSchema(), nil)
	require.NoError(t, ed.Load(ctx))

	res.entered = make(chan struct{}, 1)
	res.release = make(chan struct{})

	require.NoError(t, ed.BeginEdit("s1"))
	done := make(chan error, 1)
	go func() {
		_, err := ed.Save(ctx)
		done <- err
	}()
	<-res.entered

	assert.True(t, ed.Snapshot().IsBusy("s1"))
	_, err := ed.Save(ctx)
	assert.ErrorIs(t, err, ErrBusy)

	close(res.release)
	require.NoError(t, <-done)
	assert.False(t, ed.Snapshot().IsBusy("s1"))
}

func TestEditorDropsResponsesAfterUnmount(t *testing.T) {
	ctx := context.Background()
	res := sectionResource()
	ed := New[content.Section](res, sectionSchema(), nil)
	require.NoError(t, ed.Load(ctx))

	res.entered = make(chan struct{}, 1)
	res.release = make(chan struct{})

	ed.BeginCreate()
	require.NoError(t, ed.Mutate(func(s content.Section) content.Section { s.Title = "Late"; return s }))

	done := make(chan error, 1)
	go func() {
		_, err := ed.Save(ctx)
		done <- err
	}()
	<-res.entered
	ed.Unmount()
	close(res.release)
	require.NoError(t, <-done)

	assert.Empty(t, ed.Items(), "late create is not applied")
	assert.Empty(t, ed.Notices().Active(), "late outcome raises no notice")
	assert.False(t, ed.Snapshot().IsBusy(""))
}

func TestEditorPrependAndApply(t *testing.T) {
	ctx := context.Background()
	res := &memResource[content.Announcement]{
		items: []content.Announcement{{ID: "old", Message: "first"}},
		id:    content.AnnouncementID,
		setID: func(a content.Announcement, id string) content.Announcement { a.ID = id; return a },
	}
	ed := New[content.Announcement](res, Schema[content.Announcement]{
		Name:     "announcement",
		ID:       content.AnnouncementID,
		Clone:    content.Announcement.Clone,
		Validate: content.Announcement.Validate,
		Prepend:  true,
	}, nil)
	require.NoError(t, ed.Load(ctx))

	ed.BeginCreate()
	require.NoError(t, ed.Mutate(func(a content.Announcement) content.Announcement { a.Message = "second"; return a }))
	_, err := ed.Save(ctx)
	require.NoError(t, err)

	items := ed.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Message)

	ed.Apply(content.Announcement{ID: "old", Message: "edited"})
	assert.Equal(t, "edited", ed.Items()[1].Message)
}

func TestEditorRefetchAfterMutation(t *testing.T) {
	ctx := context.Background()
	res := sectionResource()
	schema := sectionSchema()
	schema.Refetch = true
	ed := New[content.Section](res, schema, nil)
	require.NoError(t, ed.Load(ctx))

	ed.BeginCreate()
	require.NoError(t, ed.Mutate(func(s content.Section) content.Section { s.Title = "X"; return s }))
	_, err := ed.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"list", "create", "list"}, res.Calls())
	assert.Len(t, ed.Items(), 1)
}

type memDocument struct {
	doc   content.Footer
	err   error
	puts  int
	block chan struct{}
}

func (m *memDocument) Get(ctx context.Context) (content.Footer, error) { return m.doc, nil }

func (m *memDocument) Put(ctx context.Context, v content.Footer) (content.Footer, error) {
	m.puts++
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return content.Footer{}, m.err
	}
	v.LogoFile = nil
	if v.Logo.URL == "" {
		v.Logo.URL = "https://cdn/logo.png"
	}
	m.doc = v
	return v, nil
}

func TestDocumentSaveReplacesWithResponse(t *testing.T) {
	ctx := context.Background()
	res := &memDocument{doc: content.Footer{Copyright: "2025"}}
	doc := NewDocument[content.Footer](res, DocumentSchema[content.Footer]{
		Name:  "footer",
		Clone: content.Footer.Clone,
	}, nil)
	require.NoError(t, doc.Load(ctx))

	doc.Mutate(func(f content.Footer) content.Footer {
		f.Copyright = "2026"
		f.LogoFile = content.NewUpload("logo.png", "image/png", []byte("png"))
		return f
	})
	assert.Equal(t, "2025", doc.Snapshot().Saved.Copyright)
	assert.Contains(t, doc.Snapshot().Draft.LogoPreview(), "data:image/png;base64,")

	saved, err := doc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026", saved.Copyright)

	view := doc.Snapshot()
	assert.Equal(t, "https://cdn/logo.png", view.Draft.LogoPreview())
	assert.Equal(t, "Footer updated successfully", doc.notices.Active()[0].Message)
}

func TestDocumentResetAndFailure(t *testing.T) {
	ctx := context.Background()
	res := &memDocument{doc: content.Footer{Copyright: "2025"}, err: errors.New("connection refused")}
	doc := NewDocument[content.Footer](res, DocumentSchema[content.Footer]{Name: "footer", Clone: content.Footer.Clone}, nil)
	require.NoError(t, doc.Load(ctx))

	doc.Mutate(func(f content.Footer) content.Footer { f.Copyright = "2026"; return f })
	_, err := doc.Save(ctx)
	require.Error(t, err)
	assert.Equal(t, "2026", doc.Draft().Copyright)
	assert.Equal(t, "Failed to update footer", doc.notices.Active()[0].Message)

	doc.Reset()
	assert.Equal(t, "2025", doc.Draft().Copyright)
}

func TestDocumentSaveRequiresLoad(t *testing.T) {
	ctx := context.Background()
	res := &memDocument{doc: content.Footer{Copyright: "2025"}}
	doc := NewDocument[content.Footer](res, DocumentSchema[content.Footer]{Name: "footer", Clone: content.Footer.Clone}, nil)

	_, err := doc.Save(ctx)
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.Zero(t, res.puts, "an unloaded document is never sent")
	assert.Equal(t, "2025", res.doc.Copyright)

	require.NoError(t, doc.Load(ctx))
	_, err = doc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.puts)
}

func TestConfirmGate(t *testing.T) {
	var g ConfirmGate
	_, ok := g.Take()
	assert.False(t, ok)

	g.Request("a")
	g.Request("b")
	id, ok := g.Pending()
	assert.True(t, ok)
	assert.Equal(t, "b", id)

	id, ok = g.Take()
	assert.True(t, ok)
	assert.Equal(t, "b", id)
	_, ok = g.Pending()
	assert.False(t, ok)
}

func TestNoticesExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := NewNotices(3 * time.Second)
	n.now = func() time.Time { return now }

	first := n.Success("saved")
	now = now.Add(2 * time.Second)
	n.Error("failed")
	assert.Len(t, n.Active(), 2)

	now = now.Add(1500 * time.Millisecond)
	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "failed", active[0].Message)
	assert.NotEqual(t, first.ID, active[0].ID)

	n.Dismiss(active[0].ID)
	assert.Empty(t, n.Active())
}

func TestNoticesDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultNoticeTTL, NewNotices(0).TTL())
}
