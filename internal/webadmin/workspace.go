// ABOUTME: Per-browser-session workspace holding one editor per content manager
// ABOUTME: Mounting a page unmounts every manager that page does not show

package webadmin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/content"
	"github.com/2389/confadmin/internal/editor"
)

// Workspace is the server-side state of one operator's console: every
// manager's remote snapshot, draft and notices.
type Workspace struct {
	Notices *editor.Notices

	About         *editor.Editor[content.Section]
	Paper         *editor.Editor[content.Section]
	Committees    *editor.Editor[content.Committee]
	Navbar        *editor.Editor[content.NavbarItem]
	BrandIcons    *editor.Editor[content.BrandIcon]
	Speakers      *editor.Editor[content.Speaker]
	FAQs          *editor.Editor[content.FAQ]
	Announcements *editor.Editor[content.Announcement]
	Carousel      *editor.Editor[content.CarouselItem]
	Dates         *editor.Editor[content.ImportantDate]

	Hero         *editor.Document[content.Hero]
	Footer       *editor.Document[content.Footer]
	Registration *editor.Document[content.Registration]
	BrandTitles  *editor.Document[content.BrandTitles]

	client *cms.Client

	mu          sync.Mutex
	active      string
	childParent string
	children    *editor.Editor[content.NavbarItem]
}

// NewWorkspace builds a workspace whose managers talk to client.
func NewWorkspace(client *cms.Client, noticeTTL time.Duration) *Workspace {
	notices := editor.NewNotices(noticeTTL)

	sectionSchema := editor.Schema[content.Section]{
		Name:  "section",
		ID:    content.SectionID,
		Clone: content.Section.Clone,
		Blank: func(items []content.Section) content.Section {
			return content.NewSection(len(items) + 1)
		},
		Validate: content.Section.Validate,
		Order:    content.SectionOrder,
	}

	return &Workspace{
		Notices: notices,
		client:  client,

		About: editor.New[content.Section](client.About(), sectionSchema, notices),
		Paper: editor.New[content.Section](client.Paper(), sectionSchema, notices),
		Committees: editor.New[content.Committee](client.Committees(), editor.Schema[content.Committee]{
			Name:     "committee",
			ID:       content.CommitteeID,
			Clone:    content.Committee.Clone,
			Blank:    func([]content.Committee) content.Committee { return content.NewCommittee() },
			Validate: content.Committee.Validate,
			Sanitize: content.Committee.Sanitize,
		}, notices),
		Navbar: editor.New[content.NavbarItem](client.Navbar(), navbarSchema("navbar item", true), notices),
		BrandIcons: editor.New[content.BrandIcon](brandIcons{client}, editor.Schema[content.BrandIcon]{
			Name:  "header icon",
			ID:    func(i content.BrandIcon) string { return i.ID },
			Clone: content.BrandIcon.Clone,
			Blank: func(items []content.BrandIcon) content.BrandIcon {
				return content.BrandIcon{Order: content.ClampOrder(len(items) + 1)}
			},
			Validate: content.BrandIcon.Validate,
			Order:    func(i content.BrandIcon) int { return i.Order },
			Refetch:  true,
		}, notices),
		Speakers: editor.New[content.Speaker](client.Speakers(), editor.Schema[content.Speaker]{
			Name:     "speaker",
			ID:       content.SpeakerID,
			Clone:    content.Speaker.Clone,
			Validate: content.Speaker.Validate,
			Order:    content.SpeakerOrder,
		}, notices),
		FAQs: editor.New[content.FAQ](client.FAQs(), editor.Schema[content.FAQ]{
			Name:     "FAQ",
			ID:       content.FAQID,
			Clone:    content.FAQ.Clone,
			Validate: content.FAQ.Validate,
		}, notices),
		Announcements: editor.New[content.Announcement](client.Announcements(), editor.Schema[content.Announcement]{
			Name:     "announcement",
			ID:       content.AnnouncementID,
			Clone:    content.Announcement.Clone,
			Validate: content.Announcement.Validate,
			Prepend:  true,
		}, notices),
		Carousel: editor.New[content.CarouselItem](client.Carousel(), editor.Schema[content.CarouselItem]{
			Name:     "carousel item",
			ID:       content.CarouselID,
			Clone:    content.CarouselItem.Clone,
			Validate: content.CarouselItem.Validate,
			Prepend:  true,
		}, notices),
		Dates: editor.New[content.ImportantDate](client.ImportantDates(), editor.Schema[content.ImportantDate]{
			Name:     "important date",
			ID:       content.ImportantDateID,
			Clone:    content.ImportantDate.Clone,
			Blank:    func([]content.ImportantDate) content.ImportantDate { return content.ImportantDate{DateRange: []string{}} },
			Validate: content.ImportantDate.Validate,
		}, notices),

		Hero: editor.NewDocument[content.Hero](client.Hero(), editor.DocumentSchema[content.Hero]{
			Name:     "hero section",
			Clone:    content.Hero.Clone,
			Validate: content.Hero.Validate,
		}, notices),
		Footer: editor.NewDocument[content.Footer](client.Footer(), editor.DocumentSchema[content.Footer]{
			Name:     "footer",
			Clone:    content.Footer.Clone,
			Validate: content.Footer.Validate,
		}, notices),
		Registration: editor.NewDocument[content.Registration](client.Registration(), editor.DocumentSchema[content.Registration]{
			Name:     "registration info",
			Clone:    content.Registration.Clone,
			Validate: content.Registration.Validate,
		}, notices),
		BrandTitles: editor.NewDocument[content.BrandTitles](brandTitles{client}, editor.DocumentSchema[content.BrandTitles]{
			Name: "header titles",
		}, notices),
	}
}

func navbarSchema(name string, refetch bool) editor.Schema[content.NavbarItem] {
	return editor.Schema[content.NavbarItem]{
		Name:  name,
		ID:    content.NavbarID,
		Clone: content.NavbarItem.Clone,
		Blank: func(items []content.NavbarItem) content.NavbarItem {
			return content.NewNavbarItem(len(items) + 1)
		},
		Validate: content.NavbarItem.Validate,
		Order:    content.NavbarOrder,
		Refetch:  refetch,
	}
}

// swapActive records page as the mounted page and reports whether it changed.
func (w *Workspace) swapActive(page string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == page {
		return false
	}
	w.active = page
	return true
}

// Active returns the mounted page.
func (w *Workspace) Active() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// OpenChildren points the children manager at parentID. A fresh editor is
// created whenever the parent changes.
func (w *Workspace) OpenChildren(parentID string) *editor.Editor[content.NavbarItem] {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.children != nil && w.childParent == parentID {
		return w.children
	}
	if w.children != nil {
		w.children.Unmount()
	}
	w.childParent = parentID
	w.children = editor.New[content.NavbarItem](
		navbarChildren{client: w.client, parentID: parentID},
		navbarSchema("child item", true),
		w.Notices,
	)
	return w.children
}

// Children returns the open children manager and its parent id, or nil.
func (w *Workspace) Children() (*editor.Editor[content.NavbarItem], string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.children, w.childParent
}

// CloseChildren discards the children manager.
func (w *Workspace) CloseChildren() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.children != nil {
		w.children.Unmount()
	}
	w.children, w.childParent = nil, ""
}

// ToggleBlog flips a speaker's blog visibility and applies the returned speaker.
func (w *Workspace) ToggleBlog(ctx context.Context, id string) error {
	sp, err := w.client.ToggleBlog(ctx, id)
	if err != nil {
		w.Notices.Error(cms.Reason(err, "Failed to toggle blog visibility"))
		return err
	}
	w.Speakers.Apply(sp)
	if sp.BlogVisible {
		w.Notices.Success("Blog is now visible")
	} else {
		w.Notices.Success("Blog is now hidden")
	}
	return nil
}

// Close unmounts every manager so late responses are dropped.
func (w *Workspace) Close() {
	for _, m := range w.managers() {
		m.Unmount()
	}
	w.CloseChildren()
}

type unmounter interface {
	Unmount()
}

func (w *Workspace) managers() []unmounter {
	return []unmounter{
		w.About, w.Paper, w.Committees, w.Navbar, w.BrandIcons, w.Speakers,
		w.FAQs, w.Announcements, w.Carousel, w.Dates,
		w.Hero, w.Footer, w.Registration, w.BrandTitles,
	}
}

// brandIcons adapts the header brand icon endpoints to a collection.
// Every call answers with the whole brand, so the editor refetches.
type brandIcons struct {
	client *cms.Client
}

func (b brandIcons) List(ctx context.Context) ([]content.BrandIcon, error) {
	brand, err := b.client.HeaderBrand(ctx)
	if err != nil {
		return nil, err
	}
	return brand.SortedIcons(), nil
}

func (b brandIcons) Create(ctx context.Context, icon content.BrandIcon) (content.BrandIcon, error) {
	if _, err := b.client.AddBrandIcon(ctx, icon); err != nil {
		return content.BrandIcon{}, err
	}
	return icon, nil
}

func (b brandIcons) Update(ctx context.Context, id string, icon content.BrandIcon) (content.BrandIcon, error) {
	brand, err := b.client.UpdateBrandIcon(ctx, id, icon)
	if err != nil {
		return content.BrandIcon{}, err
	}
	if saved, ok := brand.Icon(id); ok {
		return saved, nil
	}
	return icon, nil
}

func (b brandIcons) Delete(ctx context.Context, id string) error {
	return b.client.DeleteBrandIcon(ctx, id)
}

// brandTitles adapts the header titles endpoint to a document.
type brandTitles struct {
	client *cms.Client
}

func (b brandTitles) Get(ctx context.Context) (content.BrandTitles, error) {
	brand, err := b.client.HeaderBrand(ctx)
	if err != nil {
		return content.BrandTitles{}, err
	}
	return brand.Titles(), nil
}

func (b brandTitles) Put(ctx context.Context, t content.BrandTitles) (content.BrandTitles, error) {
	brand, err := b.client.SaveBrandTitles(ctx, t)
	if err != nil {
		return content.BrandTitles{}, err
	}
	return brand.Titles(), nil
}

// navbarChildren lists one parent's children from the navbar and writes
// through the parent-scoped children endpoints.
type navbarChildren struct {
	client   *cms.Client
	parentID string
}

func (n navbarChildren) List(ctx context.Context) ([]content.NavbarItem, error) {
	items, err := n.client.Navbar().List(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == n.parentID {
			return it.Clone().Children, nil
		}
	}
	return nil, fmt.Errorf("navbar item %s: %w", n.parentID, editor.ErrNotFound)
}

func (n navbarChildren) Create(ctx context.Context, v content.NavbarItem) (content.NavbarItem, error) {
	return n.client.NavbarChildren(n.parentID).Create(ctx, v)
}

func (n navbarChildren) Update(ctx context.Context, id string, v content.NavbarItem) (content.NavbarItem, error) {
	return n.client.NavbarChildren(n.parentID).Update(ctx, id, v)
}

func (n navbarChildren) Delete(ctx context.Context, id string) error {
	return n.client.NavbarChildren(n.parentID).Delete(ctx, id)
}
