// ABOUTME: Content managers wired as panels, their nested draft operations, and console pages
// ABOUTME: Pages group panels; navigating between pages unmounts the panels left behind

package webadmin

import (
	"context"

	"github.com/2389/confadmin/internal/content"
	"github.com/2389/confadmin/internal/editor"
)

// page is one sidebar entry and the panels it shows.
type page struct {
	Slug   string
	Title  string
	Panels []string
}

// Path is the page's console URL.
func (p page) Path() string {
	if p.Slug == dashboardSlug {
		return "/admin/"
	}
	return "/admin/" + p.Slug
}

const dashboardSlug = "dashboard"

var pages = []page{
	{Slug: dashboardSlug, Title: "Dashboard"},
	{Slug: "header-nav", Title: "Header, Navigation & Footer", Panels: []string{"brand-titles", "brand-icons", "navbar", "navbar-children", "footer"}},
	{Slug: "hero", Title: "Hero Section", Panels: []string{"hero"}},
	{Slug: "about", Title: "About Page Content", Panels: []string{"about"}},
	{Slug: "paper", Title: "Call for Papers", Panels: []string{"paper"}},
	{Slug: "speakers", Title: "Speakers", Panels: []string{"speakers"}},
	{Slug: "committee", Title: "Committees", Panels: []string{"committee"}},
	{Slug: "extras", Title: "Announcements & Carousel", Panels: []string{"announcements", "carousel"}},
	{Slug: "dates", Title: "Important Dates", Panels: []string{"dates"}},
	{Slug: "faq", Title: "FAQ", Panels: []string{"faqs"}},
	{Slug: "registration", Title: "Registration", Panels: []string{"registration"}},
	{Slug: "footer", Title: "Footer", Panels: []string{"footer"}},
}

func buildPanels() []panel {
	return []panel{
		sectionsPanel("about", "About sections", func(ws *Workspace) *editor.Editor[content.Section] { return ws.About }),
		sectionsPanel("paper", "Call for papers sections", func(ws *Workspace) *editor.Editor[content.Section] { return ws.Paper }),
		&collectionPanel[content.Committee]{
			key: "committee", title: "Committee cards", tmpl: "panel-committee",
			editor: func(ws *Workspace) *editor.Editor[content.Committee] { return ws.Committees },
			bind:   bindCommittee,
			ops:    committeeOps(),
		},
		&collectionPanel[content.NavbarItem]{
			key: "navbar", title: "Navigation", tmpl: "panel-navbar",
			editor: func(ws *Workspace) *editor.Editor[content.NavbarItem] { return ws.Navbar },
			bind:   bindNavbarItem,
			ops:    orderOps(content.NavbarOrder, content.NavbarItem.SetOrder),
			actions: map[string]itemAction{
				"children": openChildren,
			},
			after: closeOrphanedChildren,
			also:  []string{"navbar-children"},
		},
		&collectionPanel[content.NavbarItem]{
			key: "navbar-children", title: "Dropdown items", tmpl: "panel-navbar-children",
			editor: func(ws *Workspace) *editor.Editor[content.NavbarItem] {
				ed, _ := ws.Children()
				return ed
			},
			bind:  bindNavbarItem,
			ops:   orderOps(content.NavbarOrder, content.NavbarItem.SetOrder),
			after: func(ctx context.Context, ws *Workspace) { _ = ws.Navbar.Reload(ctx) },
			also:  []string{"navbar"},
			extra: childrenParent,
			close: (*Workspace).CloseChildren,
		},
		&documentPanel[content.BrandTitles]{
			key: "brand-titles", title: "Header titles", tmpl: "panel-brand-titles",
			doc:  func(ws *Workspace) *editor.Document[content.BrandTitles] { return ws.BrandTitles },
			bind: bindBrandTitles,
		},
		&collectionPanel[content.BrandIcon]{
			key: "brand-icons", title: "Header icons", tmpl: "panel-brand-icons",
			editor: func(ws *Workspace) *editor.Editor[content.BrandIcon] { return ws.BrandIcons },
			bind:   bindBrandIcon,
			ops: withOps(
				orderOps(func(i content.BrandIcon) int { return i.Order }, func(i content.BrandIcon, n int) content.BrandIcon {
					i.Order = content.ClampOrder(n)
					return i
				}),
				map[string]draftOp[content.BrandIcon]{
					"discard-image": {apply: func(i content.BrandIcon, _ form, _, _ int) content.BrandIcon {
						i.ImageFile = nil
						return i
					}},
				},
			),
		},
		&collectionPanel[content.Speaker]{
			key: "speakers", title: "Speakers", tmpl: "panel-speakers",
			editor: func(ws *Workspace) *editor.Editor[content.Speaker] { return ws.Speakers },
			bind:   bindSpeaker,
			ops: withOps(
				orderOps(func(s content.Speaker) int {
					if s.Order == nil {
						return 0
					}
					return *s.Order
				}, content.Speaker.SetOrder),
				map[string]draftOp[content.Speaker]{
					"discard-image": {apply: func(s content.Speaker, _ form, _, _ int) content.Speaker {
						s.ImageFile = nil
						return s
					}},
					"clear-order": {apply: func(s content.Speaker, _ form, _, _ int) content.Speaker {
						s.Order = nil
						return s
					}},
				},
			),
			actions: map[string]itemAction{
				"toggle-blog": func(ctx context.Context, ws *Workspace, id string) error {
					return ws.ToggleBlog(ctx, id)
				},
			},
		},
		&collectionPanel[content.FAQ]{
			key: "faqs", title: "Questions", tmpl: "panel-faqs",
			editor: func(ws *Workspace) *editor.Editor[content.FAQ] { return ws.FAQs },
			bind:   bindFAQ,
		},
		&collectionPanel[content.Announcement]{
			key: "announcements", title: "Announcements", tmpl: "panel-announcements",
			editor: func(ws *Workspace) *editor.Editor[content.Announcement] { return ws.Announcements },
			bind:   bindAnnouncement,
		},
		&collectionPanel[content.CarouselItem]{
			key: "carousel", title: "Carousel", tmpl: "panel-carousel",
			editor: func(ws *Workspace) *editor.Editor[content.CarouselItem] { return ws.Carousel },
			bind:   bindCarouselItem,
			ops: map[string]draftOp[content.CarouselItem]{
				"discard-image": {apply: func(c content.CarouselItem, _ form, _, _ int) content.CarouselItem {
					c.ImageFile = nil
					return c
				}},
			},
		},
		&collectionPanel[content.ImportantDate]{
			key: "dates", title: "Important dates", tmpl: "panel-dates",
			editor: func(ws *Workspace) *editor.Editor[content.ImportantDate] { return ws.Dates },
			bind:   bindImportantDate,
			ops: map[string]draftOp[content.ImportantDate]{
				"clear-range": {apply: func(d content.ImportantDate, _ form, _, _ int) content.ImportantDate {
					return d.SetRange("", "")
				}},
			},
		},
		&documentPanel[content.Hero]{
			key: "hero", title: "Hero section", tmpl: "panel-hero",
			doc:  func(ws *Workspace) *editor.Document[content.Hero] { return ws.Hero },
			bind: bindHero,
			ops: map[string]draftOp[content.Hero]{
				"discard-background": {apply: func(h content.Hero, _ form, _, _ int) content.Hero {
					h.BackgroundFile = nil
					return h
				}},
				"discard-hero": {apply: func(h content.Hero, _ form, _, _ int) content.Hero {
					h.HeroFile = nil
					return h
				}},
			},
		},
		&documentPanel[content.Footer]{
			key: "footer", title: "Footer", tmpl: "panel-footer",
			doc:  func(ws *Workspace) *editor.Document[content.Footer] { return ws.Footer },
			bind: bindFooter,
			ops: map[string]draftOp[content.Footer]{
				"discard-logo": {apply: func(f content.Footer, _ form, _, _ int) content.Footer {
					f.LogoFile = nil
					return f
				}},
			},
		},
		&documentPanel[content.Registration]{
			key: "registration", title: "Registration info", tmpl: "panel-registration",
			doc:  func(ws *Workspace) *editor.Document[content.Registration] { return ws.Registration },
			bind: bindRegistration,
			ops:  registrationOps(),
		},
	}
}

func sectionsPanel(key, title string, ed func(*Workspace) *editor.Editor[content.Section]) panel {
	return &collectionPanel[content.Section]{
		key: key, title: title, tmpl: "panel-sections",
		editor: ed,
		bind:   bindSection,
		tidy:   content.Section.CleanBullets,
		ops:    sectionOps(),
	}
}

func withOps[T any](sets ...map[string]draftOp[T]) map[string]draftOp[T] {
	out := make(map[string]draftOp[T])
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

func orderOps[T any](get func(T) int, set func(T, int) T) map[string]draftOp[T] {
	step := func(delta int) draftOp[T] {
		return draftOp[T]{apply: func(v T, _ form, _, _ int) T {
			return set(v, content.StepOrder(get(v), delta))
		}}
	}
	return map[string]draftOp[T]{
		"order-up":   step(1),
		"order-down": step(-1),
	}
}

func updateParagraph(fn func(p content.Paragraph, f form, j int) content.Paragraph) draftOp[content.Section] {
	return draftOp[content.Section]{apply: func(s content.Section, f form, i, j int) content.Section {
		return s.UpdateParagraph(i, func(p content.Paragraph) content.Paragraph { return fn(p, f, j) })
	}}
}

func sectionOps() map[string]draftOp[content.Section] {
	ops := map[string]draftOp[content.Section]{
		"add-paragraph": {
			apply: func(s content.Section, _ form, _, _ int) content.Section { return s.AddParagraph() },
			focus: func(s content.Section) int { return len(s.Paragraphs) - 1 },
		},
		"remove-paragraph": {
			apply:   func(s content.Section, _ form, i, _ int) content.Section { return s.RemoveParagraph(i) },
			removes: true,
		},
		"add-bullet": {apply: func(s content.Section, f form, i, _ int) content.Section {
			text := f.str(field("paragraphs", i, "newBullet"), "")
			return s.UpdateParagraph(i, func(p content.Paragraph) content.Paragraph { return p.AddBullet(text) })
		}},
		"remove-bullet": updateParagraph(func(p content.Paragraph, _ form, j int) content.Paragraph { return p.RemoveBullet(j) }),
		"add-link":      updateParagraph(func(p content.Paragraph, _ form, _ int) content.Paragraph { return p.AddLink(content.Link{}) }),
		"remove-link":   updateParagraph(func(p content.Paragraph, _ form, j int) content.Paragraph { return p.RemoveLink(j) }),
		"add-button":    updateParagraph(func(p content.Paragraph, _ form, _ int) content.Paragraph { return p.AddButton(content.Link{}) }),
		"remove-button": updateParagraph(func(p content.Paragraph, _ form, j int) content.Paragraph { return p.RemoveButton(j) }),
		"discard-image": updateParagraph(func(p content.Paragraph, _ form, _ int) content.Paragraph { return p.DiscardImage() }),
	}
	return withOps(ops, orderOps(content.SectionOrder, content.Section.SetOrder))
}

func committeeOps() map[string]draftOp[content.Committee] {
	return map[string]draftOp[content.Committee]{
		"add-role": {
			apply: func(c content.Committee, _ form, _, _ int) content.Committee { return c.AddRole() },
			focus: func(c content.Committee) int { return len(c.Roles) - 1 },
		},
		"remove-role": {
			apply:   func(c content.Committee, _ form, i, _ int) content.Committee { return c.RemoveRole(i) },
			removes: true,
		},
		"add-bullet": {apply: func(c content.Committee, _ form, i, _ int) content.Committee {
			return c.UpdateRole(i, func(r content.Role) content.Role { return r.AddBullet("") })
		}},
		"remove-bullet": {apply: func(c content.Committee, _ form, i, j int) content.Committee {
			return c.UpdateRole(i, func(r content.Role) content.Role { return r.RemoveBullet(j) })
		}},
	}
}

func registrationOps() map[string]draftOp[content.Registration] {
	return map[string]draftOp[content.Registration]{
		"add-fee": {apply: func(r content.Registration, _ form, _, _ int) content.Registration { return r.AddFee() }},
		"remove-fee": {apply: func(r content.Registration, _ form, i, _ int) content.Registration {
			return r.RemoveFee(i)
		}},
		"add-guideline": {apply: func(r content.Registration, _ form, _, _ int) content.Registration {
			r.Guidelines = content.Append(r.Guidelines, "")
			return r
		}},
		"remove-guideline": {apply: func(r content.Registration, _ form, i, _ int) content.Registration {
			r.Guidelines = content.RemoveAt(r.Guidelines, i)
			return r
		}},
		"add-step": {apply: func(r content.Registration, _ form, _, _ int) content.Registration {
			r.Steps = content.Append(r.Steps, "")
			return r
		}},
		"remove-step": {apply: func(r content.Registration, _ form, i, _ int) content.Registration {
			r.Steps = content.RemoveAt(r.Steps, i)
			return r
		}},
	}
}

// openChildren points the children panel at the navbar item id.
func openChildren(ctx context.Context, ws *Workspace, id string) error {
	if _, ok := ws.Navbar.Find(id); !ok {
		return editor.ErrNotFound
	}
	// A failed load is announced as a notice by the editor.
	_ = ws.OpenChildren(id).Load(ctx)
	return nil
}

// closeOrphanedChildren closes the children panel once its parent is gone.
func closeOrphanedChildren(_ context.Context, ws *Workspace) {
	if _, parent := ws.Children(); parent != "" {
		if _, ok := ws.Navbar.Find(parent); !ok {
			ws.CloseChildren()
		}
	}
}

func childrenParent(ws *Workspace, pd *panelData) {
	_, id := ws.Children()
	if id == "" {
		return
	}
	if parent, ok := ws.Navbar.Find(id); ok {
		pd.Parent = &parent
	}
}
