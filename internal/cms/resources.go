// ABOUTME: Typed accessors for every CMS resource the console edits
// ABOUTME: Chooses update verbs and multipart encodings per resource

package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/2389/confadmin/internal/content"
)

// About returns the about-page sections resource. Updates use PATCH.
func (c *Client) About() *Collection[content.Section] {
	r := newCollection[content.Section](c, "/about", http.MethodPatch)
	r.createBody, r.updateBody = sectionBody, sectionBody
	return r
}

// Paper returns the call-for-papers sections resource. Updates use PUT.
func (c *Client) Paper() *Collection[content.Section] {
	r := newCollection[content.Section](c, "/paper", http.MethodPut)
	r.createBody, r.updateBody = sectionBody, sectionBody
	return r
}

// sectionBody sends plain JSON unless a paragraph has an image staged, in
// which case the section travels as a "payload" JSON field next to one
// "paragraphImages[i]" file part per staged image.
func sectionBody(s content.Section) any {
	if !s.PendingImages() {
		return s
	}
	f := NewForm().JSON("payload", s)
	for i, p := range s.Paragraphs {
		f.File(fmt.Sprintf("paragraphImages[%d]", i), p.ImageFile)
	}
	return f
}

// Committees returns the committee cards resource.
func (c *Client) Committees() *Collection[content.Committee] {
	return newCollection[content.Committee](c, "/committee", http.MethodPut)
}

// Navbar returns the top-level navigation resource. Updates use PATCH.
func (c *Client) Navbar() *Collection[content.NavbarItem] {
	r := newCollection[content.NavbarItem](c, "/navbar", http.MethodPatch)
	r.createBody, r.updateBody = navbarBody, navbarBody
	return r
}

// NavbarChildren returns the children of one navbar item. A child is
// addressed by both the parent id and its own id.
func (c *Client) NavbarChildren(parentID string) *Collection[content.NavbarItem] {
	r := newCollection[content.NavbarItem](c, "/navbar/"+url.PathEscape(parentID)+"/children", http.MethodPatch)
	r.createBody, r.updateBody = navbarBody, navbarBody
	return r
}

// navbarBody strips children; they are only edited through their own endpoints.
func navbarBody(n content.NavbarItem) any {
	return struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Order   int    `json:"order"`
		Visible bool   `json:"visible"`
	}{n.Title, n.URL, n.Order, n.Visible}
}

// Speakers returns the speaker profiles resource.
func (c *Client) Speakers() *Collection[content.Speaker] {
	r := newCollection[content.Speaker](c, "/speakers", http.MethodPut)
	r.createBody = func(s content.Speaker) any { return speakerForm(s) }
	r.updateBody = func(s content.Speaker) any {
		if s.ImageFile != nil {
			return speakerForm(s)
		}
		return s
	}
	return r
}

func speakerForm(s content.Speaker) *Form {
	f := NewForm().
		Field("name", s.Name).
		Field("title", s.Title).
		Field("bio", s.Bio).
		FieldIf("blog", s.Blog).
		Bool("blogVisible", s.BlogVisible)
	if s.Order != nil {
		f.Int("order", *s.Order)
	}
	return f.File("image", s.ImageFile)
}

// ToggleBlog flips a speaker's blog visibility and returns the updated speaker.
func (c *Client) ToggleBlog(ctx context.Context, id string) (content.Speaker, error) {
	var out struct {
		Speaker content.Speaker `json:"speaker"`
	}
	path := "/speakers/" + url.PathEscape(id) + "/toggle-blog"
	if err := c.patch(ctx, path, nil, &out); err != nil {
		return content.Speaker{}, fmt.Errorf("toggling blog for %s: %w", id, err)
	}
	return out.Speaker, nil
}

// FAQs returns the FAQ resource.
func (c *Client) FAQs() *Collection[content.FAQ] {
	return newCollection[content.FAQ](c, "/faqs", http.MethodPut)
}

// Announcements returns the announcements resource. Updates PATCH the message only.
func (c *Client) Announcements() *Collection[content.Announcement] {
	r := newCollection[content.Announcement](c, "/announcements", http.MethodPatch)
	msg := func(a content.Announcement) any {
		return map[string]string{"message": a.Message}
	}
	r.createBody, r.updateBody = msg, msg
	return r
}

// Carousel returns the carousel slides resource. Creation is always multipart.
func (c *Client) Carousel() *Collection[content.CarouselItem] {
	r := newCollection[content.CarouselItem](c, "/carousel", http.MethodPut)
	r.createBody = func(it content.CarouselItem) any { return carouselForm(it) }
	r.updateBody = func(it content.CarouselItem) any {
		if it.ImageFile != nil {
			return carouselForm(it)
		}
		return map[string]string{"title": it.Title, "description": it.Description, "link": it.Link}
	}
	return r
}

func carouselForm(it content.CarouselItem) *Form {
	return NewForm().
		Field("title", it.Title).
		Field("description", it.Description).
		Field("link", it.Link).
		File("image", it.ImageFile)
}

// ImportantDates returns the important dates resource.
func (c *Client) ImportantDates() *Collection[content.ImportantDate] {
	return newCollection[content.ImportantDate](c, "/important-dates", http.MethodPut)
}

// Hero returns the hero banner document. Saves are always multipart.
func (c *Client) Hero() *Document[content.Hero] {
	return &Document[content.Hero]{c: c, path: "/hero", body: func(h content.Hero) any {
		return NewForm().
			Field("title", h.Title).
			Field("subtitle", h.Subtitle).
			Field("primaryButtonText", h.PrimaryButton.Text).
			Field("primaryButtonLink", h.PrimaryButton.Link).
			Field("secondaryButtonText", h.SecondaryButton.Text).
			Field("secondaryButtonLink", h.SecondaryButton.Link).
			File("backgroundImage", h.BackgroundFile).
			File("heroImage", h.HeroFile)
	}}
}

// Footer returns the footer document. Saves are always multipart with the
// logo and social links flattened into top-level fields.
func (c *Client) Footer() *Document[content.Footer] {
	return &Document[content.Footer]{c: c, path: "/footer", body: func(f content.Footer) any {
		return NewForm().
			Field("description", f.Description).
			Field("contactEmail", f.ContactEmail).
			Field("copyright", f.Copyright).
			Field("textPrimary", f.Logo.TextPrimary).
			Field("textSecondary", f.Logo.TextSecondary).
			Field("facebook", f.SocialLinks.Facebook).
			Field("twitter", f.SocialLinks.Twitter).
			Field("linkedin", f.SocialLinks.LinkedIn).
			Field("instagram", f.SocialLinks.Instagram).
			File("logoImage", f.LogoFile)
	}}
}

// Registration returns the registration info document.
func (c *Client) Registration() *Document[content.Registration] {
	return &Document[content.Registration]{c: c, path: "/registration"}
}

// HeaderBrand fetches the header brand document.
func (c *Client) HeaderBrand(ctx context.Context) (content.HeaderBrand, error) {
	var out content.HeaderBrand
	if err := c.get(ctx, "/header-brand", &out); err != nil {
		return out, fmt.Errorf("fetching header brand: %w", err)
	}
	return out, nil
}

// SaveBrandTitles replaces the title pair and returns the updated brand.
func (c *Client) SaveBrandTitles(ctx context.Context, t content.BrandTitles) (content.HeaderBrand, error) {
	var out content.HeaderBrand
	if err := c.put(ctx, "/header-brand/titles", t, &out); err != nil {
		return out, fmt.Errorf("saving header titles: %w", err)
	}
	return out, nil
}

// AddBrandIcon uploads a new icon and returns the updated brand.
func (c *Client) AddBrandIcon(ctx context.Context, icon content.BrandIcon) (content.HeaderBrand, error) {
	var out content.HeaderBrand
	if err := c.post(ctx, "/header-brand/icons", iconForm(icon), &out); err != nil {
		return out, fmt.Errorf("adding header icon: %w", err)
	}
	return out, nil
}

// UpdateBrandIcon edits an icon, multipart when a new image is staged,
// and returns the updated brand.
func (c *Client) UpdateBrandIcon(ctx context.Context, id string, icon content.BrandIcon) (content.HeaderBrand, error) {
	var body any = map[string]any{"link": icon.Link, "order": icon.Order}
	if icon.ImageFile != nil {
		body = iconForm(icon)
	}

	var out content.HeaderBrand
	if err := c.put(ctx, "/header-brand/icons/"+url.PathEscape(id), body, &out); err != nil {
		return out, fmt.Errorf("updating header icon %s: %w", id, err)
	}
	return out, nil
}

// DeleteBrandIcon removes an icon.
func (c *Client) DeleteBrandIcon(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/header-brand/icons/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("deleting header icon %s: %w", id, err)
	}
	return nil
}

func iconForm(icon content.BrandIcon) *Form {
	return NewForm().
		Field("link", icon.Link).
		Int("order", icon.Order).
		File("icon", icon.ImageFile)
}
