// ABOUTME: Form decoding for manager drafts: partial binding and staged uploads
// ABOUTME: Only fields present in the submission overwrite the draft

package webadmin

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/2389/confadmin/internal/content"
)

// maxUploadBytes caps a single multipart submission.
const maxUploadBytes = 10 << 20

// parseForm parses a urlencoded or multipart body.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return fmt.Errorf("parsing multipart form: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parsing form: %w", err)
	}
	return nil
}

// form reads a parsed submission. Accessors take the current value and
// return it unchanged when the field was not submitted.
type form struct {
	r *http.Request
}

func (f form) has(key string) bool {
	_, ok := f.r.Form[key]
	return ok
}

func (f form) last(key string) (string, bool) {
	vals, ok := f.r.Form[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

func (f form) str(key, cur string) string {
	if v, ok := f.last(key); ok {
		return v
	}
	return cur
}

func (f form) num(key string, cur int) int {
	v, ok := f.last(key)
	if !ok {
		return cur
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return cur
	}
	return n
}

// flag reads a checkbox rendered after a hidden "false" input of the same
// name, so the last value wins.
func (f form) flag(key string, cur bool) bool {
	v, ok := f.last(key)
	if !ok {
		return cur
	}
	return v == "true" || v == "on"
}

// index reads a non-negative position, or -1.
func (f form) index(key string) int {
	v, ok := f.last(key)
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// upload returns the file submitted under key, or nil.
func (f form) upload(key string) (*content.Upload, error) {
	if f.r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := f.r.FormFile(key)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return content.NewUpload(header.Filename, header.Header.Get("Content-Type"), data), nil
}

// stage returns the newly submitted upload under key, or cur.
func (f form) stage(key string, cur *content.Upload) (*content.Upload, error) {
	u, err := f.upload(key)
	if err != nil || u == nil {
		return cur, err
	}
	return u, nil
}

func field(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ".")
}

// list collects key.0, key.1, ... for the n entries the draft holds.
func (f form) list(key string, cur []string) []string {
	out := make([]string, len(cur))
	for j, v := range cur {
		out[j] = f.str(field(key, j), v)
	}
	return out
}

func (f form) links(key string, cur []content.Link) []content.Link {
	out := make([]content.Link, len(cur))
	for j, l := range cur {
		out[j] = content.Link{
			Label: f.str(field(key, j, "label"), l.Label),
			URL:   f.str(field(key, j, "url"), l.URL),
		}
	}
	return out
}

func bindSection(s content.Section, f form) (content.Section, error) {
	s.Title = f.str("title", s.Title)
	s.Subtitle = f.str("subtitle", s.Subtitle)
	s.Order = content.ClampOrder(f.num("order", s.Order))

	for i := range s.Paragraphs {
		p := s.Paragraphs[i].Clone()
		p.Text = f.str(field("paragraphs", i, "text"), p.Text)
		// Blank bullets stay in place until the draft op has run, so its
		// indices still match the rendered form.
		p.Bullets = f.list(field("paragraphs", i, "bullets"), p.Bullets)
		p.Links = f.links(field("paragraphs", i, "links"), p.Links)
		p.Buttons = f.links(field("paragraphs", i, "buttons"), p.Buttons)

		img, err := f.upload(field("paragraphs", i, "image"))
		if err != nil {
			return s, err
		}
		if img != nil {
			p = p.AttachImage(img)
		}
		s = s.WithParagraph(i, p)
	}
	return s, nil
}

func bindCommittee(c content.Committee, f form) (content.Committee, error) {
	c.SectionTitle = f.str("sectionTitle", c.SectionTitle)
	c.SectionDescription = f.str("sectionDescription", c.SectionDescription)
	c.CardTitle = f.str("cardTitle", c.CardTitle)

	for i, r := range c.Roles {
		r = r.Clone()
		r.MemberRole = f.str(field("roles", i, "memberRole"), r.MemberRole)
		r.Bullets = f.list(field("roles", i, "bullets"), r.Bullets)
		c = c.WithRole(i, r)
	}
	return c, nil
}

func bindNavbarItem(n content.NavbarItem, f form) (content.NavbarItem, error) {
	n.Title = f.str("title", n.Title)
	n.URL = f.str("url", n.URL)
	n = n.SetOrder(f.num("order", n.Order))
	n.Visible = f.flag("visible", n.Visible)
	return n, nil
}

func bindSpeaker(s content.Speaker, f form) (content.Speaker, error) {
	s.Name = f.str("name", s.Name)
	s.Title = f.str("title", s.Title)
	s.Bio = f.str("bio", s.Bio)
	s.Blog = f.str("blog", s.Blog)
	s.BlogVisible = f.flag("blogVisible", s.BlogVisible)
	if v, ok := f.last("order"); ok {
		if strings.TrimSpace(v) == "" {
			s.Order = nil
		} else if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			s = s.SetOrder(n)
		}
	}

	var err error
	s.ImageFile, err = f.stage("image", s.ImageFile)
	return s, err
}

func bindFAQ(q content.FAQ, f form) (content.FAQ, error) {
	q.Question = f.str("question", q.Question)
	q.Answer = f.str("answer", q.Answer)
	q.Link = f.str("link", q.Link)
	q.LinkText = f.str("linkText", q.LinkText)
	return q, nil
}

func bindAnnouncement(a content.Announcement, f form) (content.Announcement, error) {
	a.Message = f.str("message", a.Message)
	return a, nil
}

func bindCarouselItem(c content.CarouselItem, f form) (content.CarouselItem, error) {
	c.Title = f.str("title", c.Title)
	c.Description = f.str("description", c.Description)
	c.Link = f.str("link", c.Link)

	var err error
	c.ImageFile, err = f.stage("image", c.ImageFile)
	return c, err
}

func bindImportantDate(d content.ImportantDate, f form) (content.ImportantDate, error) {
	d.Title = f.str("title", d.Title)
	d.Date = f.str("date", d.Date)
	if f.has("rangeStart") || f.has("rangeEnd") {
		start, end := "", ""
		if len(d.DateRange) == 2 {
			start, end = d.DateRange[0], d.DateRange[1]
		}
		d = d.SetRange(f.str("rangeStart", start), f.str("rangeEnd", end))
	}
	return d, nil
}

func bindBrandIcon(i content.BrandIcon, f form) (content.BrandIcon, error) {
	i.Link = f.str("link", i.Link)
	i.Order = content.ClampOrder(f.num("order", i.Order))

	var err error
	i.ImageFile, err = f.stage("icon", i.ImageFile)
	return i, err
}

func bindBrandTitles(t content.BrandTitles, f form) (content.BrandTitles, error) {
	t.TitlePrimary = f.str("titlePrimary", t.TitlePrimary)
	t.TitleSecondary = f.str("titleSecondary", t.TitleSecondary)
	return t, nil
}

func bindHero(h content.Hero, f form) (content.Hero, error) {
	h.Title = f.str("title", h.Title)
	h.Subtitle = f.str("subtitle", h.Subtitle)
	h.PrimaryButton.Text = f.str("primaryButton.text", h.PrimaryButton.Text)
	h.PrimaryButton.Link = f.str("primaryButton.link", h.PrimaryButton.Link)
	h.SecondaryButton.Text = f.str("secondaryButton.text", h.SecondaryButton.Text)
	h.SecondaryButton.Link = f.str("secondaryButton.link", h.SecondaryButton.Link)

	var err error
	if h.BackgroundFile, err = f.stage("backgroundImage", h.BackgroundFile); err != nil {
		return h, err
	}
	h.HeroFile, err = f.stage("heroImage", h.HeroFile)
	return h, err
}

func bindFooter(ft content.Footer, f form) (content.Footer, error) {
	ft.Description = f.str("description", ft.Description)
	ft.ContactEmail = f.str("contactEmail", ft.ContactEmail)
	ft.Copyright = f.str("copyright", ft.Copyright)
	ft.Logo.TextPrimary = f.str("logo.textPrimary", ft.Logo.TextPrimary)
	ft.Logo.TextSecondary = f.str("logo.textSecondary", ft.Logo.TextSecondary)
	ft.SocialLinks.Facebook = f.str("socialLinks.facebook", ft.SocialLinks.Facebook)
	ft.SocialLinks.Twitter = f.str("socialLinks.twitter", ft.SocialLinks.Twitter)
	ft.SocialLinks.LinkedIn = f.str("socialLinks.linkedin", ft.SocialLinks.LinkedIn)
	ft.SocialLinks.Instagram = f.str("socialLinks.instagram", ft.SocialLinks.Instagram)

	var err error
	ft.LogoFile, err = f.stage("logoImage", ft.LogoFile)
	return ft, err
}

func bindRegistration(r content.Registration, f form) (content.Registration, error) {
	r.ImportantNote = f.str("importantNote", r.ImportantNote)
	r.GoogleFormLink = f.str("googleFormLink", r.GoogleFormLink)
	r.GoogleFormNote = f.str("googleFormNote", r.GoogleFormNote)
	r.Payment.IndianAuthorsLink = f.str("payment.indianAuthorsLink", r.Payment.IndianAuthorsLink)

	b := r.Payment.ForeignAuthors
	r = r.SetForeignAuthors(content.BankDetails{
		AccountName: f.str("foreign.accountName", b.AccountName),
		Bank:        f.str("foreign.bank", b.Bank),
		Address:     f.str("foreign.address", b.Address),
		AccountNo:   f.str("foreign.accountNo", b.AccountNo),
		IFSC:        f.str("foreign.ifsc", b.IFSC),
		MICR:        f.str("foreign.micr", b.MICR),
		ADCode:      f.str("foreign.adCode", b.ADCode),
		Branch:      f.str("foreign.branch", b.Branch),
		SwiftCode:   f.str("foreign.swiftCode", b.SwiftCode),
	})

	for i, fee := range r.Fees {
		r = r.SetFee(i, content.Fee{
			Category: f.str(field("fees", i, "category"), fee.Category),
			Fee:      f.str(field("fees", i, "fee"), fee.Fee),
		})
	}
	r.Guidelines = f.list("guidelines", r.Guidelines)
	r.Steps = f.list("steps", r.Steps)
	return r, nil
}
