// ABOUTME: About and paper sections with nested paragraphs, bullets, links and buttons
// ABOUTME: All nested edits return new values and never write to the receiver's slices

package content

// Link is a labelled URL. Paragraph buttons share the same shape.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Paragraph is one block of section body text.
type Paragraph struct {
	Text     string   `json:"text"`
	Bullets  []string `json:"bullets"`
	Links    []Link   `json:"links"`
	Buttons  []Link   `json:"buttons"`
	ImageURL string   `json:"imageUrl,omitempty"`

	// ImageFile is a selected image that has not been uploaded yet.
	ImageFile *Upload `json:"-"`
}

// Section is an about-page or call-for-papers section.
type Section struct {
	ID         string      `json:"_id,omitempty"`
	Title      string      `json:"title"`
	Subtitle   string      `json:"subtitle,omitempty"`
	Order      int         `json:"order"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// NewSection returns a blank section template with the given display order.
func NewSection(order int) Section {
	return Section{Order: ClampOrder(order), Paragraphs: []Paragraph{}}
}

// NewParagraph returns an empty paragraph.
func NewParagraph() Paragraph {
	return Paragraph{Bullets: []string{}, Links: []Link{}, Buttons: []Link{}}
}

// Clone returns a deep copy, including any pending image.
func (p Paragraph) Clone() Paragraph {
	out := p
	out.Bullets = cloneStrings(p.Bullets)
	if p.Links != nil {
		out.Links = make([]Link, len(p.Links))
		copy(out.Links, p.Links)
	}
	if p.Buttons != nil {
		out.Buttons = make([]Link, len(p.Buttons))
		copy(out.Buttons, p.Buttons)
	}
	out.ImageFile = p.ImageFile.Clone()
	return out
}

// Preview is the image the paragraph should display.
func (p Paragraph) Preview() string {
	return Preview(p.ImageURL, p.ImageFile)
}

// AddBullet appends a bullet. Blank text is ignored.
func (p Paragraph) AddBullet(text string) Paragraph {
	if len(CleanBullets([]string{text})) == 0 {
		return p
	}
	p.Bullets = Append(p.Bullets, text)
	return p
}

// SetBullet replaces bullet j. Setting it to blank text removes it.
func (p Paragraph) SetBullet(j int, text string) Paragraph {
	if len(CleanBullets([]string{text})) == 0 {
		return p.RemoveBullet(j)
	}
	p.Bullets = ReplaceAt(p.Bullets, j, text)
	return p
}

// SetBullets replaces every bullet at once, dropping blank entries.
func (p Paragraph) SetBullets(bullets []string) Paragraph {
	p.Bullets = CleanBullets(bullets)
	return p
}

// RemoveBullet drops bullet j.
func (p Paragraph) RemoveBullet(j int) Paragraph {
	p.Bullets = RemoveAt(p.Bullets, j)
	return p
}

// AddLink appends a link.
func (p Paragraph) AddLink(l Link) Paragraph {
	p.Links = Append(p.Links, l)
	return p
}

// SetLink replaces link j.
func (p Paragraph) SetLink(j int, l Link) Paragraph {
	p.Links = ReplaceAt(p.Links, j, l)
	return p
}

// RemoveLink drops link j.
func (p Paragraph) RemoveLink(j int) Paragraph {
	p.Links = RemoveAt(p.Links, j)
	return p
}

// AddButton appends a button.
func (p Paragraph) AddButton(b Link) Paragraph {
	p.Buttons = Append(p.Buttons, b)
	return p
}

// SetButton replaces button j.
func (p Paragraph) SetButton(j int, b Link) Paragraph {
	p.Buttons = ReplaceAt(p.Buttons, j, b)
	return p
}

// RemoveButton drops button j.
func (p Paragraph) RemoveButton(j int) Paragraph {
	p.Buttons = RemoveAt(p.Buttons, j)
	return p
}

// AttachImage stages an upload for the next save. The remote URL is kept
// so cancelling the upload falls back to it.
func (p Paragraph) AttachImage(u *Upload) Paragraph {
	p.ImageFile = u
	return p
}

// DiscardImage drops a staged upload.
func (p Paragraph) DiscardImage() Paragraph {
	p.ImageFile = nil
	return p
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	if s.Paragraphs != nil {
		out.Paragraphs = make([]Paragraph, len(s.Paragraphs))
		for i, p := range s.Paragraphs {
			out.Paragraphs[i] = p.Clone()
		}
	}
	return out
}

// Validate checks required fields.
func (s Section) Validate() error {
	return requireFields("title", s.Title)
}

// SectionID returns the section's server-assigned id.
func SectionID(s Section) string { return s.ID }

// SectionOrder returns the section's display order.
func SectionOrder(s Section) int { return s.Order }

// AddParagraph appends an empty paragraph.
func (s Section) AddParagraph() Section {
	s.Paragraphs = Append(s.Paragraphs, NewParagraph())
	return s
}

// WithParagraph replaces paragraph i.
func (s Section) WithParagraph(i int, p Paragraph) Section {
	s.Paragraphs = ReplaceAt(s.Paragraphs, i, p)
	return s
}

// UpdateParagraph applies fn to paragraph i.
func (s Section) UpdateParagraph(i int, fn func(Paragraph) Paragraph) Section {
	if i < 0 || i >= len(s.Paragraphs) {
		return s
	}
	return s.WithParagraph(i, fn(s.Paragraphs[i]))
}

// RemoveParagraph drops paragraph i. Later paragraphs shift down by one.
func (s Section) RemoveParagraph(i int) Section {
	s.Paragraphs = RemoveAt(s.Paragraphs, i)
	return s
}

// SetOrder sets the display order, clamped to MinOrder.
func (s Section) SetOrder(n int) Section {
	s.Order = ClampOrder(n)
	return s
}

// CleanBullets drops blank bullets from every paragraph.
func (s Section) CleanBullets() Section {
	for i, p := range s.Paragraphs {
		s = s.WithParagraph(i, p.SetBullets(p.Bullets))
	}
	return s
}

// PendingImages reports whether any paragraph has an upload staged.
func (s Section) PendingImages() bool {
	for _, p := range s.Paragraphs {
		if p.ImageFile != nil {
			return true
		}
	}
	return false
}
