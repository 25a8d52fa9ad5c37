// ABOUTME: Flat documents: FAQs, announcements, carousel slides and important dates
// ABOUTME: Each type carries its own Clone and required-field Validate

package content

import "time"

// FAQ is a question and answer pair with an optional link.
type FAQ struct {
	ID       string `json:"_id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Link     string `json:"link,omitempty"`
	LinkText string `json:"linkText,omitempty"`
}

// Clone returns a copy.
func (f FAQ) Clone() FAQ { return f }

// Validate checks required fields.
func (f FAQ) Validate() error {
	return requireFields("question", f.Question, "answer", f.Answer)
}

// FAQID returns the FAQ's server-assigned id.
func FAQID(f FAQ) string { return f.ID }

// Announcement is a short site-wide notice.
type Announcement struct {
	ID        string     `json:"_id,omitempty"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Clone returns a deep copy.
func (a Announcement) Clone() Announcement {
	if a.CreatedAt != nil {
		t := *a.CreatedAt
		a.CreatedAt = &t
	}
	return a
}

// Validate checks required fields.
func (a Announcement) Validate() error {
	return requireFields("message", a.Message)
}

// AnnouncementID returns the announcement's server-assigned id.
func AnnouncementID(a Announcement) string { return a.ID }

// CarouselItem is one slide of the home page carousel.
type CarouselItem struct {
	ID          string `json:"_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`

	ImageFile *Upload `json:"-"`
}

// Clone returns a deep copy.
func (c CarouselItem) Clone() CarouselItem {
	c.ImageFile = c.ImageFile.Clone()
	return c
}

// Validate checks required fields. New slides need an image.
func (c CarouselItem) Validate() error {
	if err := requireFields("title", c.Title); err != nil {
		return err
	}
	if c.ID == "" && c.ImageFile == nil {
		return &ValidationError{Field: "image"}
	}
	return nil
}

// Preview is the image the slide should display.
func (c CarouselItem) Preview() string {
	return Preview(c.ImageURL, c.ImageFile)
}

// CarouselID returns the slide's server-assigned id.
func CarouselID(c CarouselItem) string { return c.ID }

// ImportantDate is a deadline or event shown on the dates page. It has a
// single date, a two-element range, or both.
type ImportantDate struct {
	ID        string   `json:"_id,omitempty"`
	Title     string   `json:"title"`
	Date      string   `json:"date,omitempty"`
	DateRange []string `json:"dateRange"`
}

// Clone returns a deep copy.
func (d ImportantDate) Clone() ImportantDate {
	d.DateRange = cloneStrings(d.DateRange)
	return d
}

// Validate checks required fields.
func (d ImportantDate) Validate() error {
	return requireFields("title", d.Title)
}

// SetRange sets the start and end of the range. Two blanks clear it.
func (d ImportantDate) SetRange(start, end string) ImportantDate {
	if start == "" && end == "" {
		d.DateRange = []string{}
		return d
	}
	d.DateRange = []string{start, end}
	return d
}

// RangeLabel renders the range as "start - end", or "" when unset.
func (d ImportantDate) RangeLabel() string {
	if len(d.DateRange) < 2 {
		return ""
	}
	return d.DateRange[0] + " - " + d.DateRange[1]
}

// ImportantDateID returns the date's server-assigned id.
func ImportantDateID(d ImportantDate) string { return d.ID }
