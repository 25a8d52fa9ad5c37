// ABOUTME: Speaker profiles with optional blog and manual display order
// ABOUTME: Lists are sorted client side by order before rendering

package content

import "math"

// Speaker is a conference speaker profile.
type Speaker struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Bio         string `json:"bio"`
	Blog        string `json:"blog,omitempty"`
	BlogVisible bool   `json:"blogVisible"`
	Order       *int   `json:"order,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`

	ImageFile *Upload `json:"-"`
}

// Clone returns a deep copy.
func (s Speaker) Clone() Speaker {
	out := s
	if s.Order != nil {
		o := *s.Order
		out.Order = &o
	}
	out.ImageFile = s.ImageFile.Clone()
	return out
}

// Validate checks required fields. New speakers also need an image.
func (s Speaker) Validate() error {
	if err := requireFields("name", s.Name, "title", s.Title, "bio", s.Bio); err != nil {
		return err
	}
	if s.ID == "" && s.ImageURL == "" && s.ImageFile == nil {
		return &ValidationError{Field: "image"}
	}
	return nil
}

// Preview is the image the speaker card should display.
func (s Speaker) Preview() string {
	return Preview(s.ImageURL, s.ImageFile)
}

// SetOrder sets an explicit order, clamped to MinOrder.
func (s Speaker) SetOrder(n int) Speaker {
	o := ClampOrder(n)
	s.Order = &o
	return s
}

// SpeakerID returns the speaker's server-assigned id.
func SpeakerID(s Speaker) string { return s.ID }

// SpeakerOrder returns the display order. Speakers without one sort last.
func SpeakerOrder(s Speaker) int {
	if s.Order == nil {
		return math.MaxInt
	}
	return *s.Order
}

// SortSpeakers returns speakers ascending by order, ties in fetched order.
func SortSpeakers(speakers []Speaker) []Speaker {
	return SortByOrder(speakers, SpeakerOrder)
}
