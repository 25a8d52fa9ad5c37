// ABOUTME: Tests for document helpers: positional edits, cloning and sanitization
// ABOUTME: Covers index stability, stable order sort and the committee scenario

package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveAt_IndexStability(t *testing.T) {
	base := []string{"a", "b", "c", "d", "e"}

	for k := range base {
		t.Run(base[k], func(t *testing.T) {
			out := RemoveAt(base, k)
			require.Len(t, out, len(base)-1)

			for i := 0; i < k; i++ {
				assert.Equal(t, base[i], out[i], "index %d below k must not move", i)
			}
			for i := k + 1; i < len(base); i++ {
				assert.Equal(t, base[i], out[i-1], "index %d above k must shift down", i)
			}
		})
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, base, "input must be untouched")
}

func TestRemoveAt_OutOfRange(t *testing.T) {
	base := []int{1, 2, 3}
	assert.Equal(t, base, RemoveAt(base, -1))
	assert.Equal(t, base, RemoveAt(base, 3))
}

func TestReplaceAt_DoesNotMutate(t *testing.T) {
	base := []string{"x", "y"}
	out := ReplaceAt(base, 1, "z")

	assert.Equal(t, []string{"x", "z"}, out)
	assert.Equal(t, []string{"x", "y"}, base)
}

func TestAppend_DoesNotShareBackingArray(t *testing.T) {
	base := make([]int, 2, 10)
	a := Append(base, 1)
	b := Append(base, 2)

	assert.Equal(t, 1, a[2])
	assert.Equal(t, 2, b[2])
}

func TestStepOrder_ClampsAtOne(t *testing.T) {
	assert.Equal(t, 1, StepOrder(1, -1))
	assert.Equal(t, 1, StepOrder(-5, 0))
	assert.Equal(t, 3, StepOrder(2, 1))
}

func TestSortByOrder_StableTies(t *testing.T) {
	items := []NavbarItem{
		{ID: "a", Order: 3},
		{ID: "b", Order: 1},
		{ID: "c", Order: 3},
		{ID: "d", Order: 7},
		{ID: "e", Order: 1},
	}

	sorted := SortByOrder(items, NavbarOrder)

	ids := make([]string, len(sorted))
	for i, it := range sorted {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, ids)
	assert.Equal(t, "a", items[0].ID, "input order must be preserved")
}

func TestSortSpeakers_MissingOrderLast(t *testing.T) {
	two, one := 2, 1
	speakers := []Speaker{
		{ID: "none"},
		{ID: "two", Order: &two},
		{ID: "one", Order: &one},
	}

	sorted := SortSpeakers(speakers)
	assert.Equal(t, "one", sorted[0].ID)
	assert.Equal(t, "two", sorted[1].ID)
	assert.Equal(t, "none", sorted[2].ID)
}

func TestParagraph_BulletsDroppedAtMutation(t *testing.T) {
	p := NewParagraph()
	p = p.AddBullet("Keynote")
	p = p.AddBullet("   ")
	p = p.AddBullet("")
	p = p.AddBullet("Workshops")

	assert.Equal(t, []string{"Keynote", "Workshops"}, p.Bullets)

	p = p.SetBullet(0, " ")
	assert.Equal(t, []string{"Workshops"}, p.Bullets)

	p = p.SetBullets([]string{"a", "", "b", "\t"})
	assert.Equal(t, []string{"a", "b"}, p.Bullets)
}

func TestSection_CleanBulletsEveryParagraph(t *testing.T) {
	s := Section{Title: "About", Paragraphs: []Paragraph{
		{Text: "one", Bullets: []string{"", "x", " "}},
		{Text: "two", Bullets: []string{"y"}},
	}}

	out := s.CleanBullets()
	assert.Equal(t, []string{"x"}, out.Paragraphs[0].Bullets)
	assert.Equal(t, []string{"y"}, out.Paragraphs[1].Bullets)
	assert.Equal(t, []string{"", "x", " "}, s.Paragraphs[0].Bullets)
}

func TestSection_NestedEditsLeaveOriginalIntact(t *testing.T) {
	original := NewSection(1)
	original.Title = "About"
	original = original.AddParagraph()
	original = original.UpdateParagraph(0, func(p Paragraph) Paragraph {
		return p.AddLink(Link{Label: "CFP", URL: "/cfp"})
	})

	draft := original.Clone()
	draft = draft.UpdateParagraph(0, func(p Paragraph) Paragraph {
		return p.SetLink(0, Link{Label: "Program", URL: "/program"}).AddButton(Link{Label: "Register", URL: "/register"})
	})

	assert.Equal(t, "CFP", original.Paragraphs[0].Links[0].Label)
	assert.Empty(t, original.Paragraphs[0].Buttons)
	assert.Equal(t, "Program", draft.Paragraphs[0].Links[0].Label)
	assert.Len(t, draft.Paragraphs[0].Buttons, 1)
}

func TestSection_RemoveParagraphShiftsLaterIndices(t *testing.T) {
	s := NewSection(1)
	for _, text := range []string{"zero", "one", "two"} {
		s = s.AddParagraph()
		s = s.UpdateParagraph(len(s.Paragraphs)-1, func(p Paragraph) Paragraph {
			p.Text = text
			return p
		})
	}

	s = s.RemoveParagraph(1)
	require.Len(t, s.Paragraphs, 2)
	assert.Equal(t, "zero", s.Paragraphs[0].Text)
	assert.Equal(t, "two", s.Paragraphs[1].Text)
}

func TestSection_CloneKeepsPendingImage(t *testing.T) {
	s := NewSection(2).AddParagraph()
	upload := NewUpload("logo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	s = s.UpdateParagraph(0, func(p Paragraph) Paragraph { return p.AttachImage(upload) })

	c := s.Clone()
	require.NotNil(t, c.Paragraphs[0].ImageFile)
	assert.Equal(t, upload.Data, c.Paragraphs[0].ImageFile.Data)

	c.Paragraphs[0].ImageFile.Data[0] = 0
	assert.Equal(t, byte(0x89), s.Paragraphs[0].ImageFile.Data[0], "clone must not share bytes")
	assert.True(t, s.PendingImages())
}

func TestPreview_PendingBeatsRemote(t *testing.T) {
	p := Paragraph{ImageURL: "https://cdn.example/a.png"}
	assert.Equal(t, "https://cdn.example/a.png", p.Preview())

	p = p.AttachImage(&Upload{ContentType: "image/png", Data: []byte("hi")})
	assert.Equal(t, "data:image/png;base64,aGk=", p.Preview())

	p = p.DiscardImage()
	assert.Equal(t, "https://cdn.example/a.png", p.Preview())
}

func TestCommittee_SanitizeScenario(t *testing.T) {
	c := NewCommittee()
	c.CardTitle = "Steering Committee"
	c = c.AddRole()
	c = c.UpdateRole(0, func(r Role) Role {
		r.MemberRole = "Chairs"
		return r.AddBullet("Alice").AddBullet("").AddBullet("Bob")
	})

	// Scaffolding role stays while editing.
	c = c.AddRole()
	require.Len(t, c.Roles, 2)
	assert.Equal(t, []string{"Alice", "", "Bob"}, c.Roles[0].Bullets)

	saved := c.Sanitize()
	require.Len(t, saved.Roles, 1)
	assert.Equal(t, "Chairs", saved.Roles[0].MemberRole)
	assert.Equal(t, []string{"Alice", "Bob"}, saved.Roles[0].Bullets)

	assert.Len(t, c.Roles, 2, "sanitize must not touch the draft")
}

func TestCommittee_SanitizeKeepsRoleWithOnlyBullets(t *testing.T) {
	c := Committee{CardTitle: "PC", Roles: []Role{{MemberRole: " ", Bullets: []string{"Carol"}}}}
	assert.Len(t, c.Sanitize().Roles, 1)
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"committee card title", Committee{}.Validate(), "cardTitle"},
		{"faq answer", FAQ{Question: "Where?"}.Validate(), "answer"},
		{"navbar url", NavbarItem{Title: "Home"}.Validate(), "url"},
		{"speaker bio", Speaker{Name: "Ada", Title: "Dr"}.Validate(), "bio"},
		{"speaker image on create", Speaker{Name: "Ada", Title: "Dr", Bio: "x"}.Validate(), "image"},
		{"carousel image on create", CarouselItem{Title: "Slide"}.Validate(), "image"},
		{"brand icon link", BrandIcon{}.Validate(), "link"},
		{"announcement", Announcement{Message: "  "}.Validate(), "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, errors.Is(tt.err, ErrRequired))

			var ve *ValidationError
			require.ErrorAs(t, tt.err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	assert.NoError(t, Speaker{ID: "s1", Name: "Ada", Title: "Dr", Bio: "x"}.Validate())
	assert.NoError(t, Footer{}.Validate())
}

func TestNavbarItem_CloneDropsGrandchildren(t *testing.T) {
	item := NavbarItem{
		ID: "p",
		Children: []NavbarItem{
			{ID: "c", Children: []NavbarItem{{ID: "gc"}}},
		},
	}

	c := item.Clone()
	require.Len(t, c.Children, 1)
	assert.Nil(t, c.Children[0].Children)

	c.Children[0].Title = "changed"
	assert.Empty(t, item.Children[0].Title)
}

func TestImportantDate_Range(t *testing.T) {
	d := ImportantDate{Title: "Submission"}.SetRange("2026-01-01", "2026-01-15")
	assert.Equal(t, "2026-01-01 - 2026-01-15", d.RangeLabel())

	d = d.SetRange("", "")
	assert.Empty(t, d.RangeLabel())
	assert.Empty(t, d.DateRange)
}

func TestRegistration_CloneIsDeep(t *testing.T) {
	r := Registration{Fees: []Fee{{Category: "Student", Fee: "100"}}, Steps: []string{"Pay"}}
	c := r.Clone().SetFee(0, Fee{Category: "Student", Fee: "120"})
	c.Steps[0] = "Submit"

	assert.Equal(t, "100", r.Fees[0].Fee)
	assert.Equal(t, "Pay", r.Steps[0])

	c = c.SetForeignAuthors(BankDetails{Bank: "First Bank"})
	assert.Equal(t, "First Bank", c.Payment.ForeignAuthors.Bank)
	assert.Empty(t, r.Payment.ForeignAuthors.Bank)
}
