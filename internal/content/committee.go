// ABOUTME: Committee cards with member roles and per-role bullet lists
// ABOUTME: Empty roles survive editing and are dropped by Sanitize before save

package content

import "strings"

// Role is one member role on a committee card.
type Role struct {
	MemberRole string   `json:"memberRole"`
	Bullets    []string `json:"bullets"`
}

// Committee is a committee card.
type Committee struct {
	ID                 string `json:"_id,omitempty"`
	SectionTitle       string `json:"sectionTitle,omitempty"`
	SectionDescription string `json:"sectionDescription,omitempty"`
	CardTitle          string `json:"cardTitle"`
	Roles              []Role `json:"roles"`
}

// NewCommittee returns a blank committee template.
func NewCommittee() Committee {
	return Committee{Roles: []Role{}}
}

// Clone returns a deep copy.
func (r Role) Clone() Role {
	r.Bullets = cloneStrings(r.Bullets)
	return r
}

// Empty reports whether the role has no title and no non-blank bullets.
func (r Role) Empty() bool {
	return strings.TrimSpace(r.MemberRole) == "" && len(CleanBullets(r.Bullets)) == 0
}

// AddBullet appends a bullet. An empty bullet is allowed while editing.
func (r Role) AddBullet(text string) Role {
	r.Bullets = Append(r.Bullets, text)
	return r
}

// SetBullet replaces bullet j.
func (r Role) SetBullet(j int, text string) Role {
	r.Bullets = ReplaceAt(r.Bullets, j, text)
	return r
}

// RemoveBullet drops bullet j.
func (r Role) RemoveBullet(j int) Role {
	r.Bullets = RemoveAt(r.Bullets, j)
	return r
}

// Clone returns a deep copy.
func (c Committee) Clone() Committee {
	out := c
	if c.Roles != nil {
		out.Roles = make([]Role, len(c.Roles))
		for i, r := range c.Roles {
			out.Roles[i] = r.Clone()
		}
	}
	return out
}

// Validate checks required fields.
func (c Committee) Validate() error {
	return requireFields("cardTitle", c.CardTitle)
}

// AddRole appends an empty role as scaffolding.
func (c Committee) AddRole() Committee {
	c.Roles = Append(c.Roles, Role{Bullets: []string{}})
	return c
}

// WithRole replaces role i.
func (c Committee) WithRole(i int, r Role) Committee {
	c.Roles = ReplaceAt(c.Roles, i, r)
	return c
}

// UpdateRole applies fn to role i.
func (c Committee) UpdateRole(i int, fn func(Role) Role) Committee {
	if i < 0 || i >= len(c.Roles) {
		return c
	}
	return c.WithRole(i, fn(c.Roles[i]))
}

// RemoveRole drops role i.
func (c Committee) RemoveRole(i int) Committee {
	c.Roles = RemoveAt(c.Roles, i)
	return c
}

// Sanitize drops blank bullets from every role, then drops roles left
// without a title and without bullets.
func (c Committee) Sanitize() Committee {
	roles := make([]Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		r.Bullets = CleanBullets(r.Bullets)
		if r.Empty() {
			continue
		}
		roles = append(roles, r)
	}
	c.Roles = roles
	return c
}

// CommitteeID returns the committee's server-assigned id.
func CommitteeID(c Committee) string { return c.ID }
