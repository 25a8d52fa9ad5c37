// ABOUTME: Navigation bar items with exactly one level of children
// ABOUTME: Children are addressed by parent id plus child id

package content

// NavbarItem is a top-level navigation entry or one of its children.
// Children of a child are never rendered or persisted.
type NavbarItem struct {
	ID       string       `json:"_id,omitempty"`
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Order    int          `json:"order"`
	Visible  bool         `json:"visible"`
	Children []NavbarItem `json:"children,omitempty"`
}

// NewNavbarItem returns a visible blank item with the given order.
func NewNavbarItem(order int) NavbarItem {
	return NavbarItem{Order: ClampOrder(order), Visible: true}
}

// Clone returns a deep copy. Grandchildren are dropped.
func (n NavbarItem) Clone() NavbarItem {
	out := n
	out.Children = nil
	if n.Children != nil {
		out.Children = make([]NavbarItem, len(n.Children))
		for i, c := range n.Children {
			c.Children = nil
			out.Children[i] = c
		}
	}
	return out
}

// Validate checks required fields.
func (n NavbarItem) Validate() error {
	return requireFields("title", n.Title, "url", n.URL)
}

// SetOrder sets the display order, clamped to MinOrder.
func (n NavbarItem) SetOrder(order int) NavbarItem {
	n.Order = ClampOrder(order)
	return n
}

// NavbarID returns the item's server-assigned id.
func NavbarID(n NavbarItem) string { return n.ID }

// NavbarOrder returns the item's display order.
func NavbarOrder(n NavbarItem) int { return n.Order }
