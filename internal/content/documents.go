// ABOUTME: Singleton documents: hero, header brand, footer and registration info
// ABOUTME: Nested configuration uses typed structs with explicit setters

package content

// HeroButton is a call-to-action button on the hero banner.
type HeroButton struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// Hero is the landing page banner.
type Hero struct {
	Title              string     `json:"title"`
	Subtitle           string     `json:"subtitle"`
	PrimaryButton      HeroButton `json:"primaryButton"`
	SecondaryButton    HeroButton `json:"secondaryButton"`
	BackgroundImageURL string     `json:"backgroundImageUrl,omitempty"`
	HeroImageURL       string     `json:"heroImageUrl,omitempty"`

	BackgroundFile *Upload `json:"-"`
	HeroFile       *Upload `json:"-"`
}

// Clone returns a deep copy.
func (h Hero) Clone() Hero {
	h.BackgroundFile = h.BackgroundFile.Clone()
	h.HeroFile = h.HeroFile.Clone()
	return h
}

// Validate checks required fields.
func (h Hero) Validate() error {
	return requireFields("title", h.Title)
}

// BackgroundPreview is the background image to display.
func (h Hero) BackgroundPreview() string {
	return Preview(h.BackgroundImageURL, h.BackgroundFile)
}

// HeroPreview is the foreground image to display.
func (h Hero) HeroPreview() string {
	return Preview(h.HeroImageURL, h.HeroFile)
}

// BrandIcon is a partner or sponsor icon shown next to the site title.
type BrandIcon struct {
	ID       string `json:"_id,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Link     string `json:"link"`
	Order    int    `json:"order"`

	ImageFile *Upload `json:"-"`
}

// Clone returns a deep copy.
func (i BrandIcon) Clone() BrandIcon {
	i.ImageFile = i.ImageFile.Clone()
	return i
}

// Validate checks required fields. New icons need an image.
func (i BrandIcon) Validate() error {
	if err := requireFields("link", i.Link); err != nil {
		return err
	}
	if i.ID == "" && i.ImageFile == nil {
		return &ValidationError{Field: "icon"}
	}
	return nil
}

// Preview is the icon image to display.
func (i BrandIcon) Preview() string {
	return Preview(i.ImageURL, i.ImageFile)
}

// BrandTitles is the two-part site title.
type BrandTitles struct {
	TitlePrimary   string `json:"titlePrimary"`
	TitleSecondary string `json:"titleSecondary"`
}

// HeaderBrand is the site header: titles plus icons.
type HeaderBrand struct {
	TitlePrimary   string      `json:"titlePrimary"`
	TitleSecondary string      `json:"titleSecondary"`
	Icons          []BrandIcon `json:"icons"`
}

// Clone returns a deep copy.
func (b HeaderBrand) Clone() HeaderBrand {
	out := b
	if b.Icons != nil {
		out.Icons = make([]BrandIcon, len(b.Icons))
		for i, ic := range b.Icons {
			out.Icons[i] = ic.Clone()
		}
	}
	return out
}

// Titles extracts the title pair.
func (b HeaderBrand) Titles() BrandTitles {
	return BrandTitles{TitlePrimary: b.TitlePrimary, TitleSecondary: b.TitleSecondary}
}

// Icon finds an icon by id.
func (b HeaderBrand) Icon(id string) (BrandIcon, bool) {
	for _, ic := range b.Icons {
		if ic.ID == id {
			return ic, true
		}
	}
	return BrandIcon{}, false
}

// SortedIcons returns icons ascending by order.
func (b HeaderBrand) SortedIcons() []BrandIcon {
	return SortByOrder(b.Icons, func(i BrandIcon) int { return i.Order })
}

// FooterLogo is the text-and-image logo block in the footer.
type FooterLogo struct {
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	URL           string `json:"url,omitempty"`
}

// SocialLinks are the footer's social profile URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

// Footer is the site footer.
type Footer struct {
	Description  string      `json:"description"`
	ContactEmail string      `json:"contactEmail"`
	Copyright    string      `json:"copyright"`
	Logo         FooterLogo  `json:"logo"`
	SocialLinks  SocialLinks `json:"socialLinks"`

	LogoFile *Upload `json:"-"`
}

// Clone returns a deep copy.
func (f Footer) Clone() Footer {
	f.LogoFile = f.LogoFile.Clone()
	return f
}

// Validate accepts any footer; every field is optional.
func (f Footer) Validate() error { return nil }

// LogoPreview is the logo image to display.
func (f Footer) LogoPreview() string {
	return Preview(f.Logo.URL, f.LogoFile)
}

// Fee is one registration category and its price.
type Fee struct {
	Category string `json:"category"`
	Fee      string `json:"fee"`
}

// BankDetails are wire-transfer details for authors paying from abroad.
type BankDetails struct {
	AccountName string `json:"accountName"`
	Bank        string `json:"bank"`
	Address     string `json:"address"`
	AccountNo   string `json:"accountNo"`
	IFSC        string `json:"ifsc"`
	MICR        string `json:"micr"`
	ADCode      string `json:"adCode"`
	Branch      string `json:"branch"`
	SwiftCode   string `json:"swiftCode"`
}

// Payment groups the payment routes offered to authors.
type Payment struct {
	IndianAuthorsLink string      `json:"indianAuthorsLink"`
	ForeignAuthors    BankDetails `json:"foreignAuthors"`
}

// Registration is the registration page document.
type Registration struct {
	Fees           []Fee    `json:"fees"`
	Guidelines     []string `json:"guidelines"`
	ImportantNote  string   `json:"importantNote"`
	Payment        Payment  `json:"payment"`
	Steps          []string `json:"steps"`
	GoogleFormLink string   `json:"googleFormLink"`
	GoogleFormNote string   `json:"googleFormNote"`
}

// Clone returns a deep copy.
func (r Registration) Clone() Registration {
	out := r
	if r.Fees != nil {
		out.Fees = make([]Fee, len(r.Fees))
		copy(out.Fees, r.Fees)
	}
	out.Guidelines = cloneStrings(r.Guidelines)
	out.Steps = cloneStrings(r.Steps)
	return out
}

// Validate accepts any registration document.
func (r Registration) Validate() error { return nil }

// AddFee appends a blank fee row.
func (r Registration) AddFee() Registration {
	r.Fees = Append(r.Fees, Fee{})
	return r
}

// SetFee replaces fee row i.
func (r Registration) SetFee(i int, f Fee) Registration {
	r.Fees = ReplaceAt(r.Fees, i, f)
	return r
}

// RemoveFee drops fee row i.
func (r Registration) RemoveFee(i int) Registration {
	r.Fees = RemoveAt(r.Fees, i)
	return r
}

// SetForeignAuthors replaces the foreign author bank details.
func (r Registration) SetForeignAuthors(b BankDetails) Registration {
	r.Payment.ForeignAuthors = b
	return r
}

// User is the operator returned by the backend's current-user endpoint.
type User struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

// DisplayName prefers the username and falls back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
