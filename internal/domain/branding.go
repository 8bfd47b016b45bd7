package domain

// BrandingConfig is the restaurant's printable identity. Mutated wholesale via
// the settings surface; missing fields fall back to defaults on load.
type BrandingConfig struct {
	Name     string `json:"name"`
	NameAr   string `json:"name_ar,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LogoURL  string `json:"logo_url,omitempty"`
	Footer   string `json:"footer,omitempty"`
	FooterAr string `json:"footer_ar,omitempty"`
}

// DefaultBranding returns the branding used before the restaurant configures
// its own. The name and bilingual footer are always non-empty.
func DefaultBranding() BrandingConfig {
	return BrandingConfig{
		Name:     "ASAF Restaurant",
		NameAr:   "مطعم أصف",
		Footer:   "תודה רבה!",
		FooterAr: "شكراً جزيلاً!",
	}
}

// MergeDefaults fills empty required fields from the defaults. Optional
// fields stay empty; an empty footer pair falls back to the bilingual default.
func (b BrandingConfig) MergeDefaults() BrandingConfig {
	def := DefaultBranding()
	if b.Name == "" {
		b.Name = def.Name
	}
	if b.Footer == "" && b.FooterAr == "" {
		b.Footer = def.Footer
		b.FooterAr = def.FooterAr
	}
	return b
}
