package domain

import (
	"time"
)

// LayoutType identifies which kind of layout document a record holds.
type LayoutType string

const (
	LayoutBanner     LayoutType = "banner"
	LayoutFAQ        LayoutType = "faq"
	LayoutCategories LayoutType = "categories"
)

// IsValid reports whether the layout type is one of the known kinds.
func (t LayoutType) IsValid() bool {
	switch t {
	case LayoutBanner, LayoutFAQ, LayoutCategories:
		return true
	}
	return false
}

// Banner is the hero section shown on the landing page.
type Banner struct {
	Image    Image  `json:"image"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// FAQItem is a single question/answer pair.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Category is a course category label.
type Category struct {
	Title string `json:"title"`
}

// Layout is a singleton-per-type CMS document. Exactly one of Banner, FAQs,
// or Categories is populated depending on Type.
type Layout struct {
	ID         string     `json:"id"`
	Type       LayoutType `json:"type"`
	Banner     *Banner    `json:"banner,omitempty"`
	FAQs       []FAQItem  `json:"faqs,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
