package checks

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitecheck/sitecheck/internal/model"
)

// requiredSocialTags are the Open Graph and Twitter Card meta tags a page
// must carry for link previews to render correctly.
var requiredSocialTags = []string{
	"og:title",
	"og:description",
	"og:image",
	"og:url",
	"og:type",
	"twitter:title",
	"twitter:description",
	"twitter:image",
}

// SocialMetaCheck verifies that the required Open Graph and Twitter Card
// meta tags are present with non-empty content.
type SocialMetaCheck struct{}

// NewSocialMetaCheck creates a SocialMetaCheck.
func NewSocialMetaCheck() *SocialMetaCheck {
	return &SocialMetaCheck{}
}

// Name returns the check name.
func (c *SocialMetaCheck) Name() string { return "social-metadata" }

// Category returns the gating category.
func (c *SocialMetaCheck) Category() Category { return CategorySocialMedia }

// Run flags every missing required social meta tag.
func (c *SocialMetaCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	for _, tag := range requiredSocialTags {
		// Open Graph tags conventionally use property=, Twitter Cards use
		// name=, but either attribute is accepted in the wild.
		selector := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, tag, tag)
		found := false
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if content, ok := s.Attr("content"); ok && content != "" {
				found = true
				return false
			}
			return true
		})
		if !found {
			page.AddError(fmt.Sprintf("Social: Missing required meta tag: %s", tag))
		}
	}
}
