package checks

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitecheck/sitecheck/internal/model"
)

// HeadingStructureCheck validates the heading hierarchy of a page and
// records the heading texts on the page record.
//
// Rules:
//   - exactly one <h1> must exist
//   - a heading level may not be used while a shallower level is empty
//     (a page with only <h1> and <h3> is flagged once for the <h3>)
type HeadingStructureCheck struct{}

// NewHeadingStructureCheck creates a HeadingStructureCheck.
func NewHeadingStructureCheck() *HeadingStructureCheck {
	return &HeadingStructureCheck{}
}

// Name returns the check name.
func (c *HeadingStructureCheck) Name() string { return "heading-structure" }

// Category returns the gating category.
func (c *HeadingStructureCheck) Category() Category { return CategorySEO }

// Run collects headings per level and validates the hierarchy.
func (c *HeadingStructureCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	for level := 1; level <= 6; level++ {
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			page.AddHeading(level, strings.TrimSpace(s.Text()))
		})
	}

	h1Count := len(page.Headings[1])
	switch {
	case h1Count == 0:
		page.AddError("SEO: Missing <h1> tag")
	case h1Count > 1:
		page.AddError(fmt.Sprintf("SEO: Multiple <h1> tags found (%d)", h1Count))
	}

	// A used level is flagged once if any shallower level has no content,
	// not only when its immediate parent level is empty.
	for level := 2; level <= 6; level++ {
		if len(page.Headings[level]) == 0 {
			continue
		}
		for shallower := 1; shallower < level; shallower++ {
			if len(page.Headings[shallower]) == 0 {
				page.AddError(fmt.Sprintf("SEO: <h%d> used without any <h%d> content", level, shallower))
				break
			}
		}
	}
}

// TitleCheck validates the document title and records it on the page.
// Beyond presence, it estimates the rendered pixel width of the title
// using a per-character width table and warns when the title would be
// truncated in search result listings.
type TitleCheck struct {
	// widthLimit is the estimated display width budget in pixels.
	widthLimit float64
}

// NewTitleCheck creates a TitleCheck with the default width limit.
func NewTitleCheck() *TitleCheck {
	return &TitleCheck{widthLimit: titleWidthLimit}
}

// Name returns the check name.
func (c *TitleCheck) Name() string { return "title" }

// Category returns the gating category.
func (c *TitleCheck) Category() Category { return CategorySEO }

// Run validates the title tag.
func (c *TitleCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	page.Title = title

	if title == "" {
		page.AddError("SEO: Missing or empty <title> tag")
		return
	}

	if width := estimateTextWidth(title); width > c.widthLimit {
		page.AddWarning(fmt.Sprintf(
			"SEO: Title is too wide to display fully (estimated %.0f of %.0f pixels)",
			width, c.widthLimit))
	}
}

// MetaDescriptionCheck requires a <meta name="description"> tag.
type MetaDescriptionCheck struct{}

// NewMetaDescriptionCheck creates a MetaDescriptionCheck.
func NewMetaDescriptionCheck() *MetaDescriptionCheck {
	return &MetaDescriptionCheck{}
}

// Name returns the check name.
func (c *MetaDescriptionCheck) Name() string { return "meta-description" }

// Category returns the gating category.
func (c *MetaDescriptionCheck) Category() Category { return CategorySEO }

// Run checks for the meta description tag.
func (c *MetaDescriptionCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	if doc.Find(`meta[name="description"]`).Length() == 0 {
		page.AddError("SEO: Missing meta description tag")
	}
}

// maxH1Words is the word budget for a single <h1> heading.
const maxH1Words = 12

// H1LengthCheck warns about h1 headings longer than maxH1Words words.
type H1LengthCheck struct{}

// NewH1LengthCheck creates an H1LengthCheck.
func NewH1LengthCheck() *H1LengthCheck {
	return &H1LengthCheck{}
}

// Name returns the check name.
func (c *H1LengthCheck) Name() string { return "h1-length" }

// Category returns the gating category.
func (c *H1LengthCheck) Category() Category { return CategorySEO }

// Run checks every h1 heading's word count.
func (c *H1LengthCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(strings.Fields(text)) > maxH1Words {
			page.AddWarning(fmt.Sprintf("SEO: <h1> exceeds %d words: %q", maxH1Words, text))
		}
	})
}

// AnchorHrefCheck flags anchor elements without an href attribute.
// Such anchors are not link candidates for the crawl; they are treated
// as malformed markup instead.
type AnchorHrefCheck struct{}

// NewAnchorHrefCheck creates an AnchorHrefCheck.
func NewAnchorHrefCheck() *AnchorHrefCheck {
	return &AnchorHrefCheck{}
}

// Name returns the check name.
func (c *AnchorHrefCheck) Name() string { return "anchor-href" }

// Category returns the gating category.
func (c *AnchorHrefCheck) Category() Category { return CategorySEO }

// Run flags each anchor lacking an href.
func (c *AnchorHrefCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) {
		return
	}

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("href"); !ok {
			page.AddError("SEO: <a> tag without an href attribute")
		}
	})
}

// ImageValidityCheck fetches every <img src> and flags sources that are
// unreachable or do not serve image content.
type ImageValidityCheck struct {
	// client performs the image fetches. Injected by the crawl engine so
	// image probes share the page fetch transport.
	client *http.Client
}

// NewImageValidityCheck creates an ImageValidityCheck using the default
// HTTP client until one is injected.
func NewImageValidityCheck() *ImageValidityCheck {
	return &ImageValidityCheck{client: http.DefaultClient}
}

// SetHTTPClient injects the HTTP client used for image probes.
func (c *ImageValidityCheck) SetHTTPClient(client *http.Client) {
	c.client = client
}

// Name returns the check name.
func (c *ImageValidityCheck) Name() string { return "image-validity" }

// Category returns the gating category.
func (c *ImageValidityCheck) Category() Category { return CategorySEO }

// Run probes each image source referenced by the page.
func (c *ImageValidityCheck) Run(opts Options, doc *goquery.Document, page *model.PageRecord) {
	if !opts.Enabled(c.Category()) || c.client == nil {
		return
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}

		ref, err := url.Parse(src)
		if err != nil {
			page.AddError(fmt.Sprintf("SEO: Unreachable image: %s", src))
			return
		}

		resp, err := c.client.Get(base.ResolveReference(ref).String())
		if err != nil {
			page.AddError(fmt.Sprintf("SEO: Unreachable image: %s", src))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			page.AddError(fmt.Sprintf("SEO: Unreachable image: %s (HTTP %d)", src, resp.StatusCode))
			return
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image") {
			page.AddError(fmt.Sprintf("SEO: Image source does not serve image content: %s (%s)", src, ct))
		}
	})
}
