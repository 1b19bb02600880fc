package checks

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sitecheck/sitecheck/internal/model"
)

// Category groups checks by the option flag that gates them.
type Category string

const (
	// CategorySEO covers search engine optimization rules.
	CategorySEO Category = "seo"

	// CategoryAccessibility covers accessibility rules.
	CategoryAccessibility Category = "accessibility"

	// CategorySocialMedia covers social media metadata rules.
	CategorySocialMedia Category = "social-media"

	// CategoryPerformance covers load-time classification. It is not
	// gated by any option flag and always runs.
	CategoryPerformance Category = "performance"
)

// Options selects which check categories run against each page.
// The zero value disables everything except performance classification.
type Options struct {
	// SEO enables search engine optimization checks.
	SEO bool

	// Accessibility enables accessibility checks.
	Accessibility bool

	// SocialMedia enables social media metadata checks.
	SocialMedia bool
}

// DefaultOptions mirrors the CLI defaults: SEO and accessibility on,
// social media off.
func DefaultOptions() Options {
	return Options{SEO: true, Accessibility: true}
}

// Enabled reports whether the given category should run under these options.
func (o Options) Enabled(c Category) bool {
	switch c {
	case CategorySEO:
		return o.SEO
	case CategoryAccessibility:
		return o.Accessibility
	case CategorySocialMedia:
		return o.SocialMedia
	case CategoryPerformance:
		return true
	default:
		return false
	}
}

// Check is a single validation run against one page's parsed document.
// Implementations early-return when their category is disabled, and
// otherwise append diagnostics to the page record.
//
// Design decision: We use an interface rather than bare function types
// because:
//  1. Checks can carry configuration state (width table, HTTP client)
//  2. Name() and Category() support logging and option gating
//  3. It mirrors how the registry is assembled once at startup
type Check interface {
	// Name returns the check's name for logging and reporting.
	Name() string

	// Category returns the option category that gates this check.
	Category() Category

	// Run inspects the document and appends findings to the page record.
	Run(opts Options, doc *goquery.Document, page *model.PageRecord)
}

// Default returns the full built-in check battery in its fixed order.
// The order is stable within a release but carries no semantic meaning.
func Default() []Check {
	return []Check{
		NewHeadingStructureCheck(),
		NewTitleCheck(),
		NewMetaDescriptionCheck(),
		NewH1LengthCheck(),
		NewAnchorHrefCheck(),
		NewImageValidityCheck(),
		NewSocialMetaCheck(),
		NewAccessibleNameCheck(),
		NewImageAltCheck(),
		NewSVGCheck(),
		NewAriaRoleCheck(),
		NewFormLabelCheck(),
		NewPerformanceCheck(),
	}
}

// HTTPClientSetter is implemented by checks that need an HTTP client
// (currently only the image validity check).
type HTTPClientSetter interface {
	SetHTTPClient(client *http.Client)
}

// SetHTTPClient injects an HTTP client into every check that wants one.
func SetHTTPClient(battery []Check, client *http.Client) {
	for _, c := range battery {
		if setter, ok := c.(HTTPClientSetter); ok {
			setter.SetHTTPClient(client)
		}
	}
}

// ariaHidden reports whether the node or any of its ancestors carries
// aria-hidden="true". The walk up the parent chain is iterative so that
// pathological DOM depth cannot exhaust the stack.
func ariaHidden(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if strings.EqualFold(nodeAttr(cur, "aria-hidden"), "true") {
			return true
		}
	}
	return false
}

// hasAccessibleContent reports whether the node or any descendant provides
// an accessible name: non-whitespace text content or an aria-label.
func hasAccessibleContent(n *html.Node) bool {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
		return true
	}
	if n.Type == html.ElementNode && strings.TrimSpace(nodeAttr(n, "aria-label")) != "" {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasAccessibleContent(c) {
			return true
		}
	}
	return false
}

// nodeAttr retrieves an attribute value from an HTML node.
func nodeAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
