package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitecheck/sitecheck/internal/model"
)

// ExtractLinks scans the document for anchor hrefs, resolves them against
// the base URL, and returns the canonical same-origin targets in document
// order. Links already recorded in the store and duplicates within this
// pass are excluded, so running the extractor twice over the same document
// and store yields the same candidate set.
//
// Anchors without an href are not link candidates; the SEO battery flags
// them as malformed instead.
func ExtractLinks(doc *goquery.Document, base *url.URL, store *model.Store) []string {
	links := make([]string, 0)
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		canonical, ok := CanonicalURL(base, href)
		if !ok {
			return
		}
		if seen[canonical] || store.Has(canonical) {
			return
		}
		seen[canonical] = true
		links = append(links, canonical)
	})

	return links
}

// CanonicalURL resolves href against base and returns the canonical form
// used as the single deduplication key everywhere: the resolved absolute
// URL with the fragment stripped and an empty path normalized to "/".
// It returns false for non-navigable hrefs and for targets whose scheme
// or host differ from the base (cross-origin links are never followed).
func CanonicalURL(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(u)
	if resolved.Scheme != base.Scheme || !strings.EqualFold(resolved.Host, base.Host) {
		return "", false
	}

	resolved.Fragment = ""
	if resolved.Path == "" {
		resolved.Path = "/"
	}
	return resolved.String(), true
}
