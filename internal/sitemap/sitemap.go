// Package sitemap renders completed crawl results as a sitemap-protocol
// XML document.
//
// Design decision: We use standard encoding/xml rather than a template or
// a third-party library because:
// 1. The sitemap protocol schema is small and fixed
// 2. The marshaler escapes all text content correctly by construction
// 3. Struct tags document the schema in one place
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sitecheck/sitecheck/internal/model"
)

// xmlns is the sitemap protocol namespace.
const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// changeFreq is the fixed change frequency advertised for every page.
const changeFreq = "daily"

// urlEntry is one <url> element in the sitemap.
type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// urlSet is the <urlset> document root.
type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Renderer turns a completed page record store into sitemap XML. Pages
// flagged as failed are excluded; surviving pages get a priority decaying
// geometrically with crawl depth.
type Renderer struct {
	// now supplies the lastmod timestamp. Injectable for tests.
	now func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock overrides the timestamp source used for lastmod values.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the sitemap XML document for the store to the given
// writer. Records are emitted in crawl discovery order.
func (r *Renderer) Render(w io.Writer, store *model.Store) error {
	lastMod := r.now().Format(time.RFC3339)

	set := urlSet{Xmlns: xmlns}
	for _, record := range store.Records() {
		if record.Failed {
			continue
		}
		set.URLs = append(set.URLs, urlEntry{
			Loc:        record.URL,
			LastMod:    lastMod,
			ChangeFreq: changeFreq,
			Priority:   fmt.Sprintf("%.2f", Priority(record.Depth)),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write sitemap header: %w", err)
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(set); err != nil {
		return fmt.Errorf("failed to encode sitemap: %w", err)
	}

	// The encoder does not terminate the final line.
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}
	return nil
}

// Priority computes the sitemap priority for a page at the given crawl
// depth: 0.8^(depth-1) rounded to two decimals. The root gets 1.00, each
// hop decays geometrically (0.80, 0.64, 0.51, ...).
func Priority(depth int) float64 {
	if depth < 1 {
		depth = 1
	}
	return math.Round(math.Pow(0.8, float64(depth-1))*100) / 100
}
