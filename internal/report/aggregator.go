package report

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/sitecheck/sitecheck/internal/model"
)

// Summary is the site-wide view of a completed crawl: deduplicated global
// finding lists, raw totals, and availability of the well-known files.
type Summary struct {
	// Target is the crawled base URL.
	Target string `json:"target"`

	// GeneratedAt is when the summary was computed.
	GeneratedAt time.Time `json:"generatedAt"`

	// PageCount is the number of page records in the store, failed
	// pages included.
	PageCount int `json:"pageCount"`

	// Categories lists the check category identifiers that were enabled
	// for the run, e.g. "seo", "accessibility". Set by the caller.
	Categories []string `json:"categories,omitempty"`

	// FailedPages counts records flagged as failed (HTTP, transport, or
	// parse errors).
	FailedPages int `json:"failedPages"`

	// GlobalErrors is the union of every page's errors, deduplicated by
	// string equality, in first-seen crawl order.
	GlobalErrors []string `json:"errors"`

	// GlobalWarnings is the deduplicated union of every page's warnings.
	GlobalWarnings []string `json:"warnings"`

	// TotalErrors sums error counts across all pages without dedup.
	TotalErrors int `json:"totalErrors"`

	// TotalWarnings sums warning counts across all pages without dedup.
	TotalWarnings int `json:"totalWarnings"`

	// RobotsTxtFound reports whether /robots.txt answered with a
	// success status at the origin.
	RobotsTxtFound bool `json:"robotsTxtFound"`

	// SitemapXMLFound reports whether /sitemap.xml answered with a
	// success status at the origin.
	SitemapXMLFound bool `json:"sitemapXmlFound"`
}

// HasFindings reports whether any page produced an error or warning.
func (s *Summary) HasFindings() bool {
	return len(s.GlobalErrors) > 0 || len(s.GlobalWarnings) > 0
}

// Aggregator computes a Summary from a completed page record store.
//
// Design decision: The well-known file probes (robots.txt, sitemap.xml)
// live here rather than in the crawler because the crawler deliberately
// skips those paths during traversal; their availability is a report-time
// fact about the site, not a crawl candidate.
type Aggregator struct {
	// client performs the well-known file probes. When nil the probes
	// are skipped and both availability flags stay false.
	client *http.Client
}

// NewAggregator creates an Aggregator. Pass a nil client to disable the
// robots.txt/sitemap.xml availability probes.
func NewAggregator(client *http.Client) *Aggregator {
	return &Aggregator{client: client}
}

// Aggregate collapses the store into a Summary. Global lists are unions
// with string-equality dedup preserving first-seen order; totals are plain
// sums across pages.
func (a *Aggregator) Aggregate(ctx context.Context, base *url.URL, store *model.Store) *Summary {
	summary := &Summary{
		GeneratedAt:    time.Now(),
		PageCount:      store.Len(),
		GlobalErrors:   []string{},
		GlobalWarnings: []string{},
	}
	if base != nil {
		summary.Target = base.String()
	}

	seenErrors := make(map[string]bool)
	seenWarnings := make(map[string]bool)
	for _, record := range store.Records() {
		if record.Failed {
			summary.FailedPages++
		}
		summary.TotalErrors += len(record.Errors)
		summary.TotalWarnings += len(record.Warnings)

		for _, e := range record.Errors {
			if seenErrors[e] {
				continue
			}
			seenErrors[e] = true
			summary.GlobalErrors = append(summary.GlobalErrors, e)
		}
		for _, w := range record.Warnings {
			if seenWarnings[w] {
				continue
			}
			seenWarnings[w] = true
			summary.GlobalWarnings = append(summary.GlobalWarnings, w)
		}
	}

	if a.client != nil && base != nil {
		summary.RobotsTxtFound = a.probe(ctx, base, "/robots.txt")
		summary.SitemapXMLFound = a.probe(ctx, base, "/sitemap.xml")
	}

	return summary
}

// probe checks whether a well-known file answers with a success status at
// the origin root.
func (a *Aggregator) probe(ctx context.Context, base *url.URL, path string) bool {
	target := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: path}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return false
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
