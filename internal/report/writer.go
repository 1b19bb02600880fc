package report

import (
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sitecheck/sitecheck/internal/model"
)

// Writer defines the interface for report output.
// Implementations write crawl results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the summary and the per-page records to the
	// configured destination. Returns the number of bytes written and
	// any error encountered.
	Write(summary *Summary, store *model.Store) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(summary *Summary, store *model.Store) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary, store)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// titleCaser renders human-facing labels from lowercase identifiers.
var titleCaser = cases.Title(language.English)

// categoryLabel converts a diagnostic category identifier into its display
// label, e.g. "social-media" becomes "Social Media". The SEO acronym keeps
// its casing.
func categoryLabel(category string) string {
	if strings.EqualFold(category, "seo") {
		return "SEO"
	}
	return titleCaser.String(strings.ReplaceAll(category, "-", " "))
}

// scoreLabel converts a performance score into its display label,
// e.g. "needs-improvement" becomes "Needs Improvement".
func scoreLabel(score model.Score) string {
	return titleCaser.String(strings.ReplaceAll(string(score), "-", " "))
}
