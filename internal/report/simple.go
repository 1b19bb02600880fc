package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sitecheck/sitecheck/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables the per-page breakdown in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables the per-page breakdown with individual findings.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(summary *Summary, store *model.Store) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSummary(&sb, summary)
	w.writeGlobalFindings(&sb, summary)
	if w.verbose {
		w.writePages(&sb, store)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SITECHECK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target:        %s\n", summary.Target))
	sb.WriteString(fmt.Sprintf("Date:          %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Crawled: %d\n", summary.PageCount))
	if len(summary.Categories) > 0 {
		labels := make([]string, len(summary.Categories))
		for i, c := range summary.Categories {
			labels[i] = categoryLabel(c)
		}
		sb.WriteString(fmt.Sprintf("Checks:        %s\n", strings.Join(labels, ", ")))
	}

	if summary.FailedPages > 0 {
		sb.WriteString(fmt.Sprintf("Status:        %d page(s) failed\n", summary.FailedPages))
	} else {
		sb.WriteString("Status:        Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the finding count summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, summary *Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  ERRORS:   %d total, %d unique\n", summary.TotalErrors, len(summary.GlobalErrors)))
	sb.WriteString(fmt.Sprintf("  WARNINGS: %d total, %d unique\n", summary.TotalWarnings, len(summary.GlobalWarnings)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  robots.txt:  %s\n", w.availabilityText(summary.RobotsTxtFound)))
	sb.WriteString(fmt.Sprintf("  sitemap.xml: %s\n", w.availabilityText(summary.SitemapXMLFound)))
	sb.WriteString("\n")
}

// availabilityText renders a well-known file probe result.
func (w *SimpleWriter) availabilityText(found bool) string {
	if found {
		return "found"
	}
	return "MISSING"
}

// writeGlobalFindings writes the deduplicated site-wide finding lists.
func (w *SimpleWriter) writeGlobalFindings(sb *strings.Builder, summary *Summary) {
	if !summary.HasFindings() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SITE-WIDE FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !summary.HasFindings() {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, e := range summary.GlobalErrors {
		sb.WriteString(fmt.Sprintf("  [x] %s\n", e))
	}
	for _, warning := range summary.GlobalWarnings {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", warning))
	}
	sb.WriteString("\n")
}

// writePages writes the per-page breakdown.
func (w *SimpleWriter) writePages(sb *strings.Builder, store *model.Store) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, record := range store.Records() {
		sb.WriteString(fmt.Sprintf("  %s (depth %d)\n", record.URL, record.Depth))
		if record.Failed {
			sb.WriteString("    Status: FAILED\n")
		} else {
			sb.WriteString(fmt.Sprintf("    Load: %dms (%s)\n", record.LoadingTime, scoreLabel(record.Score)))
		}
		for _, e := range record.Errors {
			sb.WriteString(fmt.Sprintf("    [x] %s\n", e))
		}
		for _, warning := range record.Warnings {
			sb.WriteString(fmt.Sprintf("    [!] %s\n", warning))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sitecheck\n")
	sb.WriteString("https://github.com/sitecheck/sitecheck\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
