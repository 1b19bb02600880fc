package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/sitecheck/sitecheck/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary, store *model.Store) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSummary(md, summary)
	w.writeGlobalFindings(md, summary)
	w.writePages(md, store)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Sitecheck Report")
	md.PlainText("")

	rows := [][]string{
		{"Target", "`" + summary.Target + "`"},
		{"Date", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Pages Crawled", strconv.Itoa(summary.PageCount)},
		{"Failed Pages", strconv.Itoa(summary.FailedPages)},
		{"robots.txt", w.availabilityText(summary.RobotsTxtFound)},
		{"sitemap.xml", w.availabilityText(summary.SitemapXMLFound)},
	}
	if len(summary.Categories) > 0 {
		labels := make([]string, len(summary.Categories))
		for i, c := range summary.Categories {
			labels[i] = categoryLabel(c)
		}
		rows = append(rows, []string{"Checks", strings.Join(labels, ", ")})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// availabilityText renders a well-known file probe result.
func (w *MarkdownWriter) availabilityText(found bool) string {
	if found {
		return "✅ found"
	}
	return "❌ missing"
}

// writeSummary writes the finding count summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Findings", "Total", "Unique"},
		Rows: [][]string{
			{"Errors", strconv.Itoa(summary.TotalErrors), strconv.Itoa(len(summary.GlobalErrors))},
			{"Warnings", strconv.Itoa(summary.TotalWarnings), strconv.Itoa(len(summary.GlobalWarnings))},
		},
	})
	md.PlainText("")

	switch {
	case summary.TotalErrors > 0:
		md.Warningf(
			"%d error(s) detected across %d page(s).",
			summary.TotalErrors, summary.PageCount,
		)
	case summary.TotalWarnings > 0:
		md.Note(fmt.Sprintf(
			"No errors, but %d warning(s) worth reviewing.",
			summary.TotalWarnings,
		))
	default:
		md.Tip("No issues detected.")
	}
	md.PlainText("")
}

// writeGlobalFindings writes the deduplicated site-wide finding lists.
func (w *MarkdownWriter) writeGlobalFindings(md *markdown.Markdown, summary *Summary) {
	md.H2("Site-Wide Findings")
	md.PlainText("")

	if !summary.HasFindings() {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	if len(summary.GlobalErrors) > 0 {
		md.H3("Errors")
		md.PlainText("")
		md.BulletList(summary.GlobalErrors...)
		md.PlainText("")
	}

	if len(summary.GlobalWarnings) > 0 {
		md.H3("Warnings")
		md.PlainText("")
		md.BulletList(summary.GlobalWarnings...)
		md.PlainText("")
	}
}

// writePages writes the per-page result table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, store *model.Store) {
	md.H2("Pages")
	md.PlainText("")

	records := store.Records()
	rows := make([][]string, len(records))
	for i, record := range records {
		status := "OK"
		if record.Failed {
			status = "FAILED"
		}
		score := "-"
		if !record.Failed && record.Score != "" {
			score = scoreLabel(record.Score)
		}

		rows[i] = []string{
			"`" + record.URL + "`",
			strconv.Itoa(record.Depth),
			status,
			strconv.FormatInt(record.LoadingTime, 10) + "ms",
			score,
			strconv.Itoa(len(record.Errors)),
			strconv.Itoa(len(record.Warnings)),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Depth", "Status", "Load", "Score", "Errors", "Warnings"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitecheck](https://github.com/sitecheck/sitecheck)*")
}
