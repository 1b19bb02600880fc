// Package report provides crawl result aggregation and output functionality.
//
// This package contains the Aggregator, which collapses per-page findings
// into site-wide summaries, and writers for different output formats:
//   - JSONWriter: the pages.json mapping for tool integration
//   - SimpleWriter: human-readable text output for terminal display
//   - MarkdownWriter: Markdown output for documentation and sharing
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
