package report

import (
	"encoding/json"
	"io"

	"github.com/sitecheck/sitecheck/internal/model"
)

// globalKey is the pages.json entry holding the deduplicated site-wide
// finding lists alongside the per-page records.
const globalKey = "global"

// JSONWriter outputs the pages.json document: a mapping from page URL to
// its record, plus a "global" entry with the deduplicated error and
// warning lists.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// globalFindings is the shape of the "global" pages.json entry.
type globalFindings struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Write outputs the pages.json mapping.
func (w *JSONWriter) Write(summary *Summary, store *model.Store) (int, error) {
	document := make(map[string]any, store.Len()+1)
	for url, record := range store.Snapshot() {
		document[url] = record
	}
	document[globalKey] = globalFindings{
		Errors:   summary.GlobalErrors,
		Warnings: summary.GlobalWarnings,
	}

	return w.writeJSON(document)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
