package model

// PageRecord is the accumulated result for one crawled page.
// It is created the moment a page's fetch resolves (success or failure),
// populated synchronously within one batch iteration, and never touched
// again: there is no revisiting and no merging of two fetches of the
// same path.
//
// Design decision: Diagnostics are stored as human-readable strings rather
// than structured finding types because:
//  1. Checks are independent and their findings are only ever displayed
//     or deduplicated by string equality
//  2. The JSON report format exposes them verbatim
//  3. New checks can be added without touching the model
type PageRecord struct {
	// URL is the canonical absolute URL of the page. This is also the key
	// under which the record is stored. Immutable once set.
	URL string `json:"url"`

	// Depth is the distance in hops from the seed page, starting at 1.
	// It is set at first discovery and never revised; breadth-first batch
	// ordering guarantees the first-discovery depth is minimal.
	Depth int `json:"depth"`

	// Title is the page title, populated by the title check.
	Title string `json:"title,omitempty"`

	// Headings maps heading level (1-6) to the ordered heading texts found
	// on the page. Populated by the heading structure check.
	Headings map[int][]string `json:"headings,omitempty"`

	// LoadingTime is the fetch-to-body-read latency in milliseconds.
	LoadingTime int64 `json:"loadingTime"`

	// Score is the qualitative performance bucket for LoadingTime.
	// Assigned by the performance check; empty in sitemap mode.
	Score Score `json:"score,omitempty"`

	// Errors holds diagnostic strings appended by checks, in check order.
	Errors []string `json:"errors"`

	// Warnings holds warning strings appended by checks, in check order.
	Warnings []string `json:"warnings"`

	// Failed is true if the page itself could not be fetched successfully.
	// Failed pages carry no content fields and are excluded from sitemap
	// output.
	Failed bool `json:"error"`
}

// NewPageRecord creates an empty record for the given canonical URL and
// discovery depth.
func NewPageRecord(url string, depth int) *PageRecord {
	return &PageRecord{
		URL:      url,
		Depth:    depth,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}
}

// AddError appends a diagnostic error string to the record.
func (p *PageRecord) AddError(msg string) {
	p.Errors = append(p.Errors, msg)
}

// AddWarning appends a warning string to the record.
func (p *PageRecord) AddWarning(msg string) {
	p.Warnings = append(p.Warnings, msg)
}

// AddHeading records a heading text under the given level (1-6).
func (p *PageRecord) AddHeading(level int, text string) {
	if p.Headings == nil {
		p.Headings = make(map[int][]string)
	}
	p.Headings[level] = append(p.Headings[level], text)
}
