package checks

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitecheck/sitecheck/internal/model"
)

// PerformanceCheck classifies the page's fetch-to-body-read latency into
// a qualitative score and raises diagnostics for slow loads. It has no
// gating flag: a score is always assigned.
type PerformanceCheck struct{}

// NewPerformanceCheck creates a PerformanceCheck.
func NewPerformanceCheck() *PerformanceCheck {
	return &PerformanceCheck{}
}

// Name returns the check name.
func (c *PerformanceCheck) Name() string { return "performance" }

// Category returns the gating category.
func (c *PerformanceCheck) Category() Category { return CategoryPerformance }

// Run assigns the score bucket and flags slow loads.
func (c *PerformanceCheck) Run(_ Options, _ *goquery.Document, page *model.PageRecord) {
	millis := page.LoadingTime
	page.Score = model.ClassifyLoadingTime(millis)

	switch {
	case millis > model.PoorThresholdMillis:
		page.AddError(fmt.Sprintf("Performance: Page load took %dms (limit %dms)",
			millis, model.PoorThresholdMillis))
	case millis > model.GoodThresholdMillis:
		page.AddWarning(fmt.Sprintf("Performance: Page load took %dms (target %dms)",
			millis, model.GoodThresholdMillis))
	}
}
