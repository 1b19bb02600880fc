package model

// Score is the qualitative performance classification of a page load.
//
// Design decision: We use string constants rather than iota-based integers
// because the score is primarily an output value: it appears verbatim in
// JSON reports and terminal output, and has no ordering logic beyond the
// bucket thresholds below.
type Score string

const (
	// ScoreExcellent means the page loaded in under 1000ms.
	ScoreExcellent Score = "excellent"

	// ScoreGood means the page loaded in under 2500ms.
	ScoreGood Score = "good"

	// ScoreNeedsImprovement means the page loaded in under 4000ms.
	ScoreNeedsImprovement Score = "needs-improvement"

	// ScorePoor means the page took 4000ms or longer to load.
	ScorePoor Score = "poor"
)

// Load-time bucket thresholds in milliseconds.
const (
	// ExcellentThresholdMillis is the upper bound for an excellent load.
	ExcellentThresholdMillis = 1000

	// GoodThresholdMillis is the upper bound for a good load. Loads above
	// this threshold are also reported as a warning.
	GoodThresholdMillis = 2500

	// PoorThresholdMillis is the bound above which a load is poor. Loads
	// above this threshold are reported as an error.
	PoorThresholdMillis = 4000
)

// ClassifyLoadingTime maps a load time in milliseconds to its Score bucket.
func ClassifyLoadingTime(millis int64) Score {
	switch {
	case millis < ExcellentThresholdMillis:
		return ScoreExcellent
	case millis < GoodThresholdMillis:
		return ScoreGood
	case millis < PoorThresholdMillis:
		return ScoreNeedsImprovement
	default:
		return ScorePoor
	}
}
