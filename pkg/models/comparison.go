package models

import "time"

// Significance tiers a metric difference between two runs.
type Significance string

const (
	SignificanceLow    Significance = "low"
	SignificanceMedium Significance = "medium"
	SignificanceHigh   Significance = "high"
)

// Difference is one classified metric delta between two completed runs.
// ValueA and ValueB are numeric for every built-in metric but stay open
// for opaque values.
type Difference struct {
	Category     string       `json:"category"`
	Metric       string       `json:"metric"`
	ValueA       any          `json:"value_a"`
	ValueB       any          `json:"value_b"`
	Delta        float64      `json:"delta"`
	Significance Significance `json:"significance"`
}

// DiffSummary rolls up a comparison's differences.
type DiffSummary struct {
	TotalDifferences int `json:"total_differences"`
	Significant      int `json:"significant"`
	ModelABetter     int `json:"model_a_better"`
	ModelBBetter     int `json:"model_b_better"`
}

// ComparisonRecord is the immutable result of diffing two completed runs.
type ComparisonRecord struct {
	ID          string       `json:"id"`
	ModelAID    string       `json:"model_a_id"`
	ModelBID    string       `json:"model_b_id"`
	ModelAName  string       `json:"model_a_name"`
	ModelBName  string       `json:"model_b_name"`
	SuiteLabel  string       `json:"suite_label"`
	Differences []Difference `json:"differences"`
	Summary     DiffSummary  `json:"summary"`
	CreatedAt   time.Time    `json:"created_at"`
}
