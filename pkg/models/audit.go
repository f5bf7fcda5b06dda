package models

import "time"

// RunStatus is the lifecycle state of an audit run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Summary aggregates per-test outcomes across every suite of a run.
type Summary struct {
	TotalTests    int     `json:"total_tests"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	Errors        int     `json:"errors"`
	MeanLatencyMs float64 `json:"mean_latency_ms"`
}

// AuditRecord is the persisted state of one audit run. It is created in
// running state before any suite executes and mutated exactly once at its
// terminal transition.
type AuditRecord struct {
	ID          string                   `json:"id"`
	ModelID     string                   `json:"model_id"`
	Suites      []string                 `json:"suites"`
	Status      RunStatus                `json:"status"`
	Results     map[string][]SuiteResult `json:"results,omitempty"`
	Summary     *Summary                 `json:"summary,omitempty"`
	Error       string                   `json:"error,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
}
