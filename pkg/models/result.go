package models

// RiskLevel grades a side-channel finding.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Score maps a risk level to an ordinal used for averaging in comparisons.
func (r RiskLevel) Score() float64 {
	switch r {
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 1
	}
}

// SuiteResult is one scored test outcome. The Suite tag decides which
// fields are meaningful: censorship and bias results carry prompt identity
// and response text, side-channel results carry a probe name, anomalies and
// a risk level.
type SuiteResult struct {
	Suite        string    `json:"suite"`
	PromptID     string    `json:"prompt_id,omitempty"`
	Category     string    `json:"category,omitempty"`
	Prompt       string    `json:"prompt,omitempty"`
	Response     string    `json:"response,omitempty"`
	FinishReason string    `json:"finish_reason,omitempty"`
	Refused      bool      `json:"refused,omitempty"`
	MatchedTerms []string  `json:"matched_terms,omitempty"`
	Neutrality   *float64  `json:"neutrality,omitempty"`
	TestName     string    `json:"test_name,omitempty"`
	Anomalies    []string  `json:"anomalies,omitempty"`
	Risk         RiskLevel `json:"risk,omitempty"`
	LatencyMs    int64     `json:"latency_ms"`

	// Metadata carries per-result annotations, including the "error" key
	// when the underlying generation call failed.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Errored reports whether this result records a failed generation call.
func (r SuiteResult) Errored() bool {
	_, ok := r.Metadata["error"]
	return ok
}
