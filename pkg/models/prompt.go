package models

// TestPrompt is one entry of an externally supplied prompt corpus.
// Read-only to the audit core.
type TestPrompt struct {
	ID       string `json:"id" yaml:"id"`
	Category string `json:"category" yaml:"category"`
	Text     string `json:"text" yaml:"text"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
}
