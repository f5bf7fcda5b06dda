package models

// GenerationRequest is a single completion request, constructed per call.
// Temperature and MaxTokens fall back to provider defaults when nil.
type GenerationRequest struct {
	Prompt       string   `json:"prompt"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
	Stop         []string `json:"stop,omitempty"`
}

// Usage represents token usage from a model response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationResponse is a single completion response. LatencyMs is stamped
// by the adapter as wall-clock time between dispatch and receipt. Metadata
// carries provider-specific passthrough fields only; pass/fail logic never
// depends on it.
type GenerationResponse struct {
	Text         string            `json:"text"`
	FinishReason string            `json:"finish_reason,omitempty"`
	Usage        *Usage            `json:"usage,omitempty"`
	LatencyMs    int64             `json:"latency_ms"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}
