package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/llmscope/llmscope/pkg/models"
)

const ollamaDefaultBaseURL = "http://localhost:11434"

// ollamaTimeout is generous: local inference is slow and unratelimited.
const ollamaTimeout = 5 * time.Minute

// Ollama drives a local Ollama instance. No credential is required.
type Ollama struct {
	settings models.ProviderSettings
	client   *http.Client
}

// NewOllama creates an Ollama adapter from the given settings.
func NewOllama(settings models.ProviderSettings) *Ollama {
	return &Ollama{
		settings: settings,
		client:   &http.Client{Timeout: ollamaTimeout},
	}
}

func (a *Ollama) Name() string { return string(models.ProviderOllama) }

// ValidateConfig checks required fields without touching the network.
func (a *Ollama) ValidateConfig() error {
	if a.settings.Model == "" {
		return &ConfigError{Provider: a.Name(), Field: "model"}
	}
	return nil
}

type ollamaOptions struct {
	Temperature float64  `json:"temperature"`
	NumPredict  *int     `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Response        string `json:"response"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	TotalDuration   int64  `json:"total_duration"`
	EvalDuration    int64  `json:"eval_duration"`
}

// Generate issues one completion. Ollama has no native system role for
// /api/generate, so the system prompt is concatenated ahead of the user
// prompt; sampling options nest under the options sub-structure.
func (a *Ollama) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResponse, error) {
	temp := defaultTemperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	prompt := req.Prompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + req.Prompt
	}

	payload := ollamaRequest{
		Model:  a.settings.Model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: temp,
			NumPredict:  req.MaxTokens,
			Stop:        req.Stop,
		},
	}

	base := a.settings.BaseURL
	if base == "" {
		base = ollamaDefaultBaseURL
	}
	endpoint := strings.TrimRight(base, "/") + "/api/generate"

	body, latency, err := postJSON(ctx, a.client, a.Name(), endpoint, nil, payload)
	if err != nil {
		return nil, err
	}

	var out ollamaResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Provider: a.Name(), Message: "malformed response body", Err: err}
	}

	resp := &models.GenerationResponse{
		Text:         out.Response,
		FinishReason: out.DoneReason,
		LatencyMs:    latency,
		Metadata:     map[string]string{},
	}
	// Usage is derived from token counts only when the backend reports them.
	if out.PromptEvalCount > 0 || out.EvalCount > 0 {
		resp.Usage = &models.Usage{
			PromptTokens:     out.PromptEvalCount,
			CompletionTokens: out.EvalCount,
			TotalTokens:      out.PromptEvalCount + out.EvalCount,
		}
	}
	if out.TotalDuration > 0 {
		resp.Metadata["total_duration"] = strconv.FormatInt(out.TotalDuration, 10)
	}
	if out.EvalDuration > 0 {
		resp.Metadata["eval_duration"] = strconv.FormatInt(out.EvalDuration, 10)
	}
	return resp, nil
}

// TestConnection issues one minimal generation and absorbs any failure.
func (a *Ollama) TestConnection(ctx context.Context) bool {
	maxTokens := 5
	_, err := a.Generate(ctx, models.GenerationRequest{Prompt: "ping", MaxTokens: &maxTokens})
	return err == nil
}
