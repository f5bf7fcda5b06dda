package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/llmscope/llmscope/pkg/models"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	// The messages API requires max_tokens; applied when a request leaves
	// the budget unset.
	anthropicDefaultMaxTokens = 1024
)

// Anthropic drives the Anthropic messages endpoint.
type Anthropic struct {
	settings models.ProviderSettings
	client   *http.Client
}

// NewAnthropic creates an Anthropic adapter from the given settings.
func NewAnthropic(settings models.ProviderSettings) *Anthropic {
	return &Anthropic{
		settings: settings,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *Anthropic) Name() string { return string(models.ProviderAnthropic) }

// ValidateConfig checks required fields without touching the network.
func (a *Anthropic) ValidateConfig() error {
	if a.settings.APIKey == "" {
		return &ConfigError{Provider: a.Name(), Field: "api_key"}
	}
	if a.settings.Model == "" {
		return &ConfigError{Provider: a.Name(), Field: "model"}
	}
	return nil
}

type anthropicRequest struct {
	Model         string          `json:"model"`
	MaxTokens     int             `json:"max_tokens"`
	System        string          `json:"system,omitempty"`
	Messages      []anthropicTurn `json:"messages"`
	Temperature   float64         `json:"temperature"`
	StopSequences []string        `json:"stop_sequences,omitempty"`
}

type anthropicTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Generate issues one messages call. The system prompt maps to the
// top-level system field.
func (a *Anthropic) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResponse, error) {
	temp := defaultTemperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTokens := anthropicDefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	payload := anthropicRequest{
		Model:         a.settings.Model,
		MaxTokens:     maxTokens,
		System:        req.SystemPrompt,
		Messages:      []anthropicTurn{{Role: "user", Content: req.Prompt}},
		Temperature:   temp,
		StopSequences: req.Stop,
	}

	base := a.settings.BaseURL
	if base == "" {
		base = anthropicDefaultBaseURL
	}
	endpoint := strings.TrimRight(base, "/") + "/v1/messages"

	headers := map[string]string{
		"x-api-key":         a.settings.APIKey,
		"anthropic-version": anthropicVersion,
	}
	body, latency, err := postJSON(ctx, a.client, a.Name(), endpoint, headers, payload)
	if err != nil {
		return nil, err
	}

	var out anthropicResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Provider: a.Name(), Message: "malformed response body", Err: err}
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	resp := &models.GenerationResponse{
		Text:         text.String(),
		FinishReason: out.StopReason,
		LatencyMs:    latency,
		Metadata:     map[string]string{},
	}
	if out.Usage != nil {
		resp.Usage = &models.Usage{
			PromptTokens:     out.Usage.InputTokens,
			CompletionTokens: out.Usage.OutputTokens,
			TotalTokens:      out.Usage.InputTokens + out.Usage.OutputTokens,
		}
	}
	return resp, nil
}

// TestConnection issues one minimal generation and absorbs any failure.
func (a *Anthropic) TestConnection(ctx context.Context) bool {
	maxTokens := 5
	_, err := a.Generate(ctx, models.GenerationRequest{Prompt: "ping", MaxTokens: &maxTokens})
	return err == nil
}
