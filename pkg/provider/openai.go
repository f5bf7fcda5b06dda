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
	openaiDefaultBaseURL = "https://api.openai.com/v1"
	// defaultTemperature is the conservative fallback applied by hosted
	// chat backends when a request leaves temperature unset.
	defaultTemperature = 0.7
)

// OpenAI drives an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	settings models.ProviderSettings
	client   *http.Client
}

// NewOpenAI creates an OpenAI adapter from the given settings.
func NewOpenAI(settings models.ProviderSettings) *OpenAI {
	return &OpenAI{
		settings: settings,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *OpenAI) Name() string { return string(models.ProviderOpenAI) }

// ValidateConfig checks required fields without touching the network.
func (a *OpenAI) ValidateConfig() error {
	if a.settings.APIKey == "" {
		return &ConfigError{Provider: a.Name(), Field: "api_key"}
	}
	if a.settings.Model == "" {
		return &ConfigError{Provider: a.Name(), Field: "model"}
	}
	return nil
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Stop        []string        `json:"stop,omitempty"`
}

type openaiResponse struct {
	Choices []struct {
		Message      openaiMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate issues one chat completion. System and user prompts become
// separate structured messages.
func (a *OpenAI) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResponse, error) {
	temp := defaultTemperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	var messages []openaiMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, openaiMessage{Role: "user", Content: req.Prompt})

	payload := openaiRequest{
		Model:       a.settings.Model,
		Messages:    messages,
		Temperature: temp,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
	}

	base := a.settings.BaseURL
	if base == "" {
		base = openaiDefaultBaseURL
	}
	endpoint := strings.TrimRight(base, "/") + "/chat/completions"

	headers := map[string]string{"Authorization": "Bearer " + a.settings.APIKey}
	body, latency, err := postJSON(ctx, a.client, a.Name(), endpoint, headers, payload)
	if err != nil {
		return nil, err
	}

	var out openaiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Provider: a.Name(), Message: "malformed response body", Err: err}
	}
	if len(out.Choices) == 0 {
		return nil, &Error{Provider: a.Name(), Message: "response has no choices"}
	}

	resp := &models.GenerationResponse{
		Text:         out.Choices[0].Message.Content,
		FinishReason: out.Choices[0].FinishReason,
		LatencyMs:    latency,
		Metadata:     map[string]string{},
	}
	if out.Usage != nil {
		resp.Usage = &models.Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		}
	}
	return resp, nil
}

// TestConnection issues one minimal generation and absorbs any failure.
func (a *OpenAI) TestConnection(ctx context.Context) bool {
	maxTokens := 5
	_, err := a.Generate(ctx, models.GenerationRequest{Prompt: "ping", MaxTokens: &maxTokens})
	return err == nil
}
