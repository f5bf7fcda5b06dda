package provider

import (
	"context"
	"fmt"

	"github.com/llmscope/llmscope/pkg/models"
)

// Adapter is the uniform capability contract over one model backend.
type Adapter interface {
	// Name returns the backend name the adapter was registered under.
	Name() string
	// Generate issues one completion call. The returned response carries
	// adapter-measured latency in LatencyMs. Failures surface as *Error;
	// callers decide whether to continue.
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResponse, error)
	// ValidateConfig checks that required configuration fields are present
	// without making a network call.
	ValidateConfig() error
	// TestConnection issues one minimal real generation call and reports
	// success. This is a health probe: failures are absorbed into false.
	TestConnection(ctx context.Context) bool
}

// Error wraps a failed generation call with the backend's own message.
type Error struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ConfigError reports a missing or invalid adapter configuration field.
// A run never starts on a ConfigError.
type ConfigError struct {
	Provider string
	Field    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing required config field %q", e.Provider, e.Field)
}
