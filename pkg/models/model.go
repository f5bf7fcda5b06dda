package models

import "time"

// Provider identifies a supported model backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// ProviderSettings is the provider-specific configuration bag for a model.
// APIKey is unused for local backends.
type ProviderSettings struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
}

// ModelConfig identifies an audited endpoint.
type ModelConfig struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Provider  Provider         `json:"provider"`
	Version   string           `json:"version"`
	Settings  ProviderSettings `json:"settings"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
