package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all llmscope configuration.
type Config struct {
	Listen    string       `yaml:"listen"`
	DBPath    string       `yaml:"db_path"`
	CorpusDir string       `yaml:"corpus_dir"`
	LogLevel  string       `yaml:"log_level"`
	Pacing    PacingConfig `yaml:"pacing"`
}

// PacingConfig throttles calls against upstream providers. These delays
// are a rate-limit courtesy, not a correctness requirement.
type PacingConfig struct {
	PromptDelay time.Duration `yaml:"prompt_delay"`
	ProbeDelay  time.Duration `yaml:"probe_delay"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:   ":8080",
		DBPath:   "llmscope.db",
		LogLevel: "info",
		Pacing: PacingConfig{
			PromptDelay: 500 * time.Millisecond,
			ProbeDelay:  time.Second,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
