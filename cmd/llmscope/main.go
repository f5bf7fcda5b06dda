package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llmscope/llmscope/pkg/compare"
	"github.com/llmscope/llmscope/pkg/config"
	"github.com/llmscope/llmscope/pkg/engine"
	"github.com/llmscope/llmscope/pkg/prompts"
	"github.com/llmscope/llmscope/pkg/provider"
	"github.com/llmscope/llmscope/pkg/store"
	"github.com/llmscope/llmscope/pkg/suites"
)

var version = "dev"

func main() {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:     "llmscope",
		Short:   "llmscope is a behavioral audit harness for LLM endpoints",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newModelsCmd(),
		newAuditCmd(),
		newCompareCmd(),
		newPingCmd(),
		newMCPCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles everything a subcommand needs after config is loaded.
type app struct {
	cfg        *config.Config
	store      store.Store
	engine     *engine.Engine
	comparator *compare.Comparator
}

// openApp loads config, applies the log level and wires the engine stack.
// The returned cleanup closes the store.
func openApp(configPath string) (*app, func(), error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	st, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	opts := suites.DefaultOptions()
	if cfg.Pacing.PromptDelay > 0 {
		opts.PromptDelay = cfg.Pacing.PromptDelay
	}
	if cfg.Pacing.ProbeDelay > 0 {
		opts.ProbeDelay = cfg.Pacing.ProbeDelay
	}

	eng := engine.New(st, provider.NewRegistry(), prompts.New(cfg.CorpusDir), opts)
	return &app{
		cfg:        cfg,
		store:      st,
		engine:     eng,
		comparator: compare.New(st),
	}, func() { _ = st.Close() }, nil
}
