package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/llmscope/llmscope/pkg/models"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage audited model endpoints",
	}

	cmd.AddCommand(
		newModelsListCmd(),
		newModelsAddCmd(),
	)
	return cmd
}

func newModelsListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered models",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			configs, err := a.engine.ListModels(context.Background())
			if err != nil {
				return err
			}
			if len(configs) == 0 {
				fmt.Println("No models registered.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tVERSION\tCREATED")
			for _, m := range configs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					m.ID, m.Name, m.Provider, m.Version,
					m.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func newModelsAddCmd() *cobra.Command {
	var (
		configPath   string
		name         string
		providerName string
		modelVersion string
		apiKey       string
		baseURL      string
		upstream     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a model endpoint (updates in place when name, provider and version match)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || providerName == "" {
				return fmt.Errorf("--name and --provider are required")
			}

			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			settings := models.ProviderSettings{
				APIKey:  apiKey,
				BaseURL: baseURL,
				Model:   upstream,
			}
			m, err := a.engine.UpsertModel(context.Background(), name, models.Provider(providerName), modelVersion, settings)
			if err != nil {
				return err
			}

			fmt.Printf("Registered model %s (%s/%s) as %s\n", m.Name, m.Provider, m.Version, m.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&name, "name", "", "display name for the model")
	cmd.Flags().StringVar(&providerName, "provider", "", "provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&modelVersion, "version", "", "model version label")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "provider API key (unused for local backends)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "override the provider base URL")
	cmd.Flags().StringVar(&upstream, "model", "", "upstream model identifier (e.g. gpt-4o-mini)")

	return cmd
}
