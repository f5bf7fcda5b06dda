package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llmscope/llmscope/pkg/models"
	"github.com/llmscope/llmscope/pkg/suites"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run and inspect behavioral audits",
	}

	cmd.AddCommand(
		newAuditRunCmd(),
		newAuditListCmd(),
		newAuditShowCmd(),
		newAuditExportCmd(),
	)
	return cmd
}

func newAuditRunCmd() *cobra.Command {
	var (
		configPath string
		suiteList  []string
	)

	cmd := &cobra.Command{
		Use:   "run <model-id>",
		Short: "Run audit suites against a model and wait for the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			handle, err := a.engine.StartAudit(context.Background(), args[0], suiteList)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s started (%s)\n", handle.ID, strings.Join(suiteList, ", "))
			if err := handle.Wait(); err != nil {
				return fmt.Errorf("run %s failed: %w", handle.ID, err)
			}

			rec, err := a.engine.GetAudit(context.Background(), handle.ID)
			if err != nil {
				return err
			}
			printAudit(rec)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringSliceVar(&suiteList, "suites", suites.Valid(), "suites to run")

	return cmd
}

func newAuditListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list <model-id>",
		Short: "List audit runs for a model, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			runs, err := a.engine.ListAudits(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No audit runs found.")
				return nil
			}
			for _, r := range runs {
				line := fmt.Sprintf("%s  %-9s  %s  %s",
					r.ID, r.Status, r.CreatedAt.Format("2006-01-02 15:04:05"),
					strings.Join(r.Suites, ","))
				if r.Summary != nil {
					line += fmt.Sprintf("  %d/%d passed", r.Summary.Passed, r.Summary.TotalTests)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func newAuditShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one audit run with its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := a.engine.GetAudit(context.Background(), args[0])
			if err != nil {
				return err
			}
			printAudit(rec)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func newAuditExportCmd() *cobra.Command {
	var (
		configPath string
		format     string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a full audit run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := a.engine.ExportAudit(context.Background(), args[0], format)
			if err != nil {
				return err
			}

			if outPath == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported run %s to %s\n", args[0], outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&format, "format", "json", "export format")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")

	return cmd
}

func printAudit(rec *models.AuditRecord) {
	fmt.Printf("Run:     %s\n", rec.ID)
	fmt.Printf("Model:   %s\n", rec.ModelID)
	fmt.Printf("Status:  %s\n", rec.Status)
	fmt.Printf("Suites:  %s\n", strings.Join(rec.Suites, ", "))
	if rec.Error != "" {
		fmt.Printf("Error:   %s\n", rec.Error)
	}
	if rec.Summary != nil {
		fmt.Printf("Summary: %d tests, %d passed, %d failed, %d errors, mean latency %.0f ms\n",
			rec.Summary.TotalTests, rec.Summary.Passed, rec.Summary.Failed,
			rec.Summary.Errors, rec.Summary.MeanLatencyMs)
	}
}
