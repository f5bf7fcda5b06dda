package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/llmscope/llmscope/pkg/mcp"
)

func newMCPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve audit data to MCP clients over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := mcp.New(a.engine, a.comparator, version)
			return srv.Run(context.Background(), os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}
