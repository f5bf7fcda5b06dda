package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ping <model-id>",
		Short: "Check connectivity to a model endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := a.engine.TestConnection(context.Background(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("model %s is not reachable", args[0])
			}
			fmt.Println("ok")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}
