package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "compare <run-a> <run-b>",
		Short: "Diff two completed audit runs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := a.comparator.CompareAudits(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("Comparison %s\n", rec.ID)
			fmt.Printf("A: %s   B: %s\n", rec.ModelAName, rec.ModelBName)
			fmt.Printf("Suites: %s\n\n", rec.SuiteLabel)

			if len(rec.Differences) == 0 {
				fmt.Println("No differences recorded.")
			} else {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CATEGORY\tMETRIC\tA\tB\tDELTA\tSIGNIFICANCE")
				for _, d := range rec.Differences {
					fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%.3f\t%s\n",
						d.Category, d.Metric, d.ValueA, d.ValueB, d.Delta, d.Significance)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			fmt.Printf("\n%d differences, %d significant, A better on %d, B better on %d\n",
				rec.Summary.TotalDifferences, rec.Summary.Significant,
				rec.Summary.ModelABetter, rec.Summary.ModelBBetter)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}
