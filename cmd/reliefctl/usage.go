package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra/usage"
)

func newUsageCmd() *cobra.Command {
	var window time.Duration
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Summarize recorded generation calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if window <= 0 {
				return fmt.Errorf("--window must be positive")
			}
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			pool, err := infra.NewDBPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			rows, err := usage.NewStore(infra.NewSQLRunner(pool, logger)).Summary(cmd.Context(), time.Now().Add(-window))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "OPERATION\tOUTCOME\tCALLS\tAVG LATENCY")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.0fms\n", r.Operation, r.Outcome, r.Calls, r.AvgLatencyMS)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().DurationVar(&window, "window", 24*time.Hour, "how far back to look")
	return cmd
}
