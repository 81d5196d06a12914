package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
)

func newMigrateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				ms, err := infra.Migrations()
				if err != nil {
					return err
				}
				for _, m := range ms {
					fmt.Fprintf(out, "%03d  %s\n", m.Number, m.Name)
				}
				return nil
			}

			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applied, err := infra.RunMigrations(cmd.Context(), cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "database is up to date")
				return nil
			}
			for _, m := range applied {
				fmt.Fprintf(out, "applied %03d %s\n", m.Number, m.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list embedded migrations without connecting")
	return cmd
}
