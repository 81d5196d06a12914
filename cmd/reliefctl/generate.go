package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/bootstrap"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/catalog"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

var errNoResult = errors.New("no result; check the API key and the logs above")

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <scenario>",
		Short: "Generate a response plan and print it as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario := strings.TrimSpace(strings.Join(args, " "))
			if scenario == "" {
				return errors.New("scenario must not be blank")
			}
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rt, err := bootstrap.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			plan, ok := rt.Generator.Plan(cmd.Context(), scenario)
			if !ok {
				return errNoResult
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(plan)
		},
	}
}

func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <need-id>",
		Short: "Summarize one of the seed needs in a sentence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			need, err := seedNeed(args[0])
			if err != nil {
				return err
			}
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rt, err := bootstrap.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			summary, ok := rt.Generator.Summarize(cmd.Context(), need)
			if !ok {
				return errNoResult
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func seedNeed(id string) (domain.Need, error) {
	for _, n := range catalog.Needs() {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.Need{}, fmt.Errorf("need %q: %w", id, domain.ErrNotFound)
}
