package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra/credentials"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage provider API keys stored in the database",
	}

	var provider, key string
	set := &cobra.Command{
		Use:   "set",
		Short: "Store an API key (falls back to the provider's environment variable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider = strings.ToLower(strings.TrimSpace(provider))
			key = strings.TrimSpace(key)
			if key == "" {
				key = strings.TrimSpace(os.Getenv(envKeyFor(provider)))
			}
			if key == "" {
				return fmt.Errorf("%s API key is required via --key or %s", strings.ToUpper(provider), envKeyFor(provider))
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

			store := credentials.NewStore(infra.NewSQLRunner(pool, logger))
			if err := store.SetToken(cmd.Context(), provider, key); err != nil {
				return fmt.Errorf("persist %s api key: %w", provider, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s API key stored successfully\n", strings.ToUpper(provider))
			return nil
		},
	}
	set.Flags().StringVar(&provider, "provider", credentials.ProviderGemini, "provider to configure (gemini or openai)")
	set.Flags().StringVar(&key, "key", "", "API key (defaults to the provider's environment variable)")

	cmd.AddCommand(set)
	return cmd
}

func envKeyFor(provider string) string {
	if provider == credentials.ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}
