// Command reliefctl runs operator tasks against the Ubuntu Relief backend:
// schema migrations, stored API keys, usage reports and one-off generation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reliefctl",
		Short: "Operator CLI for the Ubuntu Relief API",
		Long: `reliefctl manages the Ubuntu Relief backend from the command line.

Configuration comes from the same environment variables as the API server
(a .env file in the working directory is loaded when present).

Example usage:
  reliefctl migrate                         # apply database migrations
  reliefctl apikey set --provider gemini    # store GEMINI_API_KEY in the database
  reliefctl plan "Cholera outbreak in Chitungwiza"
  reliefctl summarize 1
  reliefctl usage --window 24h`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newMigrateCmd(),
		newAPIKeyCmd(),
		newPlanCmd(),
		newSummarizeCmd(),
		newUsageCmd(),
	)
	return root
}

// loadConfig reads configuration and a CLI logger that writes to stderr so
// command output on stdout stays machine readable.
func loadConfig(cmd *cobra.Command) (*infra.Config, infra.Logger, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, infra.Logger{}, err
	}
	logger := infra.NewLogger("cli").Output(cmd.ErrOrStderr())
	if verbose {
		logger = logger.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).Level(zerolog.DebugLevel)
	}
	return cfg, logger.With().Str("cmd", cmd.Name()).Logger(), nil
}
