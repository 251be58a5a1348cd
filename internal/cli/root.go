package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/indusnetwork/bridge/internal/remote"
)

var (
	cfg    *Config
	client *remote.Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "bridge",
		Short: "Account bridge for the indusnetwork web service",
		Long: `bridge links in-game player accounts with the indusnetwork web service.

It runs as a daemon that keeps coins, ranks, stats, and store deliveries in
sync, and doubles as an ops tool for inspecting accounts and deliveries
directly against the remote API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = remote.New(remote.Config{
				BaseURL: cfg.BaseURL,
				APIKey:  cfg.APIKey,
			}, cliLogger(cfg.Verbose))
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Web service base URL (env: INDUSBRIDGE_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "API key (env: INDUSBRIDGE_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newDeliveryCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cliLogger returns a logger for one-shot commands: quiet by default,
// text on stderr when verbose.
func cliLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
