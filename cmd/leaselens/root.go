package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/leaselens/internal/api"
	"github.com/jackzampolin/leaselens/internal/config"
	"github.com/jackzampolin/leaselens/internal/providers"
	"github.com/jackzampolin/leaselens/version"
)

var (
	cfgFile      string
	outputFormat string
	providerName string
)

var rootCmd = &cobra.Command{
	Use:   "leaselens",
	Short: "Lease document analysis with LLM-powered extraction",
	Long: `Leaselens turns an uploaded lease document into a structured analysis
record using LLM-powered extraction and validation.

The pipeline includes:
  - Model-driven field extraction from PDF and image uploads
  - Response sanitization and schema validation
  - Risk scoring with flagged issues and policy deviations
  - CSV and paginated PDF report export
  - A lease Q&A and general chat assistant`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.leaselens/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&providerName, "provider", "", "provider to use (default: from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the CLI logger. It writes to stderr so structured
// command output on stdout stays machine-readable.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// loadConfig creates the config manager from the --config flag.
func loadConfig() (*config.Manager, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return mgr, nil
}

// resolveClient builds the provider registry from config and returns the
// client selected by --provider, falling back to the configured default.
func resolveClient(mgr *config.Manager, logger *slog.Logger) (providers.Client, error) {
	registry := providers.NewRegistry()
	registry.SetLogger(logger)
	registry.Reload(mgr.Get().ToRegistryConfig())

	if providerName != "" {
		return registry.Get(providerName)
	}
	return registry.Default()
}
