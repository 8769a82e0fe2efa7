// Package cli implements the docchat command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Flags shared by all commands.
var (
	configPath string
	verbose    bool
)

// Services the commands run against. Wired lazily by ensureServices,
// or injected directly by tests.
var (
	ingestionService driving.IngestionService
	queryService     driving.QueryService
	documentService  driving.DocumentService
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Ask questions about your documents",
	Long: `docchat ingests documents into a vector index and answers
questions about them, grounded strictly in what was indexed.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.docchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
