package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fenglin",
	Short: "fenglin - A股价值动量日频策略",
	Long: `fenglin daily strategy runner

Screens A-share fundamentals into a value universe each pre-open,
trades an MA5 momentum rule at the open, and reports fills after
the close.

Usage:
  go run ./cmd/fenglin [command]

Examples:
  go run ./cmd/fenglin run
  go run ./cmd/fenglin once
  go run ./cmd/fenglin screen`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default from STRATEGY_CONFIG, built-in defaults if unset)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
