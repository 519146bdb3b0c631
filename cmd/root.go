// Package cmd provides the CLI commands for statement-ledger.
package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/merxbit/statement-ledger/internal/config"
	"github.com/merxbit/statement-ledger/internal/logger"
)

var (
	optionsFile string
	debug       bool

	opts config.Options
	log  zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "statement-ledger",
	Short: "Convert XML bank statements into a normalized transaction ledger",
	Long: `statement-ledger ingests XML bank-statement exports (plain or inside ZIP
archives), decodes balance anchors and transactions, mines structured fields
out of each transaction narrative, and produces a normalized ledger.

Multiple statements supplied together are merged into one ledger: the opening
and closing balances are selected by transaction dates, the combined balance
is reconciled, and duplicates can be flagged or removed.

Example:
  statement-ledger convert extracto_enero.xml
  statement-ledger convert --dedupe --format json enero.xml febrero.zip
  statement-ledger history list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		opts, err = config.Load(optionsFile)
		if err != nil {
			return fmt.Errorf("failed to load options: %w", err)
		}
		log = logger.New(debug)
		return nil
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&optionsFile, "options", "", "YAML options file (defaults apply when omitted)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(historyCmd)
}
