package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/merxbit/statement-ledger/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear the processing history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent processing runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(opts.HistoryPath, opts.HistoryRetention)
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.List()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No processing history.")
			return nil
		}

		for _, item := range items {
			fmt.Printf("%s  %s\n", item.ProcessedAt.Format("2006-01-02 15:04:05"), item.FileName)
			fmt.Printf("    %d transactions, credits %s, debits %s, opening %s, closing %s\n",
				item.Summary.TotalTransactions,
				item.Summary.TotalCredits.StringFixed(2),
				item.Summary.TotalDebits.StringFixed(2),
				item.Summary.Opening,
				item.Summary.ClosingAvailable)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all processing history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(opts.HistoryPath, opts.HistoryRetention)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
