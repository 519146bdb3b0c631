package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/merxbit/statement-ledger/internal/extractor"
	"github.com/merxbit/statement-ledger/internal/history"
	"github.com/merxbit/statement-ledger/internal/ledger"
	"github.com/merxbit/statement-ledger/internal/writer"
)

var (
	dedupeFlag    bool
	formatFlag    string
	outputFlag    string
	noHistoryFlag bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] FILE...",
	Short: "Decode, merge, and export one batch of statement files",
	Long: `Decode one or more XML statement files (plain or zipped) into a normalized
ledger and export it as CSV or JSON.

With multiple files the documents are merged: currency markers in the
filenames must not conflict, transactions are combined and sorted by date,
and the combined balance is reconciled against the reported closing balance.
A reconciliation mismatch is reported as a warning, never as a failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&dedupeFlag, "dedupe", false, "remove duplicate transactions (same date, amount, and reference)")
	convertCmd.Flags().StringVar(&formatFlag, "format", "", "output format: csv or json (default from preferences, csv)")
	convertCmd.Flags().StringVar(&outputFlag, "output", "", "output file path (defaults to the input name with a new extension)")
	convertCmd.Flags().BoolVar(&noHistoryFlag, "no-history", false, "skip recording this run in processing history")
}

func runConvert(cmd *cobra.Command, args []string) error {
	// All file reading happens up front, in upload order: balance selection
	// during merge depends on deterministic ordering of the sources.
	sources := make([]ledger.Source, 0, len(args))
	for _, path := range args {
		content, name, err := extractor.ExtractContent(path)
		if err != nil {
			return err
		}
		records, err := extractor.ParseTree(content)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Debug().Str("file", path).Str("resolved", name).Int("records", len(records)).Msg("extracted source")
		sources = append(sources, ledger.Source{Name: name, Records: records})
	}

	var store *history.Store
	if !noHistoryFlag {
		var err error
		store, err = history.Open(opts.HistoryPath, opts.HistoryRetention)
		if err != nil {
			log.Warn().Err(err).Msg("history unavailable, continuing without it")
		} else {
			defer store.Close()
		}
	}

	var hw ledger.HistoryWriter
	if store != nil {
		hw = store
	}
	processor := ledger.NewProcessor(opts, log, hw)

	result, err := processor.Process(cmd.Context(), sources, dedupeFlag)
	if err != nil {
		return err
	}

	printSummary(result)

	format := formatFlag
	if format == "" {
		format = "csv"
		if store != nil {
			if prefs, err := store.LoadPreferences(); err == nil && prefs.ExportFormat != "" {
				format = prefs.ExportFormat
			}
		}
	}

	outPath := outputFlag
	if outPath == "" {
		outPath = defaultOutputPath(args, result.Merged, format)
	}

	switch format {
	case "csv":
		w := &writer.CSVWriter{IncludeBOM: true}
		if err := w.WriteToFile(outPath, result.Document); err != nil {
			return err
		}
	case "json":
		w := &writer.JSONWriter{}
		if err := w.WriteToFile(outPath, result.Document); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q (want csv or json)", format)
	}

	fmt.Printf("Output: %s\n", outPath)
	return nil
}

func printSummary(result *ledger.Result) {
	if result.Merged {
		fmt.Printf("Merged %d statements: %s\n", len(result.Sources), strings.Join(result.Sources, ", "))
	} else {
		fmt.Printf("Processed: %s\n", result.Sources[0])
	}

	s := result.Summary
	fmt.Printf("  Opening balance:   %s\n", s.Opening)
	fmt.Printf("  Transactions:      %d (%d credits totaling %s, %d debits totaling %s)\n",
		s.TotalTransactions, s.CreditCount, s.TotalCredits.StringFixed(2),
		s.DebitCount, s.TotalDebits.StringFixed(2))
	fmt.Printf("  Closing available: %s\n", s.ClosingAvailable)

	if r := result.Report; r != nil {
		if r.IsValid {
			fmt.Printf("  Reconciliation:    OK (calculated %s)\n", r.CalculatedClosing.StringFixed(2))
		} else {
			fmt.Printf("  Reconciliation:    MISMATCH (calculated %s, reported %s, difference %s)\n",
				r.CalculatedClosing.StringFixed(2), r.ReportedClosing.StringFixed(2), r.Difference.StringFixed(2))
		}
	}

	if n := len(result.Duplicates); n > 0 {
		if dedupeFlag {
			fmt.Printf("  Duplicates:        %d removed\n", n)
		} else {
			fmt.Printf("  Duplicates:        %d found (re-run with --dedupe to remove)\n", n)
		}
	}
}

func defaultOutputPath(inputs []string, merged bool, format string) string {
	if merged {
		return fmt.Sprintf("extracto_%d.%s", time.Now().Unix(), format)
	}
	base := strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0]))
	return base + "." + format
}
