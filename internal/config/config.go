// Package config holds the tunable constants of the pipeline and loads
// overrides from a YAML options file and environment variables (including a
// .env file when present).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ChannelRule maps a set of narrative markers to a channel label. Rules are
// tested in order; the first marker hit wins.
type ChannelRule struct {
	Markers []string `yaml:"markers"`
	Channel string   `yaml:"channel"`
}

// Options collects every constant the pipeline components take as input
// instead of hard-coding. The zero value is not usable; start from Default.
type Options struct {
	// DateLayout is the single day/month ordering used to parse transaction
	// dates in both the single-file and multi-file flows. The source data is
	// DD/MM/YYYY; keeping one layout everywhere is a deliberate choice.
	DateLayout string `yaml:"date_layout"`

	// ReconcileTolerance is the maximum absolute difference, as a decimal
	// string, between the calculated and reported closing balances before a
	// reconciliation is flagged invalid.
	ReconcileTolerance string `yaml:"reconcile_tolerance"`

	// HistoryRetention is how many processing runs the history store keeps.
	HistoryRetention int `yaml:"history_retention"`

	// HistoryPath is the SQLite database file for history and preferences.
	HistoryPath string `yaml:"history_path"`

	// LocalMarkers and ForeignMarkers classify a source filename into one of
	// the two mutually exclusive currency/account-type groups. A filename
	// matching neither list is undetermined and never blocks a merge.
	LocalMarkers   []string `yaml:"local_markers"`
	ForeignMarkers []string `yaml:"foreign_markers"`

	// ChannelRules drive channel classification of transaction narratives.
	ChannelRules []ChannelRule `yaml:"channel_rules"`

	// ConceptMaxLen truncates the fallback concept taken from the first
	// narrative line.
	ConceptMaxLen int `yaml:"concept_max_len"`

	// PreviewSize is how many leading transactions a history entry keeps.
	PreviewSize int `yaml:"preview_size"`
}

// Default returns the documented defaults for every option.
func Default() Options {
	return Options{
		DateLayout:         "02/01/2006",
		ReconcileTolerance: "0.01",
		HistoryRetention:   10,
		HistoryPath:        defaultHistoryPath(),
		LocalMarkers:       []string{"BS", "BOB"},
		ForeignMarkers:     []string{"USD", "ME"},
		ChannelRules: []ChannelRule{
			{Markers: []string{"BANCAMOVIL", "BANCA MOVIL"}, Channel: "Banca Móvil"},
			{Markers: []string{"CORREO ELECTRONICO"}, Channel: "Transferencia Electrónica"},
			{Markers: []string{"TRANSFERENCIA"}, Channel: "Transferencia"},
		},
		ConceptMaxLen: 100,
		PreviewSize:   10,
	}
}

// Load builds Options from the defaults, an optional YAML file, and
// environment variables. A .env file in the working directory is loaded
// first when present, matching how the rest of the tooling picks up
// environment overrides.
func Load(path string) (Options, error) {
	_ = godotenv.Load()

	opts := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return opts, fmt.Errorf("failed to read options file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("failed to parse options file %q: %w", path, err)
		}
	}

	if v := os.Getenv("STATEMENT_LEDGER_HISTORY_PATH"); v != "" {
		opts.HistoryPath = v
	}
	if v := os.Getenv("STATEMENT_LEDGER_HISTORY_RETENTION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid STATEMENT_LEDGER_HISTORY_RETENTION: %w", err)
		}
		opts.HistoryRetention = n
	}
	if v := os.Getenv("STATEMENT_LEDGER_TOLERANCE"); v != "" {
		opts.ReconcileTolerance = v
	}

	return opts, opts.validate()
}

func (o Options) validate() error {
	if o.DateLayout == "" {
		return fmt.Errorf("date_layout must not be empty")
	}
	if o.HistoryRetention < 1 {
		return fmt.Errorf("history_retention must be at least 1, got %d", o.HistoryRetention)
	}
	if o.ConceptMaxLen < 1 {
		return fmt.Errorf("concept_max_len must be at least 1, got %d", o.ConceptMaxLen)
	}
	return nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "statement-ledger.db"
	}
	return home + "/.statement-ledger/history.db"
}
