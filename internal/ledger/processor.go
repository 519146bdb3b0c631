package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/merxbit/statement-ledger/internal/config"
	"github.com/merxbit/statement-ledger/internal/models"
	"github.com/merxbit/statement-ledger/internal/parser"
)

// Source is one uploaded statement: its resolved logical filename and the
// raw record container the extractor produced for it.
type Source struct {
	Name    string
	Records []models.RawRecord
}

// Result is the outcome of one batch run.
type Result struct {
	Document   *models.StatementDocument
	Report     *models.ReconciliationReport
	Duplicates []models.DuplicateGroup
	Summary    models.Summary
	Sources    []string
	Merged     bool
}

// HistoryWriter records a finished run. The processor only ever writes; it
// never reads history back to influence a computation.
type HistoryWriter interface {
	Record(item models.HistoryItem) error
}

// Processor runs the decode, merge, reconcile, and dedupe pipeline for one
// batch of sources. Runs are serialized: the entry point holds a lock for the
// whole run, so overlapping submissions queue instead of interleaving shared
// state. Each run is stamped with a generation number that tags its log lines.
type Processor struct {
	opts    config.Options
	log     zerolog.Logger
	decoder *parser.Decoder
	merger  *Merger
	history HistoryWriter

	mu         sync.Mutex
	generation uint64
}

// NewProcessor wires the pipeline components. history may be nil when no
// persistence is wanted (e.g. tests).
func NewProcessor(opts config.Options, log zerolog.Logger, history HistoryWriter) *Processor {
	return &Processor{
		opts:    opts,
		log:     log,
		decoder: parser.NewDecoder(opts),
		merger:  NewMerger(opts),
		history: history,
	}
}

// Process decodes every source in upload order, merges them (validating
// currency homogeneity first when more than one), reconciles balances, and
// optionally removes duplicates. Fatal errors abort the whole batch; a
// balance discrepancy only flags the report.
func (p *Processor) Process(ctx context.Context, sources []Source, dedupe bool) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	gen := p.generation

	docs := make([]*models.StatementDocument, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := p.decoder.Decode(src.Name, src.Records)
		if err != nil {
			return nil, err
		}
		p.log.Debug().
			Uint64("generation", gen).
			Str("source", src.Name).
			Int("transactions", len(doc.Transactions)).
			Int("closings", len(doc.Closings)).
			Msg("decoded statement document")
		docs = append(docs, doc)
	}

	merged, report, err := p.merger.Merge(docs)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Document: merged.Document(),
		Report:   report,
		Sources:  merged.Sources,
		Merged:   len(sources) > 1,
	}

	result.Duplicates = DetectDuplicates(result.Document.Transactions)
	if dedupe && len(result.Duplicates) > 0 {
		result.Document.Transactions = RemoveFlagged(result.Document.Transactions, result.Duplicates)
		p.log.Info().
			Int("removed", len(result.Duplicates)).
			Msg("removed duplicate transactions")
	}

	result.Summary = Summarize(result.Document)

	if !report.IsValid {
		p.log.Warn().
			Str("calculated", report.CalculatedClosing.StringFixed(2)).
			Str("reported", report.ReportedClosing.StringFixed(2)).
			Str("difference", report.Difference.StringFixed(2)).
			Msg("balance reconciliation mismatch")
	}

	p.recordHistory(result)
	return result, nil
}

// recordHistory appends the run to persisted history. Failures are logged
// and swallowed: history is a convenience, never part of the result.
func (p *Processor) recordHistory(result *Result) {
	if p.history == nil {
		return
	}
	preview := result.Document.Transactions
	if len(preview) > p.opts.PreviewSize {
		preview = preview[:p.opts.PreviewSize]
	}
	item := models.HistoryItem{
		FileName:    strings.Join(result.Sources, ", "),
		ProcessedAt: time.Now(),
		Summary:     result.Summary,
		Preview:     append([]models.ParsedTransaction(nil), preview...),
	}
	if err := p.history.Record(item); err != nil {
		p.log.Warn().Err(err).Msg("failed to record processing history")
	}
}
