// Package ledger holds the transaction-sequence logic: multi-document
// merging with balance reconciliation, duplicate detection, analytics, and
// the batch processor tying them together.
package ledger

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/merxbit/statement-ledger/internal/config"
	"github.com/merxbit/statement-ledger/internal/models"
	"github.com/merxbit/statement-ledger/internal/parser"
)

// currencyClass is the currency/account-type group a source filename maps to.
type currencyClass int

const (
	currencyUndetermined currencyClass = iota
	currencyLocal
	currencyForeign
)

// Merger combines assembled statement documents and validates their balance
// arithmetic. A single document passes through unchanged apart from the
// reconciliation report.
type Merger struct {
	dateLayout     string
	tolerance      decimal.Decimal
	localMarkers   []string
	foreignMarkers []string
}

// NewMerger builds a merger from the configured date layout, reconciliation
// tolerance, and currency marker lists.
func NewMerger(opts config.Options) *Merger {
	tol, err := decimal.NewFromString(opts.ReconcileTolerance)
	if err != nil {
		tol = decimal.RequireFromString("0.01")
	}
	return &Merger{
		dateLayout:     opts.DateLayout,
		tolerance:      tol,
		localMarkers:   opts.LocalMarkers,
		foreignMarkers: opts.ForeignMarkers,
	}
}

// classifySource maps a source filename to its currency group by marker
// tokens in the name. Names matching neither marker list are undetermined.
func (m *Merger) classifySource(name string) currencyClass {
	upper := strings.ToUpper(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	for _, marker := range m.localMarkers {
		if strings.Contains(upper, strings.ToUpper(marker)) {
			return currencyLocal
		}
	}
	for _, marker := range m.foreignMarkers {
		if strings.Contains(upper, strings.ToUpper(marker)) {
			return currencyForeign
		}
	}
	return currencyUndetermined
}

// ValidateHomogeneity rejects a batch whose determined currency markers
// conflict. Undetermined sources never block the merge. Runs strictly before
// any multi-document merge.
func (m *Merger) ValidateHomogeneity(docs []*models.StatementDocument) error {
	seen := currencyUndetermined
	seenName := ""
	for _, doc := range docs {
		class := m.classifySource(doc.SourceName)
		if class == currencyUndetermined {
			continue
		}
		if seen == currencyUndetermined {
			seen = class
			seenName = doc.SourceName
			continue
		}
		if class != seen {
			return fmt.Errorf("%w: %q and %q", models.ErrCurrencyMismatch, seenName, doc.SourceName)
		}
	}
	return nil
}

// Merge combines N >= 1 documents, supplied in upload order, into one
// statement and reconciles its balances. The report is always produced and
// never blocks the merge; only a currency mismatch aborts.
func (m *Merger) Merge(docs []*models.StatementDocument) (*models.MergedStatement, *models.ReconciliationReport, error) {
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("%w: no documents to merge", models.ErrMalformedDocument)
	}

	if len(docs) == 1 {
		doc := docs[0]
		merged := &models.MergedStatement{
			Sources:      []string{doc.SourceName},
			Opening:      doc.Opening,
			Transactions: append([]models.ParsedTransaction(nil), doc.Transactions...),
			Closings:     doc.Closings,
		}
		return merged, m.reconcile(merged), nil
	}

	if err := m.ValidateHomogeneity(docs); err != nil {
		return nil, nil, err
	}

	merged := &models.MergedStatement{
		Opening:  m.selectOpening(docs),
		Closings: m.selectClosings(docs),
	}
	for _, doc := range docs {
		merged.Sources = append(merged.Sources, doc.SourceName)
		merged.Transactions = append(merged.Transactions, doc.Transactions...)
	}
	m.sortByDate(merged.Transactions)

	return merged, m.reconcile(merged), nil
}

// sortByDate orders transactions ascending by parsed date. The sort is
// stable, so equal or unparseable dates keep their upload-order position.
func (m *Merger) sortByDate(txns []models.ParsedTransaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		ti, _ := parser.ParseDate(txns[i].Date, m.dateLayout)
		tj, _ := parser.ParseDate(txns[j].Date, m.dateLayout)
		return ti.Before(tj)
	})
}

// selectOpening picks the opening anchor of the document whose own first
// transaction carries the earliest parsed date. Ties fall to upload order.
// Documents without transactions do not compete.
func (m *Merger) selectOpening(docs []*models.StatementDocument) *models.BalanceAnchor {
	best := -1
	var bestDate string
	for i, doc := range docs {
		if len(doc.Transactions) == 0 {
			continue
		}
		first := doc.Transactions[0].Date
		if best == -1 || m.earlier(first, bestDate) {
			best = i
			bestDate = first
		}
	}
	if best == -1 {
		best = 0
	}
	return docs[best].Opening
}

// selectClosings picks the closing-anchor set of the document whose own last
// transaction carries the latest parsed date. Ties fall to upload order.
func (m *Merger) selectClosings(docs []*models.StatementDocument) map[models.BalanceKind]models.BalanceAnchor {
	best := -1
	var bestDate string
	for i, doc := range docs {
		if len(doc.Transactions) == 0 {
			continue
		}
		last := doc.Transactions[len(doc.Transactions)-1].Date
		if best == -1 || m.earlier(bestDate, last) {
			best = i
			bestDate = last
		}
	}
	if best == -1 {
		best = 0
	}
	return docs[best].Closings
}

// earlier reports whether date a parses strictly before date b.
func (m *Merger) earlier(a, b string) bool {
	ta, _ := parser.ParseDate(a, m.dateLayout)
	tb, _ := parser.ParseDate(b, m.dateLayout)
	return ta.Before(tb)
}

// reconcile recomputes the closing balance from the opening anchor and the
// transaction sequence and compares it against the reported closing
// (available, falling back to book). The outcome is informational:
// IsValid == false is a warning, not a failure.
func (m *Merger) reconcile(merged *models.MergedStatement) *models.ReconciliationReport {
	report := &models.ReconciliationReport{IsValid: true}

	if merged.Opening != nil {
		report.Opening = merged.Opening.AmountValue()
	}
	for _, txn := range merged.Transactions {
		switch {
		case txn.IsCredit():
			report.TotalCredits = report.TotalCredits.Add(txn.AmountValue())
		case txn.IsDebit():
			report.TotalDebits = report.TotalDebits.Add(txn.AmountValue())
		}
	}
	report.CalculatedClosing = report.Opening.Add(report.TotalCredits).Sub(report.TotalDebits)

	doc := merged.Document()
	reported, ok := doc.ClosingReported()
	if !ok {
		// Nothing to compare against; the calculated closing stands alone.
		return report
	}
	report.ReportedClosing = reported.AmountValue()
	report.Difference = report.CalculatedClosing.Sub(report.ReportedClosing)
	report.IsValid = report.Difference.Abs().LessThanOrEqual(m.tolerance)
	return report
}
