package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/merxbit/statement-ledger/internal/models"
)

// enrichedTransaction is a transaction with the computed direction split and
// running balance attached, matching the enriched export shape.
type enrichedTransaction struct {
	models.ParsedTransaction
	Debit   decimal.Decimal `json:"debito"`
	Credit  decimal.Decimal `json:"credito"`
	Balance decimal.Decimal `json:"balance"`
}

type jsonDocument struct {
	Source       string                                      `json:"source"`
	Opening      *models.BalanceAnchor                       `json:"saldoInicial"`
	Transactions []enrichedTransaction                       `json:"transactions"`
	Closings     map[models.BalanceKind]models.BalanceAnchor `json:"saldosFinales"`
}

// JSONWriter writes a statement document as indented JSON with
// per-transaction debit/credit/balance enrichment.
type JSONWriter struct{}

// WriteToFile writes the document to a JSON file at the given path.
func (w *JSONWriter) WriteToFile(path string, doc *models.StatementDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, doc)
}

// Write writes the enriched document to the given writer.
func (w *JSONWriter) Write(out io.Writer, doc *models.StatementDocument) error {
	balance := decimal.Zero
	if doc.Opening != nil {
		balance = doc.Opening.AmountValue()
	}

	enriched := make([]enrichedTransaction, 0, len(doc.Transactions))
	for _, txn := range doc.Transactions {
		balance = balance.Add(txn.Signed())
		e := enrichedTransaction{ParsedTransaction: txn, Balance: balance}
		switch {
		case txn.IsDebit():
			e.Debit = txn.AmountValue()
		case txn.IsCredit():
			e.Credit = txn.AmountValue()
		}
		enriched = append(enriched, e)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonDocument{
		Source:       doc.SourceName,
		Opening:      doc.Opening,
		Transactions: enriched,
		Closings:     doc.Closings,
	}); err != nil {
		return fmt.Errorf("failed to encode JSON document: %w", err)
	}
	return nil
}
