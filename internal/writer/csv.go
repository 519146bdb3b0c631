// Package writer projects assembled statements into export formats. Writers
// treat the document as read-only input.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/merxbit/statement-ledger/internal/models"
)

// Column keys accepted by the CSV writer, with their header labels.
var csvHeaders = map[string]string{
	"fecha":                "Fecha",
	"referencia_corriente": "Ref. Corriente",
	"referencia_origen":    "Ref. Origen",
	"canal":                "Canal",
	"ordenante_nombre":     "Ordenante",
	"ordenante_ci":         "CI Ordenante",
	"ordenante_cuenta":     "Cuenta Ordenante",
	"ordenante_tarjeta":    "Tarjeta",
	"beneficiario_cuenta":  "Cuenta Beneficiario",
	"concepto":             "Concepto",
	"importe":              "Importe",
	"tipo":                 "Tipo",
	"debito":               "Débito",
	"credito":              "Crédito",
	"balance":              "Balance",
	"observacion_completa": "Observaciones",
}

// DefaultCSVColumns is the full export column set, including the computed
// débito/crédito split and the running balance.
var DefaultCSVColumns = []string{
	"fecha", "referencia_corriente", "referencia_origen", "canal",
	"ordenante_nombre", "ordenante_ci", "ordenante_cuenta", "ordenante_tarjeta",
	"beneficiario_cuenta", "concepto", "debito", "credito", "balance",
	"observacion_completa",
}

// CSVWriter writes a statement document as CSV. Columns may be restricted to
// a selected subset; unknown keys are skipped.
type CSVWriter struct {
	Columns []string
	// IncludeBOM prefixes the output with a UTF-8 BOM so spreadsheet tools
	// pick up the encoding.
	IncludeBOM bool
}

// WriteToFile writes the document to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, doc *models.StatementDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, doc)
}

// Write writes the document in CSV format to the given writer. The running
// balance column folds the opening balance forward over the sequence in its
// stored order.
func (w *CSVWriter) Write(out io.Writer, doc *models.StatementDocument) error {
	if w.IncludeBOM {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	columns := w.Columns
	if len(columns) == 0 {
		columns = DefaultCSVColumns
	}
	columns = knownColumns(columns)

	cw := csv.NewWriter(out)
	defer cw.Flush()

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = csvHeaders[col]
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	balance := decimal.Zero
	if doc.Opening != nil {
		balance = doc.Opening.AmountValue()
	}

	for _, txn := range doc.Transactions {
		balance = balance.Add(txn.Signed())

		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = csvValue(txn, col, balance)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func knownColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if _, ok := csvHeaders[col]; ok {
			out = append(out, col)
		}
	}
	return out
}

func csvValue(txn models.ParsedTransaction, col string, balance decimal.Decimal) string {
	switch col {
	case "fecha":
		return txn.Date
	case "referencia_corriente":
		return txn.ReferenceCurrent
	case "referencia_origen":
		return txn.ReferenceOrigin
	case "canal":
		return txn.Channel
	case "ordenante_nombre":
		return txn.PayerName
	case "ordenante_ci":
		return txn.PayerNationalID
	case "ordenante_cuenta":
		return txn.OriginAccount
	case "ordenante_tarjeta":
		return txn.MaskedCard
	case "beneficiario_cuenta":
		return txn.BeneficiaryAccount
	case "concepto":
		return flattenNewlines(txn.Concept)
	case "importe":
		return txn.Amount
	case "tipo":
		return txn.TypeCode
	case "debito":
		if txn.IsDebit() {
			return txn.AmountValue().StringFixed(2)
		}
		return ""
	case "credito":
		if txn.IsCredit() {
			return txn.AmountValue().StringFixed(2)
		}
		return ""
	case "balance":
		return balance.StringFixed(2)
	case "observacion_completa":
		return flattenNewlines(txn.Narrative)
	}
	return ""
}

// flattenNewlines replaces line breaks with spaces; multi-line narratives
// otherwise break row-per-transaction consumers.
func flattenNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
