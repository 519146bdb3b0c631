package writer

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/merxbit/statement-ledger/internal/models"
)

func sampleDocument() *models.StatementDocument {
	opening := models.BalanceAnchor{Kind: models.Opening, Amount: "500.00", TypeCode: "Cr"}
	return &models.StatementDocument{
		SourceName: "extracto_enero.xml",
		Opening:    &opening,
		Transactions: []models.ParsedTransaction{
			{
				Date:             "01/01/2024",
				ReferenceCurrent: "T1",
				Amount:           "100.00",
				TypeCode:         "Cr",
				Channel:          "Banca Móvil",
				Concept:          "Pago de servicios\ncon detalle",
				Narrative:        "línea uno\nlínea dos",
			},
			{
				Date:             "02/01/2024",
				ReferenceCurrent: "T2",
				Amount:           "40.00",
				TypeCode:         "Db",
			},
		},
		Closings: map[models.BalanceKind]models.BalanceAnchor{
			models.ClosingAvailable: {Kind: models.ClosingAvailable, Amount: "560.00", TypeCode: "Cr"},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, sampleDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want header + 2", len(rows))
	}

	header := rows[0]
	if header[0] != "Fecha" || header[len(header)-1] != "Observaciones" {
		t.Errorf("header: %v", header)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}

	credit := rows[1]
	if credit[cols["Crédito"]] != "100.00" || credit[cols["Débito"]] != "" {
		t.Errorf("credit split: crédito %q, débito %q", credit[cols["Crédito"]], credit[cols["Débito"]])
	}
	if credit[cols["Balance"]] != "600.00" {
		t.Errorf("balance after credit: got %q", credit[cols["Balance"]])
	}
	if strings.Contains(credit[cols["Concepto"]], "\n") {
		t.Errorf("concepto not flattened: %q", credit[cols["Concepto"]])
	}
	if credit[cols["Observaciones"]] != "línea uno línea dos" {
		t.Errorf("observaciones: got %q", credit[cols["Observaciones"]])
	}

	debit := rows[2]
	if debit[cols["Débito"]] != "40.00" || debit[cols["Crédito"]] != "" {
		t.Errorf("debit split: débito %q, crédito %q", debit[cols["Débito"]], debit[cols["Crédito"]])
	}
	if debit[cols["Balance"]] != "560.00" {
		t.Errorf("balance after debit: got %q", debit[cols["Balance"]])
	}
}

func TestCSVWriter_BOM(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeBOM: true}
	if err := w.Write(&buf, sampleDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("output missing UTF-8 BOM")
	}
}

func TestCSVWriter_ColumnSelection(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{Columns: []string{"fecha", "importe", "no_such_column", "tipo"}}
	if err := w.Write(&buf, sampleDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	// The unknown key is skipped, not exported as an empty column.
	if len(rows[0]) != 3 {
		t.Fatalf("columns: got %d, want 3 (%v)", len(rows[0]), rows[0])
	}
	if rows[1][0] != "01/01/2024" || rows[1][1] != "100.00" || rows[1][2] != "Cr" {
		t.Errorf("row: %v", rows[1])
	}
}

func TestCSVWriter_NoOpening(t *testing.T) {
	doc := sampleDocument()
	doc.Opening = nil

	var buf bytes.Buffer
	w := &CSVWriter{Columns: []string{"balance"}}
	if err := w.Write(&buf, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	// The fold starts from zero when no opening anchor exists.
	if rows[1][0] != "100.00" {
		t.Errorf("balance without opening: got %q, want 100.00", rows[1][0])
	}
}
