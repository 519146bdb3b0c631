package writer

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{}
	if err := w.Write(&buf, sampleDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Source  string `json:"source"`
		Opening struct {
			Amount string `json:"importe"`
		} `json:"saldoInicial"`
		Transactions []struct {
			Reference string `json:"referencia_corriente"`
			Debit     string `json:"debito"`
			Credit    string `json:"credito"`
			Balance   string `json:"balance"`
		} `json:"transactions"`
		Closings map[string]struct {
			Amount string `json:"importe"`
		} `json:"saldosFinales"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Source != "extracto_enero.xml" {
		t.Errorf("source: got %q", decoded.Source)
	}
	if decoded.Opening.Amount != "500.00" {
		t.Errorf("opening: got %q", decoded.Opening.Amount)
	}
	if len(decoded.Transactions) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(decoded.Transactions))
	}

	// Enriched amounts are decimal values, which serialize without trailing
	// zeros; the anchor amounts below stay source text.
	credit := decoded.Transactions[0]
	if credit.Reference != "T1" {
		t.Errorf("reference: got %q", credit.Reference)
	}
	if credit.Credit != "100" || credit.Debit != "0" {
		t.Errorf("credit enrichment: crédito %q, débito %q", credit.Credit, credit.Debit)
	}
	if credit.Balance != "600" {
		t.Errorf("balance after credit: got %q", credit.Balance)
	}

	debit := decoded.Transactions[1]
	if debit.Debit != "40" || debit.Credit != "0" {
		t.Errorf("debit enrichment: débito %q, crédito %q", debit.Debit, debit.Credit)
	}
	if debit.Balance != "560" {
		t.Errorf("balance after debit: got %q", debit.Balance)
	}

	if closing, ok := decoded.Closings["closing_available"]; !ok || closing.Amount != "560.00" {
		t.Errorf("closings: %+v", decoded.Closings)
	}
}
