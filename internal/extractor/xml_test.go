package extractor

import (
	"errors"
	"testing"

	"github.com/merxbit/statement-ledger/internal/models"
)

const sampleDocument = `<?xml version="1.0" encoding="utf-8"?>
<NewDataSet>
  <Estado_x0020_de_x0020_Cuenta>
    <fecha></fecha>
    <ref_corrie></ref_corrie>
    <ref_origin></ref_origin>
    <importe>500.00</importe>
    <tipo>Cr</tipo>
    <observ>Saldo Contable Anterior</observ>
  </Estado_x0020_de_x0020_Cuenta>
  <Estado_x0020_de_x0020_Cuenta>
    <fecha>01/02/2024</fecha>
    <ref_corrie>123456</ref_corrie>
    <ref_origin>654321</ref_origin>
    <importe>100.50</importe>
    <tipo>Cr</tipo>
    <observ>TRANSFERENCIA RECIBIDA ORDENANTE NOMBRE:JUAN CARLOS|CI:1234567</observ>
  </Estado_x0020_de_x0020_Cuenta>
</NewDataSet>`

func TestParseTree(t *testing.T) {
	records, err := ParseTree([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}

	anchor := records[0]
	if anchor.Amount != "500.00" || anchor.TypeCode != "Cr" {
		t.Errorf("anchor record: %+v", anchor)
	}
	if anchor.Narrative != "Saldo Contable Anterior" {
		t.Errorf("anchor narrative: %q", anchor.Narrative)
	}

	tx := records[1]
	if tx.Date != "01/02/2024" || tx.ReferenceCurrent != "123456" || tx.ReferenceOrigin != "654321" {
		t.Errorf("transaction record: %+v", tx)
	}
	if tx.Amount != "100.50" {
		t.Errorf("amount: got %q", tx.Amount)
	}
}

func TestParseTree_InvalidXML(t *testing.T) {
	_, err := ParseTree([]byte("<NewDataSet><broken"))
	if !errors.Is(err, models.ErrMalformedDocument) {
		t.Fatalf("got %v, want ErrMalformedDocument", err)
	}
}

func TestParseTree_EmptyContainer(t *testing.T) {
	// An empty but well-formed container parses; the decoder rejects it later.
	records, err := ParseTree([]byte(`<NewDataSet></NewDataSet>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records: got %d, want 0", len(records))
	}
}
