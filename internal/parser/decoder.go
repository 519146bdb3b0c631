// Package parser turns raw statement records into assembled documents:
// classification of balance anchors, narrative field extraction, and
// document assembly.
package parser

import (
	"fmt"
	"strings"

	"github.com/merxbit/statement-ledger/internal/config"
	"github.com/merxbit/statement-ledger/internal/models"
)

// anchorRules classify a record as a balance anchor by fixed narrative
// phrases, tested in priority order. A record matching none of them is a
// transaction.
var anchorRules = []struct {
	phrase string
	kind   models.BalanceKind
}{
	{"Saldo Contable Anterior", models.Opening},
	{"Saldo Contable Final", models.ClosingBook},
	{"Saldo Reservado", models.ClosingReserved},
	{"Saldo Sobre Giro", models.ClosingOverdraft},
	{"Saldo Disponible Final", models.ClosingAvailable},
}

// classifyAnchor returns the balance kind of a record, or "" when the record
// is a regular transaction.
func classifyAnchor(narrative string) models.BalanceKind {
	for _, rule := range anchorRules {
		if strings.Contains(narrative, rule.phrase) {
			return rule.kind
		}
	}
	return ""
}

// Decoder classifies raw records and assembles them into one statement
// document per source.
type Decoder struct {
	extractor *ObservationExtractor
}

// NewDecoder builds a decoder using the configured extraction options.
func NewDecoder(opts config.Options) *Decoder {
	return &Decoder{extractor: NewObservationExtractor(opts)}
}

// Decode builds a StatementDocument from the record container of one source.
// It fails with models.ErrMalformedDocument when the container is missing or
// holds zero records; otherwise every record lands either as an anchor or as
// a transaction, in source order.
//
// Anchor phrase repeats are resolved deterministically: the opening keeps the
// first match, each closing kind keeps the last.
func (d *Decoder) Decode(sourceName string, records []models.RawRecord) (*models.StatementDocument, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records found in %q", models.ErrMalformedDocument, sourceName)
	}

	doc := &models.StatementDocument{
		SourceName: sourceName,
		Closings:   make(map[models.BalanceKind]models.BalanceAnchor),
	}

	for _, rec := range records {
		kind := classifyAnchor(rec.Narrative)
		if kind == "" {
			doc.Transactions = append(doc.Transactions, d.parseTransaction(rec))
			continue
		}

		anchor := models.BalanceAnchor{
			Kind:     kind,
			Amount:   strings.TrimSpace(rec.Amount),
			TypeCode: strings.TrimSpace(rec.TypeCode),
		}
		if kind == models.Opening {
			if doc.Opening == nil {
				doc.Opening = &anchor
			}
			continue
		}
		doc.Closings[kind] = anchor
	}

	return doc, nil
}

// parseTransaction copies the formal fields and enriches them with the
// structured data mined from the decoded narrative.
func (d *Decoder) parseTransaction(rec models.RawRecord) models.ParsedTransaction {
	narrative := DecodeEntities(rec.Narrative)

	txn := models.ParsedTransaction{
		Date:             strings.TrimSpace(rec.Date),
		ReferenceCurrent: strings.TrimSpace(rec.ReferenceCurrent),
		ReferenceOrigin:  strings.TrimSpace(rec.ReferenceOrigin),
		Amount:           strings.TrimSpace(rec.Amount),
		TypeCode:         strings.TrimSpace(rec.TypeCode),
		Narrative:        narrative,
	}
	d.extractor.Extract(narrative, &txn)
	return txn
}
