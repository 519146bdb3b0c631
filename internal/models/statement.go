package models

import (
	"github.com/shopspring/decimal"
)

// BalanceKind identifies which balance a non-transaction record reports.
type BalanceKind string

const (
	Opening          BalanceKind = "opening"
	ClosingBook      BalanceKind = "closing_book"
	ClosingReserved  BalanceKind = "closing_reserved"
	ClosingOverdraft BalanceKind = "closing_overdraft"
	ClosingAvailable BalanceKind = "closing_available"
)

// BalanceAnchor is a balance row from the statement. Amount is kept as the
// source text; the type code carries credit/debit semantics even here.
type BalanceAnchor struct {
	Kind     BalanceKind `json:"kind"`
	Amount   string      `json:"importe"`
	TypeCode string      `json:"tipo"`
}

// AmountValue parses the anchor amount, treating blanks as zero.
func (a BalanceAnchor) AmountValue() decimal.Decimal {
	return parseDecimal(a.Amount)
}

// StatementDocument is one assembled statement: an optional opening anchor,
// transactions in source order, and the closing anchors keyed by kind.
type StatementDocument struct {
	// SourceName is the logical filename the document came from. The merger
	// uses it for currency-marker classification and provenance.
	SourceName   string                        `json:"source"`
	Opening      *BalanceAnchor                `json:"saldoInicial"`
	Transactions []ParsedTransaction           `json:"transactions"`
	Closings     map[BalanceKind]BalanceAnchor `json:"saldosFinales"`
}

// ClosingReported returns the balance the reconciler compares against:
// closing-available when present, otherwise closing-book.
func (d *StatementDocument) ClosingReported() (BalanceAnchor, bool) {
	if a, ok := d.Closings[ClosingAvailable]; ok {
		return a, true
	}
	if a, ok := d.Closings[ClosingBook]; ok {
		return a, true
	}
	return BalanceAnchor{}, false
}

// MergedStatement combines several documents. It owns its transaction slice;
// opening and closings are selected from the sources per the merge tie-break
// rules, never aliased wholesale from one document.
type MergedStatement struct {
	Sources      []string                      `json:"sources"`
	Opening      *BalanceAnchor                `json:"saldoInicial"`
	Transactions []ParsedTransaction           `json:"transactions"`
	Closings     map[BalanceKind]BalanceAnchor `json:"saldosFinales"`
}

// Document converts the merged result back to the common document shape so
// exporters and analytics can treat both flows uniformly.
func (m *MergedStatement) Document() *StatementDocument {
	name := ""
	if len(m.Sources) > 0 {
		name = m.Sources[0]
	}
	return &StatementDocument{
		SourceName:   name,
		Opening:      m.Opening,
		Transactions: m.Transactions,
		Closings:     m.Closings,
	}
}

// DuplicateGroup flags a transaction whose (date, amount, current reference)
// key repeats an earlier one. FirstIndex points at the original occurrence.
type DuplicateGroup struct {
	Date             string `json:"fecha"`
	Amount           string `json:"importe"`
	ReferenceCurrent string `json:"referencia_corriente"`
	FirstIndex       int    `json:"originalIndex"`
	DuplicateIndex   int    `json:"index"`
}

// ReconciliationReport is the non-fatal outcome of balance verification.
// IsValid == false never blocks a merge; callers decide how to warn.
type ReconciliationReport struct {
	IsValid           bool            `json:"isValid"`
	Opening           decimal.Decimal `json:"opening"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	CalculatedClosing decimal.Decimal `json:"calculatedClosing"`
	ReportedClosing   decimal.Decimal `json:"reportedClosing"`
	Difference        decimal.Decimal `json:"difference"`
}

// Summary holds the headline statistics shown after a run and stored in
// processing history.
type Summary struct {
	Opening           string          `json:"saldoInicial"`
	TotalTransactions int             `json:"totalTransactions"`
	CreditCount       int             `json:"credits"`
	DebitCount        int             `json:"debits"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	ClosingAvailable  string          `json:"saldoFinal"`
}
