package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RawRecord is one record from the statement field-tree, as produced by the
// XML extractor. All values are kept as source text; the narrative field may
// be empty but is always present.
type RawRecord struct {
	Date             string `json:"fecha"`
	ReferenceCurrent string `json:"referencia_corriente"`
	ReferenceOrigin  string `json:"referencia_origen"`
	Amount           string `json:"importe"`
	TypeCode         string `json:"tipo"`
	Narrative        string `json:"observ"`
}

// ParsedTransaction is a single ledger entry derived from one RawRecord.
// The extracted fields default to "" when the narrative holds no match.
type ParsedTransaction struct {
	Date             string `json:"fecha"`
	ReferenceCurrent string `json:"referencia_corriente"`
	ReferenceOrigin  string `json:"referencia_origen"`
	Amount           string `json:"importe"`
	TypeCode         string `json:"tipo"`

	PayerName          string `json:"ordenante_nombre"`
	PayerNationalID    string `json:"ordenante_ci"`
	MaskedCard         string `json:"ordenante_tarjeta"`
	OriginAccount      string `json:"ordenante_cuenta"`
	BeneficiaryAccount string `json:"beneficiario_cuenta"`
	Channel            string `json:"canal"`
	Concept            string `json:"concepto"`

	// Narrative is the full entity-decoded observation text.
	Narrative string `json:"observacion_completa"`
}

// AmountValue parses the stored amount magnitude. Unparseable or empty
// amounts count as zero, matching the lenient source behavior.
func (t ParsedTransaction) AmountValue() decimal.Decimal {
	return parseDecimal(t.Amount)
}

// IsCredit reports whether the type code is credit-like ("Cr" or "Hb").
func (t ParsedTransaction) IsCredit() bool {
	return IsCreditCode(t.TypeCode)
}

// IsDebit reports whether the type code is debit-like ("Dr" or "Db").
func (t ParsedTransaction) IsDebit() bool {
	return IsDebitCode(t.TypeCode)
}

// Signed returns the amount with direction applied: positive for credit-like
// codes, negative for debit-like codes, zero otherwise. The stored amount
// itself is always a non-negative magnitude.
func (t ParsedTransaction) Signed() decimal.Decimal {
	amt := t.AmountValue()
	switch {
	case t.IsCredit():
		return amt
	case t.IsDebit():
		return amt.Neg()
	default:
		return decimal.Zero
	}
}

// IsCreditCode reports whether a type code is credit-like.
func IsCreditCode(code string) bool {
	switch strings.TrimSpace(code) {
	case "Cr", "cr", "CR", "Hb", "hb", "HB":
		return true
	}
	return false
}

// IsDebitCode reports whether a type code is debit-like.
func IsDebitCode(code string) bool {
	switch strings.TrimSpace(code) {
	case "Dr", "dr", "DR", "Db", "db", "DB":
		return true
	}
	return false
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
