package models

import "errors"

// Fatal pipeline errors. Balance discrepancies are deliberately not here:
// they surface as ReconciliationReport.IsValid == false, never as an error.
var (
	// ErrMalformedDocument means the record container was missing or empty.
	// No partial document is produced.
	ErrMalformedDocument = errors.New("malformed statement document")

	// ErrCurrencyMismatch means a multi-document merge was attempted across
	// conflicting currency/account-type markers. No merged result is produced.
	ErrCurrencyMismatch = errors.New("currency marker mismatch between documents")
)
