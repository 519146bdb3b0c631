package ledger

import (
	"github.com/merxbit/statement-ledger/internal/models"
)

// duplicateKey is the composite identity of a transaction for duplicate
// detection purposes.
type duplicateKey struct {
	date, amount, reference string
}

// DetectDuplicates scans the sequence in input order and flags every
// transaction whose (date, amount, current reference) tuple repeats an
// earlier one. The first occurrence of a key is the original; the sequence
// itself is never mutated.
func DetectDuplicates(txns []models.ParsedTransaction) []models.DuplicateGroup {
	var groups []models.DuplicateGroup
	seen := make(map[duplicateKey]int, len(txns))

	for i, txn := range txns {
		key := duplicateKey{date: txn.Date, amount: txn.Amount, reference: txn.ReferenceCurrent}
		if first, ok := seen[key]; ok {
			groups = append(groups, models.DuplicateGroup{
				Date:             txn.Date,
				Amount:           txn.Amount,
				ReferenceCurrent: txn.ReferenceCurrent,
				FirstIndex:       first,
				DuplicateIndex:   i,
			})
			continue
		}
		seen[key] = i
	}
	return groups
}

// RemoveFlagged returns a new sequence with every flagged duplicate removed.
// First occurrences survive and the relative order of survivors is kept.
func RemoveFlagged(txns []models.ParsedTransaction, groups []models.DuplicateGroup) []models.ParsedTransaction {
	drop := make(map[int]struct{}, len(groups))
	for _, g := range groups {
		drop[g.DuplicateIndex] = struct{}{}
	}

	out := make([]models.ParsedTransaction, 0, len(txns)-len(drop))
	for i, txn := range txns {
		if _, flagged := drop[i]; flagged {
			continue
		}
		out = append(out, txn)
	}
	return out
}
