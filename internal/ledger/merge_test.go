package ledger

import (
	"errors"
	"testing"

	"github.com/merxbit/statement-ledger/internal/config"
	"github.com/merxbit/statement-ledger/internal/models"
)

func anchor(kind models.BalanceKind, amount string) models.BalanceAnchor {
	return models.BalanceAnchor{Kind: kind, Amount: amount, TypeCode: "Cr"}
}

func txn(date, amount, code, ref string) models.ParsedTransaction {
	return models.ParsedTransaction{Date: date, Amount: amount, TypeCode: code, ReferenceCurrent: ref}
}

// docA: opening 500.00, one credit of 100.00 on 1/1/2024, closing 600.00.
func docA() *models.StatementDocument {
	opening := anchor(models.Opening, "500.00")
	return &models.StatementDocument{
		SourceName:   "extracto_enero.xml",
		Opening:      &opening,
		Transactions: []models.ParsedTransaction{txn("1/1/2024", "100.00", "Cr", "A1")},
		Closings: map[models.BalanceKind]models.BalanceAnchor{
			models.ClosingAvailable: anchor(models.ClosingAvailable, "600.00"),
		},
	}
}

// docB: no opening, one debit of 50.00 on 1/5/2024, closing 550.00.
func docB() *models.StatementDocument {
	return &models.StatementDocument{
		SourceName:   "extracto_mayo.xml",
		Transactions: []models.ParsedTransaction{txn("1/5/2024", "50.00", "Db", "B1")},
		Closings: map[models.BalanceKind]models.BalanceAnchor{
			models.ClosingAvailable: anchor(models.ClosingAvailable, "550.00"),
		},
	}
}

func TestMerger_SingleDocumentPassThrough(t *testing.T) {
	m := NewMerger(config.Default())

	merged, report, err := m.Merge([]*models.StatementDocument{docA()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merged.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(merged.Transactions))
	}
	if merged.Opening == nil || merged.Opening.Amount != "500.00" {
		t.Errorf("opening not passed through: %+v", merged.Opening)
	}
	if !report.IsValid {
		t.Errorf("report invalid: difference %s", report.Difference.StringFixed(2))
	}
	if report.CalculatedClosing.StringFixed(2) != "600.00" {
		t.Errorf("calculated closing: got %s, want 600.00", report.CalculatedClosing.StringFixed(2))
	}
}

func TestMerger_MergeAndReconcile(t *testing.T) {
	m := NewMerger(config.Default())

	// The selection must not depend on upload order, only on dates.
	for name, docs := range map[string][]*models.StatementDocument{
		"A then B": {docA(), docB()},
		"B then A": {docB(), docA()},
	} {
		t.Run(name, func(t *testing.T) {
			merged, report, err := m.Merge(docs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if merged.Opening == nil || merged.Opening.Amount != "500.00" {
				t.Fatalf("merged opening: got %+v, want 500.00 from the earlier document", merged.Opening)
			}
			if got := merged.Closings[models.ClosingAvailable].Amount; got != "550.00" {
				t.Errorf("merged closing available: got %q, want %q", got, "550.00")
			}

			if len(merged.Transactions) != 2 {
				t.Fatalf("transactions: got %d, want 2", len(merged.Transactions))
			}
			// Sorted ascending by date: the January credit before the May debit.
			if merged.Transactions[0].ReferenceCurrent != "A1" {
				t.Errorf("sort order: first transaction is %q, want A1", merged.Transactions[0].ReferenceCurrent)
			}

			// 500 + 100 - 50 = 550 == reported 550.
			if !report.IsValid {
				t.Errorf("report invalid: difference %s", report.Difference.StringFixed(2))
			}
			if report.CalculatedClosing.StringFixed(2) != "550.00" {
				t.Errorf("calculated closing: got %s, want 550.00", report.CalculatedClosing.StringFixed(2))
			}
			if !report.Difference.IsZero() {
				t.Errorf("difference: got %s, want 0", report.Difference.StringFixed(2))
			}
		})
	}
}

func TestMerger_ReconciliationMismatchIsNonFatal(t *testing.T) {
	m := NewMerger(config.Default())

	a := docA()
	a.Closings[models.ClosingAvailable] = anchor(models.ClosingAvailable, "700.00")

	merged, report, err := m.Merge([]*models.StatementDocument{a})
	if err != nil {
		t.Fatalf("a discrepancy must not fail the merge: %v", err)
	}
	if merged == nil {
		t.Fatal("expected a usable merged result alongside the report")
	}
	if report.IsValid {
		t.Fatal("expected IsValid == false")
	}
	if report.Difference.StringFixed(2) != "-100.00" {
		t.Errorf("difference: got %s, want -100.00", report.Difference.StringFixed(2))
	}
}

func TestMerger_WithinTolerance(t *testing.T) {
	m := NewMerger(config.Default())

	a := docA()
	a.Closings[models.ClosingAvailable] = anchor(models.ClosingAvailable, "600.01")

	_, report, err := m.Merge([]*models.StatementDocument{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsValid {
		t.Errorf("a 0.01 difference is within tolerance, got invalid (difference %s)",
			report.Difference.StringFixed(2))
	}
}

func TestMerger_CurrencyMismatch(t *testing.T) {
	m := NewMerger(config.Default())

	local := docA()
	local.SourceName = "extracto_BS_enero.xml"
	foreign := docB()
	foreign.SourceName = "extracto_USD_mayo.xml"

	merged, report, err := m.Merge([]*models.StatementDocument{local, foreign})
	if !errors.Is(err, models.ErrCurrencyMismatch) {
		t.Fatalf("got %v, want ErrCurrencyMismatch", err)
	}
	if merged != nil || report != nil {
		t.Error("a currency mismatch must produce no merged result")
	}
}

func TestMerger_UndeterminedSourcesMerge(t *testing.T) {
	m := NewMerger(config.Default())

	local := docA()
	local.SourceName = "extracto_BS_enero.xml"
	plain := docB() // no marker in the name

	if _, _, err := m.Merge([]*models.StatementDocument{local, plain}); err != nil {
		t.Fatalf("undetermined sources must not block the merge: %v", err)
	}
}

func TestMerger_ClosingBookFallback(t *testing.T) {
	m := NewMerger(config.Default())

	a := docA()
	delete(a.Closings, models.ClosingAvailable)
	a.Closings[models.ClosingBook] = anchor(models.ClosingBook, "600.00")

	_, report, err := m.Merge([]*models.StatementDocument{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.IsValid {
		t.Errorf("closing-book fallback: got invalid, difference %s", report.Difference.StringFixed(2))
	}
	if report.ReportedClosing.StringFixed(2) != "600.00" {
		t.Errorf("reported closing: got %s, want 600.00", report.ReportedClosing.StringFixed(2))
	}
}

func TestMerger_TieBreakByUploadOrder(t *testing.T) {
	m := NewMerger(config.Default())

	first := docA()
	second := docA()
	second.SourceName = "extracto_enero_copia.xml"
	op := anchor(models.Opening, "999.00")
	second.Opening = &op

	merged, _, err := m.Merge([]*models.StatementDocument{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same first-transaction dates: the document uploaded first wins.
	if merged.Opening.Amount != "500.00" {
		t.Errorf("tie-break opening: got %q, want %q", merged.Opening.Amount, "500.00")
	}
}
