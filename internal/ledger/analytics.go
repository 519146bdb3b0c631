package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/merxbit/statement-ledger/internal/config"
	"github.com/merxbit/statement-ledger/internal/models"
	"github.com/merxbit/statement-ledger/internal/parser"
)

// KindFilter restricts analytics to one transaction direction.
type KindFilter string

const (
	FilterAll     KindFilter = "all"
	FilterCredits KindFilter = "credits"
	FilterDebits  KindFilter = "debits"
)

// Labels used when grouping transactions that carry no channel or date.
const (
	NoChannelLabel = "Sin canal"
	NoDateLabel    = "Sin fecha"
)

// ChannelStats aggregates the transactions of one channel.
type ChannelStats struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DateStats aggregates the transactions of one calendar day, split by
// direction.
type DateStats struct {
	Count   int             `json:"count"`
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
}

// BalancePoint is one step of the running balance: the balance after the
// transaction was applied.
type BalancePoint struct {
	Date        string                   `json:"fecha"`
	Balance     decimal.Decimal          `json:"balance"`
	Transaction models.ParsedTransaction `json:"transaction"`
}

// PeriodStats are the headline figures of one period in a comparison.
type PeriodStats struct {
	TotalTransactions int             `json:"totalTransactions"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	NetBalance        decimal.Decimal `json:"netBalance"`
}

// PeriodComparison contrasts two transaction sets.
type PeriodComparison struct {
	Period1            PeriodStats     `json:"period1"`
	Period2            PeriodStats     `json:"period2"`
	TransactionsDelta  int             `json:"transactionsDelta"`
	CreditsDelta       decimal.Decimal `json:"creditsDelta"`
	DebitsDelta        decimal.Decimal `json:"debitsDelta"`
	NetBalanceDelta    decimal.Decimal `json:"netBalanceDelta"`
	TransactionsChange decimal.Decimal `json:"transactionsChangePct"`
	CreditsChange      decimal.Decimal `json:"creditsChangePct"`
	DebitsChange       decimal.Decimal `json:"debitsChangePct"`
}

// Analytics provides pure aggregation and ranking functions over a
// transaction sequence. None of them mutate their input.
type Analytics struct {
	dateLayout string
}

// NewAnalytics builds the engine with the configured date layout, which the
// running-balance fold needs for its defensive re-sort.
func NewAnalytics(opts config.Options) *Analytics {
	return &Analytics{dateLayout: opts.DateLayout}
}

func filterByKind(txns []models.ParsedTransaction, filter KindFilter) []models.ParsedTransaction {
	switch filter {
	case FilterCredits:
		out := make([]models.ParsedTransaction, 0, len(txns))
		for _, t := range txns {
			if t.IsCredit() {
				out = append(out, t)
			}
		}
		return out
	case FilterDebits:
		out := make([]models.ParsedTransaction, 0, len(txns))
		for _, t := range txns {
			if t.IsDebit() {
				out = append(out, t)
			}
		}
		return out
	default:
		return txns
	}
}

// TopN returns the limit largest transactions by amount, descending. A limit
// beyond the sequence length simply returns everything; zero or negative
// limits return nothing; ties keep input order.
func (a *Analytics) TopN(txns []models.ParsedTransaction, limit int, filter KindFilter) []models.ParsedTransaction {
	if limit < 0 {
		limit = 0
	}
	filtered := filterByKind(txns, filter)
	out := append([]models.ParsedTransaction(nil), filtered...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AmountValue().GreaterThan(out[j].AmountValue())
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// DailyAverage divides the matching amount total by the number of distinct
// dates among the matching transactions. Blank dates do not count as a day;
// the divisor never drops below 1.
func (a *Analytics) DailyAverage(txns []models.ParsedTransaction, filter KindFilter) decimal.Decimal {
	filtered := filterByKind(txns, filter)

	days := make(map[string]struct{})
	total := decimal.Zero
	for _, t := range filtered {
		if t.Date != "" {
			days[t.Date] = struct{}{}
		}
		total = total.Add(t.AmountValue())
	}

	divisor := len(days)
	if divisor == 0 {
		divisor = 1
	}
	return total.Div(decimal.NewFromInt(int64(divisor)))
}

// GroupByChannel aggregates count and amount total per channel label.
func (a *Analytics) GroupByChannel(txns []models.ParsedTransaction) map[string]ChannelStats {
	out := make(map[string]ChannelStats)
	for _, t := range txns {
		key := t.Channel
		if key == "" {
			key = NoChannelLabel
		}
		stats := out[key]
		stats.Count++
		stats.Total = stats.Total.Add(t.AmountValue())
		out[key] = stats
	}
	return out
}

// GroupByDate aggregates per-day counts with credit/debit subtotals.
func (a *Analytics) GroupByDate(txns []models.ParsedTransaction) map[string]DateStats {
	out := make(map[string]DateStats)
	for _, t := range txns {
		key := t.Date
		if key == "" {
			key = NoDateLabel
		}
		stats := out[key]
		stats.Count++
		switch {
		case t.IsCredit():
			stats.Credits = stats.Credits.Add(t.AmountValue())
		case t.IsDebit():
			stats.Debits = stats.Debits.Add(t.AmountValue())
		}
		out[key] = stats
	}
	return out
}

// Extremes returns the single highest and lowest transactions by amount.
// Ties resolve to the first occurrence in input order; both results are nil
// for an empty sequence.
func (a *Analytics) Extremes(txns []models.ParsedTransaction) (highest, lowest *models.ParsedTransaction) {
	if len(txns) == 0 {
		return nil, nil
	}
	hi, lo := 0, 0
	for i := 1; i < len(txns); i++ {
		amt := txns[i].AmountValue()
		if amt.GreaterThan(txns[hi].AmountValue()) {
			hi = i
		}
		if amt.LessThan(txns[lo].AmountValue()) {
			lo = i
		}
	}
	return &txns[hi], &txns[lo]
}

// RunningBalance re-sorts the sequence by date and folds the opening balance
// forward, adding credit-like amounts and subtracting debit-like ones. The
// returned points are in chronological order.
func (a *Analytics) RunningBalance(txns []models.ParsedTransaction, opening decimal.Decimal) []BalancePoint {
	sorted := append([]models.ParsedTransaction(nil), txns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := parser.ParseDate(sorted[i].Date, a.dateLayout)
		tj, _ := parser.ParseDate(sorted[j].Date, a.dateLayout)
		return ti.Before(tj)
	})

	points := make([]BalancePoint, 0, len(sorted))
	balance := opening
	for _, t := range sorted {
		balance = balance.Add(t.Signed())
		points = append(points, BalancePoint{
			Date:        t.Date,
			Balance:     balance,
			Transaction: t,
		})
	}
	return points
}

// ComparePeriods contrasts two transaction sets: totals, net balance, and
// the absolute and percentage change from the first period to the second.
func (a *Analytics) ComparePeriods(period1, period2 []models.ParsedTransaction) PeriodComparison {
	s1 := periodStats(period1)
	s2 := periodStats(period2)

	cmp := PeriodComparison{
		Period1:           s1,
		Period2:           s2,
		TransactionsDelta: s2.TotalTransactions - s1.TotalTransactions,
		CreditsDelta:      s2.TotalCredits.Sub(s1.TotalCredits),
		DebitsDelta:       s2.TotalDebits.Sub(s1.TotalDebits),
		NetBalanceDelta:   s2.NetBalance.Sub(s1.NetBalance),
	}

	hundred := decimal.NewFromInt(100)
	if s1.TotalTransactions > 0 {
		cmp.TransactionsChange = decimal.NewFromInt(int64(cmp.TransactionsDelta)).
			Div(decimal.NewFromInt(int64(s1.TotalTransactions))).Mul(hundred)
	}
	if s1.TotalCredits.IsPositive() {
		cmp.CreditsChange = cmp.CreditsDelta.Div(s1.TotalCredits).Mul(hundred)
	}
	if s1.TotalDebits.IsPositive() {
		cmp.DebitsChange = cmp.DebitsDelta.Div(s1.TotalDebits).Mul(hundred)
	}
	return cmp
}

func periodStats(txns []models.ParsedTransaction) PeriodStats {
	stats := PeriodStats{TotalTransactions: len(txns)}
	for _, t := range txns {
		switch {
		case t.IsCredit():
			stats.TotalCredits = stats.TotalCredits.Add(t.AmountValue())
		case t.IsDebit():
			stats.TotalDebits = stats.TotalDebits.Add(t.AmountValue())
		}
	}
	stats.NetBalance = stats.TotalCredits.Sub(stats.TotalDebits)
	return stats
}

// Summarize computes the headline statistics of a document.
func Summarize(doc *models.StatementDocument) models.Summary {
	s := models.Summary{
		Opening:           "0.00",
		TotalTransactions: len(doc.Transactions),
		ClosingAvailable:  "0.00",
	}
	if doc.Opening != nil && doc.Opening.Amount != "" {
		s.Opening = doc.Opening.Amount
	}
	if closing, ok := doc.Closings[models.ClosingAvailable]; ok && closing.Amount != "" {
		s.ClosingAvailable = closing.Amount
	}
	for _, t := range doc.Transactions {
		switch {
		case t.IsCredit():
			s.CreditCount++
			s.TotalCredits = s.TotalCredits.Add(t.AmountValue())
		case t.IsDebit():
			s.DebitCount++
			s.TotalDebits = s.TotalDebits.Add(t.AmountValue())
		}
	}
	return s
}
