// Package reportcalc holds the pure derived-view computations: period
// filtering, balance totals, calendar day marking and the monthly category
// trend. Everything operates on already-fetched transaction lists and issues
// no queries, so it is trivially testable.
package reportcalc

import (
	"sort"
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

const dayFormat = "2006-01-02"
const monthFormat = "2006-01"

// PeriodFilter selects transactions by period, category and account.
// Month == 0, CategoryID == "" and AccountID == "" act as wildcards.
// Day is only consulted when non-nil (day/calendar view mode).
type PeriodFilter struct {
	Year       int
	Month      time.Month // 0 = all months
	CategoryID string     // "" = all categories
	AccountID  string     // "" = all accounts
	Day        *time.Time // nil = month view
}

// Matches reports whether txn passes every active filter. For transfer legs
// the account filter matches either side of the movement, so a transfer shows
// up when filtering by its source or its destination account.
func (f PeriodFilter) Matches(txn domain.Transaction) bool {
	if txn.Date.Year() != f.Year {
		return false
	}
	if f.Month != 0 && txn.Date.Month() != f.Month {
		return false
	}
	if f.CategoryID != "" && txn.CategoryID != f.CategoryID {
		return false
	}
	if f.AccountID != "" {
		if txn.AccountID != f.AccountID &&
			!(txn.Type.IsTransfer() && txn.CounterpartyAccountID == f.AccountID) {
			return false
		}
	}
	if f.Day != nil && txn.Date.Format(dayFormat) != f.Day.Format(dayFormat) {
		return false
	}
	return true
}

// WithoutDay returns a copy of the filter with the day constraint removed.
// The calendar shows every qualifying day regardless of which one is selected.
func (f PeriodFilter) WithoutDay() PeriodFilter {
	f.Day = nil
	return f
}

// Filter returns the transactions matching f, preserving order.
func Filter(txns []domain.Transaction, f PeriodFilter) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txns))
	for _, txn := range txns {
		if f.Matches(txn) {
			out = append(out, txn)
		}
	}
	return out
}

// Totals is the income/expense/net fold over a transaction list.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// BalanceTotals folds a transaction list into income, expense and net.
// Transfer legs contribute nothing: they are zero-sum across the user's own
// accounts and would otherwise inflate both sides.
func BalanceTotals(txns []domain.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
	for _, txn := range txns {
		switch txn.Type {
		case domain.Income:
			t.Income = t.Income.Add(txn.Amount)
			t.Net = t.Net.Add(txn.Amount)
		case domain.Expense:
			t.Expense = t.Expense.Add(txn.Amount)
			t.Net = t.Net.Sub(txn.Amount)
		}
	}
	return t
}

// MarkedDays returns the distinct days (YYYY-MM-DD, sorted ascending) that
// carry at least one transaction matching the filters minus the day filter.
func MarkedDays(txns []domain.Transaction, f PeriodFilter) []string {
	filter := f.WithoutDay()
	seen := make(map[string]struct{})
	for _, txn := range txns {
		if filter.Matches(txn) {
			seen[txn.Date.Format(dayFormat)] = struct{}{}
		}
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// MonthAmount is one month's total for a trend series.
type MonthAmount struct {
	Month  string // YYYY-MM
	Amount decimal.Decimal
}

// CategorySeries is the monthly spend series for a single category.
type CategorySeries struct {
	CategoryID string
	Name       string
	Color      string
	Points     []MonthAmount
}

// UncategorizedID labels trend spend carrying no category.
const UncategorizedID = "uncategorized"

// MonthlyCategoryTrend buckets completed expenses by (month, category) over
// the trailing monthsBack months including the month of now. Every series has
// one zero-filled point per month; categories with no spend anywhere in the
// window are dropped. Series are ordered by category name for stable output.
func MonthlyCategoryTrend(txns []domain.TransactionWithRelations, monthsBack int, now time.Time) []CategorySeries {
	if monthsBack <= 0 {
		return nil
	}

	months := make([]string, 0, monthsBack)
	monthIndex := make(map[string]int, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		key := m.Format(monthFormat)
		monthIndex[key] = len(months)
		months = append(months, key)
	}

	type bucket struct {
		name    string
		color   string
		amounts []decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	for _, txn := range txns {
		if txn.Type != domain.Expense || txn.Status != domain.StatusCompleted {
			continue
		}
		idx, ok := monthIndex[txn.Date.Format(monthFormat)]
		if !ok {
			continue
		}

		catID := UncategorizedID
		name := "Uncategorized"
		color := ""
		if txn.Category != nil {
			catID = txn.Category.CategoryID
			name = txn.Category.Name
			color = txn.Category.Color
		}

		b, ok := buckets[catID]
		if !ok {
			amounts := make([]decimal.Decimal, monthsBack)
			for i := range amounts {
				amounts[i] = decimal.Zero
			}
			b = &bucket{name: name, color: color, amounts: amounts}
			buckets[catID] = b
		}
		b.amounts[idx] = b.amounts[idx].Add(txn.Amount)
	}

	series := make([]CategorySeries, 0, len(buckets))
	for catID, b := range buckets {
		allZero := true
		points := make([]MonthAmount, monthsBack)
		for i, month := range months {
			points[i] = MonthAmount{Month: month, Amount: b.amounts[i]}
			if !b.amounts[i].IsZero() {
				allZero = false
			}
		}
		if allZero {
			continue
		}
		series = append(series, CategorySeries{
			CategoryID: catID,
			Name:       b.name,
			Color:      b.color,
			Points:     points,
		})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Name < series[j].Name })
	return series
}
