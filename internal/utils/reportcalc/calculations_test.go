package reportcalc

import (
	"testing"
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(amount string, txType domain.TransactionType, date time.Time) domain.Transaction {
	return domain.Transaction{
		Amount: decimal.RequireFromString(amount),
		Type:   txType,
		Status: domain.StatusCompleted,
		Date:   date,
	}
}

func TestPeriodFilterMatches(t *testing.T) {
	march15 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	base := txn("10", domain.Expense, march15)
	base.CategoryID = "cat-food"
	base.AccountID = "acc-main"

	t.Run("year mismatch", func(t *testing.T) {
		f := PeriodFilter{Year: 2023}
		assert.False(t, f.Matches(base))
	})

	t.Run("whole year", func(t *testing.T) {
		f := PeriodFilter{Year: 2024}
		assert.True(t, f.Matches(base))
	})

	t.Run("month filter", func(t *testing.T) {
		assert.True(t, PeriodFilter{Year: 2024, Month: time.March}.Matches(base))
		assert.False(t, PeriodFilter{Year: 2024, Month: time.April}.Matches(base))
	})

	t.Run("category filter", func(t *testing.T) {
		assert.True(t, PeriodFilter{Year: 2024, CategoryID: "cat-food"}.Matches(base))
		assert.False(t, PeriodFilter{Year: 2024, CategoryID: "cat-rent"}.Matches(base))
	})

	t.Run("account filter", func(t *testing.T) {
		assert.True(t, PeriodFilter{Year: 2024, AccountID: "acc-main"}.Matches(base))
		assert.False(t, PeriodFilter{Year: 2024, AccountID: "acc-other"}.Matches(base))
	})

	t.Run("account filter matches transfer counterparty", func(t *testing.T) {
		leg := txn("50", domain.TransferOut, march15)
		leg.AccountID = "acc-main"
		leg.CounterpartyAccountID = "acc-savings"

		assert.True(t, PeriodFilter{Year: 2024, AccountID: "acc-main"}.Matches(leg))
		assert.True(t, PeriodFilter{Year: 2024, AccountID: "acc-savings"}.Matches(leg))
		assert.False(t, PeriodFilter{Year: 2024, AccountID: "acc-other"}.Matches(leg))
	})

	t.Run("day filter", func(t *testing.T) {
		day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		otherDay := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
		assert.True(t, PeriodFilter{Year: 2024, Day: &day}.Matches(base))
		assert.False(t, PeriodFilter{Year: 2024, Day: &otherDay}.Matches(base))
	})
}

func TestBalanceTotals(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		txn("100.50", domain.Income, date),
		txn("40.25", domain.Expense, date),
		txn("10", domain.Expense, date),
		// Transfer legs are zero-sum across the user's accounts and must not
		// show up as income or expense.
		txn("500", domain.TransferOut, date),
		txn("500", domain.TransferIn, date),
	}

	totals := BalanceTotals(txns)
	assert.True(t, totals.Income.Equal(decimal.RequireFromString("100.50")), "income: %s", totals.Income)
	assert.True(t, totals.Expense.Equal(decimal.RequireFromString("50.25")), "expense: %s", totals.Expense)
	assert.True(t, totals.Net.Equal(decimal.RequireFromString("50.25")), "net: %s", totals.Net)
}

func TestMarkedDays(t *testing.T) {
	txns := []domain.Transaction{
		txn("10", domain.Expense, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)),
		txn("20", domain.Expense, time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)),
		txn("30", domain.Income, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		txn("40", domain.Expense, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
	}

	days := MarkedDays(txns, PeriodFilter{Year: 2024, Month: time.March})
	assert.Equal(t, []string{"2024-03-02", "2024-03-15"}, days)

	// The day filter is ignored: selecting a day must not hide the other
	// marked days of the month.
	selected := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	daysWithSelection := MarkedDays(txns, PeriodFilter{Year: 2024, Month: time.March, Day: &selected})
	assert.Equal(t, days, daysWithSelection)
}

func enriched(amount string, date time.Time, cat *domain.CategoryRef) domain.TransactionWithRelations {
	return domain.TransactionWithRelations{
		Transaction: txn(amount, domain.Expense, date),
		Category:    cat,
	}
}

func TestMonthlyCategoryTrend(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	food := &domain.CategoryRef{CategoryID: "cat-food", Name: "Food", Color: "#ff0000"}

	txns := []domain.TransactionWithRelations{
		enriched("25", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), food),
		enriched("15", time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), food),
		// Outside the window.
		enriched("99", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), food),
	}

	series := MonthlyCategoryTrend(txns, 3, now)
	require.Len(t, series, 1)
	assert.Equal(t, "cat-food", series[0].CategoryID)
	assert.Equal(t, "Food", series[0].Name)

	require.Len(t, series[0].Points, 3)
	assert.Equal(t, "2024-03", series[0].Points[0].Month)
	assert.Equal(t, "2024-04", series[0].Points[1].Month)
	assert.Equal(t, "2024-05", series[0].Points[2].Month)

	assert.True(t, series[0].Points[0].Amount.IsZero())
	assert.True(t, series[0].Points[1].Amount.Equal(decimal.RequireFromString("40")))
	assert.True(t, series[0].Points[2].Amount.IsZero())
}

func TestMonthlyCategoryTrendSkipsNonExpense(t *testing.T) {
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	pendingExpense := enriched("10", date, nil)
	pendingExpense.Status = domain.StatusPending

	income := domain.TransactionWithRelations{Transaction: txn("10", domain.Income, date)}
	transferLeg := domain.TransactionWithRelations{Transaction: txn("10", domain.TransferOut, date)}

	series := MonthlyCategoryTrend([]domain.TransactionWithRelations{pendingExpense, income, transferLeg}, 3, now)
	assert.Empty(t, series, "only completed expenses count toward the trend")
}

func TestMonthlyCategoryTrendUncategorized(t *testing.T) {
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	txns := []domain.TransactionWithRelations{
		enriched("12", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), nil),
	}

	series := MonthlyCategoryTrend(txns, 2, now)
	require.Len(t, series, 1)
	assert.Equal(t, UncategorizedID, series[0].CategoryID)
	assert.Equal(t, "Uncategorized", series[0].Name)
}
