package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodFilterParams are the query parameters shared by the derived-view
// endpoints. Zero values mean "all" for month, category and account; the day
// filter only applies in day view mode.
type PeriodFilterParams struct {
	Year       int        `form:"year" binding:"required"`
	Month      int        `form:"month" binding:"omitempty,min=1,max=12"` // 0 = all months
	CategoryID string     `form:"categoryID"`                             // "" = all categories
	AccountID  string     `form:"accountID"`                              // "" = all accounts
	Day        *time.Time `form:"day" time_format:"2006-01-02"`           // Set only in day view
}

// DashboardResponse is the aggregate payload behind the dashboard screen.
type DashboardResponse struct {
	TotalBalance  decimal.Decimal        `json:"totalBalance"`
	PeriodIncome  decimal.Decimal        `json:"periodIncome"`
	PeriodExpense decimal.Decimal        `json:"periodExpense"`
	PeriodBalance decimal.Decimal        `json:"periodBalance"`
	Budgets       []CategoryBudgetStatus `json:"budgets"`
}

// CategoryBudgetStatus compares a category's budget limit with its spend.
type CategoryBudgetStatus struct {
	CategoryID  string           `json:"categoryID"`
	Name        string           `json:"name"`
	Color       string           `json:"color"`
	Spent       decimal.Decimal  `json:"spent"`
	BudgetLimit *decimal.Decimal `json:"budgetLimit,omitempty"`
}

// CalendarDaysResponse lists the distinct days that have at least one
// transaction matching the active filters.
type CalendarDaysResponse struct {
	Days []string `json:"days"` // YYYY-MM-DD
}

// MonthlyTrendParams selects the trailing window for the trend chart.
type MonthlyTrendParams struct {
	MonthsBack int `form:"monthsBack,default=6" binding:"omitempty,min=1,max=24"`
}

// TrendPoint is one month's spend for one category.
type TrendPoint struct {
	Month  string          `json:"month"` // YYYY-MM
	Amount decimal.Decimal `json:"amount"`
}

// CategoryTrendSeries is the per-category series for the monthly trend chart.
type CategoryTrendSeries struct {
	CategoryID string       `json:"categoryID"`
	Name       string       `json:"name"`
	Color      string       `json:"color,omitempty"`
	Points     []TrendPoint `json:"points"`
}

// MonthlyTrendResponse wraps the trend series.
type MonthlyTrendResponse struct {
	Series []CategoryTrendSeries `json:"series"`
}
