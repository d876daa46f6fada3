package services

import (
	"context"

	"github.com/finly-app/finly_backend/internal/dto"
)

// ReportingSvc exposes the derived views: dashboard aggregates, calendar day
// marking and the monthly category trend. All of them are pure computations
// over fetched rows; nothing here writes.
type ReportingSvc interface {
	// Dashboard returns total balance, period income/expense/balance for the
	// given filters, and per-category budget status.
	Dashboard(ctx context.Context, userID string, filter dto.PeriodFilterParams) (*dto.DashboardResponse, error)

	// CalendarDays returns the distinct days carrying at least one transaction
	// matching the filters, ignoring the day filter itself.
	CalendarDays(ctx context.Context, userID string, filter dto.PeriodFilterParams) (*dto.CalendarDaysResponse, error)

	// MonthlyTrend buckets completed expenses by trailing month and category.
	MonthlyTrend(ctx context.Context, userID string, params dto.MonthlyTrendParams) (*dto.MonthlyTrendResponse, error)
}
