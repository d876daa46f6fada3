package services

import (
	"context"
	"sort"
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	portsrepo "github.com/finly-app/finly_backend/internal/core/ports/repositories"
	portssvc "github.com/finly-app/finly_backend/internal/core/ports/services"
	"github.com/finly-app/finly_backend/internal/dto"
	"github.com/finly-app/finly_backend/internal/utils/reportcalc"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// reportingService implements the ReportingSvc interface. It composes the
// repositories' raw rows with the pure computations in reportcalc; it never
// writes.
type reportingService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	txnRepo      portsrepo.TransactionReader
	categoryRepo portsrepo.CategoryReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader, categoryRepo portsrepo.CategoryReader) portssvc.ReportingSvc {
	return &reportingService{
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		categoryRepo: categoryRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

func filterFromParams(params dto.PeriodFilterParams) reportcalc.PeriodFilter {
	return reportcalc.PeriodFilter{
		Year:       params.Year,
		Month:      time.Month(params.Month),
		CategoryID: params.CategoryID,
		AccountID:  params.AccountID,
		Day:        params.Day,
	}
}

// reportableTransactions strips the relation wrappers and drops canceled
// transactions, which count toward no derived view.
func reportableTransactions(enriched []domain.TransactionWithRelations) []domain.Transaction {
	txns := make([]domain.Transaction, 0, len(enriched))
	for _, e := range enriched {
		if e.Status == domain.StatusCanceled {
			continue
		}
		txns = append(txns, e.Transaction)
	}
	return txns
}

func (s *reportingService) Dashboard(ctx context.Context, userID string, params dto.PeriodFilterParams) (*dto.DashboardResponse, error) {
	var (
		totalBalance decimal.Decimal
		enriched     []domain.TransactionWithRelations
		categories   []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalBalance, err = s.accountRepo.SumActiveBalances(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		enriched, err = s.txnRepo.ListTransactionsWithRelations(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.ListCategories(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to fetch dashboard data")
		return nil, err
	}

	filter := filterFromParams(params)
	completed := make([]domain.Transaction, 0, len(enriched))
	for _, txn := range reportableTransactions(enriched) {
		if txn.Status == domain.StatusCompleted {
			completed = append(completed, txn)
		}
	}
	matched := reportcalc.Filter(completed, filter)
	totals := reportcalc.BalanceTotals(matched)

	return &dto.DashboardResponse{
		TotalBalance:  totalBalance,
		PeriodIncome:  totals.Income,
		PeriodExpense: totals.Expense,
		PeriodBalance: totals.Net,
		Budgets:       budgetStatuses(categories, completed, filter),
	}, nil
}

// budgetStatuses computes per-category spend for the filtered period. Budgets
// are period-scoped but not day-scoped, so the day filter is dropped; a
// category appears once it has a budget limit or any spend in the period.
func budgetStatuses(categories []domain.Category, completed []domain.Transaction, filter reportcalc.PeriodFilter) []dto.CategoryBudgetStatus {
	periodFilter := filter.WithoutDay()
	spent := make(map[string]decimal.Decimal)
	for _, txn := range reportcalc.Filter(completed, periodFilter) {
		if txn.Type != domain.Expense || txn.CategoryID == "" {
			continue
		}
		spent[txn.CategoryID] = spent[txn.CategoryID].Add(txn.Amount)
	}

	statuses := make([]dto.CategoryBudgetStatus, 0, len(categories))
	for _, cat := range categories {
		if cat.Type != domain.CategoryExpense {
			continue
		}
		catSpent, hasSpend := spent[cat.CategoryID]
		if cat.BudgetLimit == nil && !hasSpend {
			continue
		}
		if !hasSpend {
			catSpent = decimal.Zero
		}
		statuses = append(statuses, dto.CategoryBudgetStatus{
			CategoryID:  cat.CategoryID,
			Name:        cat.Name,
			Color:       cat.Color,
			Spent:       catSpent,
			BudgetLimit: cat.BudgetLimit,
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

func (s *reportingService) CalendarDays(ctx context.Context, userID string, params dto.PeriodFilterParams) (*dto.CalendarDaysResponse, error) {
	enriched, err := s.txnRepo.ListTransactionsWithRelations(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch transactions for calendar")
		return nil, err
	}

	days := reportcalc.MarkedDays(reportableTransactions(enriched), filterFromParams(params))
	return &dto.CalendarDaysResponse{Days: days}, nil
}

func (s *reportingService) MonthlyTrend(ctx context.Context, userID string, params dto.MonthlyTrendParams) (*dto.MonthlyTrendResponse, error) {
	enriched, err := s.txnRepo.ListTransactionsWithRelations(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch transactions for trend")
		return nil, err
	}

	monthsBack := params.MonthsBack
	if monthsBack <= 0 {
		monthsBack = 6
	}

	series := reportcalc.MonthlyCategoryTrend(enriched, monthsBack, time.Now().UTC())
	out := make([]dto.CategoryTrendSeries, len(series))
	for i, serie := range series {
		points := make([]dto.TrendPoint, len(serie.Points))
		for j, p := range serie.Points {
			points[j] = dto.TrendPoint{Month: p.Month, Amount: p.Amount}
		}
		out[i] = dto.CategoryTrendSeries{
			CategoryID: serie.CategoryID,
			Name:       serie.Name,
			Color:      serie.Color,
			Points:     points,
		}
	}
	return &dto.MonthlyTrendResponse{Series: out}, nil
}
