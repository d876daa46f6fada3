package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finly-app/finly_backend/internal/apperrors"
	"github.com/finly-app/finly_backend/internal/core/domain"
	portsrepo "github.com/finly-app/finly_backend/internal/core/ports/repositories"
	portssvc "github.com/finly-app/finly_backend/internal/core/ports/services"
	"github.com/finly-app/finly_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrSameAccount         = errors.New("cannot transfer to the same account")
	ErrInactiveAccount     = errors.New("account is inactive")
	ErrTransferNotEditable = errors.New("transfer legs cannot be edited; delete the transfer and create a new one")
)

// transactionService implements the TransactionSvcFacade interface. Every
// balance-affecting write runs inside a single database transaction: the row
// change and the account adjustment commit together or not at all.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryWithTx
	accountRepo  portsrepo.AccountRepositoryFacade
	categoryRepo portsrepo.CategoryReader
}

// TransactionServiceOption is a functional option for the transaction service.
type TransactionServiceOption func(*transactionService)

// WithCategoryReader adds category validation on create/update.
func WithCategoryReader(repo portsrepo.CategoryReader) TransactionServiceOption {
	return func(s *transactionService) {
		s.categoryRepo = repo
	}
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryWithTx, accountRepo portsrepo.AccountRepositoryFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction",
				slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, userID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, nil, err
	}
	return txns, nextToken, nil
}

func (s *transactionService) ListTransactionsWithRelations(ctx context.Context, userID string) ([]domain.TransactionWithRelations, error) {
	txns, err := s.txnRepo.ListTransactionsWithRelations(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list enriched transactions")
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) CategoryExpenseTotals(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	totals, err := s.txnRepo.SumExpensesByCategory(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum expenses by category")
		return nil, err
	}
	return totals, nil
}

// validateCategory checks the referenced category exists and is owned by the
// user, when a category repo was provided.
func (s *transactionService) validateCategory(ctx context.Context, userID, categoryID string) error {
	if categoryID == "" || s.categoryRepo == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindCategoryByID(ctx, userID, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %s not found", apperrors.ErrValidation, categoryID)
		}
		return err
	}
	return nil
}

// validateAccount checks the referenced account exists and is owned by the
// user. Pending rows need this too; the FOR UPDATE lock only ever sees
// balance-affecting writes.
func (s *transactionService) validateAccount(ctx context.Context, userID, accountID string) error {
	if accountID == "" {
		return nil
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, userID, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, accountID)
		}
		return err
	}
	return nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositiveAmount)
	}
	if req.Type != domain.Income && req.Type != domain.Expense {
		return nil, fmt.Errorf("%w: transaction type must be income or expense", apperrors.ErrValidation)
	}
	if err := s.validateCategory(ctx, userID, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.validateAccount(ctx, userID, req.AccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}
	status := domain.StatusCompleted
	if req.Status != nil {
		status = *req.Status
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		Date:          date,
		Type:          req.Type,
		Status:        status,
		Source:        domain.SourceManual,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.persistWithBalanceEffect(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to create transaction",
			slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("status", string(txn.Status)))
	return &txn, nil
}

func (s *transactionService) ImportTransaction(ctx context.Context, userID string, req dto.ImportTransactionRequest) (*domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositiveAmount)
	}
	if req.Type != domain.Income && req.Type != domain.Expense {
		return nil, fmt.Errorf("%w: transaction type must be income or expense", apperrors.ErrValidation)
	}
	if req.ExternalID == "" || req.Source == "" || req.Source == domain.SourceManual {
		return nil, fmt.Errorf("%w: imported transactions need a feed source and external id", apperrors.ErrValidation)
	}
	if err := s.validateCategory(ctx, userID, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.validateAccount(ctx, userID, req.AccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		Date:          date,
		Type:          req.Type,
		Status:        domain.StatusCompleted,
		Source:        req.Source,
		ExternalID:    req.ExternalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.persistWithBalanceEffect(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "Duplicate external transaction skipped",
				slog.String("external_id", req.ExternalID),
				slog.String("source", req.Source))
		} else {
			s.LogError(ctx, err, "Failed to import transaction",
				slog.String("external_id", req.ExternalID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction imported",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("source", txn.Source))
	return &txn, nil
}

// persistWithBalanceEffect inserts a transaction row and applies its balance
// effect inside one database transaction.
func (s *transactionService) persistWithBalanceEffect(ctx context.Context, txn domain.Transaction) error {
	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	delta := txn.BalanceDelta()
	if !delta.IsZero() {
		locked, err := s.accountRepo.FindAccountsForUpdate(ctx, tx, txn.UserID, []string{txn.AccountID})
		if err != nil {
			return err
		}
		if !locked[txn.AccountID].IsActive {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrInactiveAccount)
		}
	}

	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	if !delta.IsZero() {
		deltas := map[string]decimal.Decimal{txn.AccountID: delta}
		if err := s.accountRepo.AdjustBalancesInTx(ctx, tx, txn.UserID, deltas, txn.LastUpdatedAt); err != nil {
			return err
		}
	}

	return s.txnRepo.Commit(ctx, tx)
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	existing, err := s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if existing.Type.IsTransfer() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrTransferNotEditable)
	}

	updated := *existing
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositiveAmount)
		}
		updated.Amount = *req.Amount
	}
	if req.Type != nil {
		if *req.Type != domain.Income && *req.Type != domain.Expense {
			return nil, fmt.Errorf("%w: transaction type must be income or expense", apperrors.ErrValidation)
		}
		updated.Type = *req.Type
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.CategoryID != nil {
		updated.CategoryID = *req.CategoryID
	}
	if req.AccountID != nil {
		updated.AccountID = *req.AccountID
	}
	if req.Date != nil {
		updated.Date = req.Date.UTC()
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	updated.LastUpdatedAt = time.Now().UTC()

	if err := s.validateCategory(ctx, userID, updated.CategoryID); err != nil {
		return nil, err
	}
	if req.AccountID != nil {
		if err := s.validateAccount(ctx, userID, updated.AccountID); err != nil {
			return nil, err
		}
	}

	// Reverse the effect the old version had and apply the new one, all in
	// the same database transaction, so balances track edits exactly.
	oldDelta := existing.BalanceDelta()
	newDelta := updated.BalanceDelta()

	deltas := make(map[string]decimal.Decimal)
	addDelta := func(accountID string, d decimal.Decimal) {
		if accountID == "" || d.IsZero() {
			return
		}
		deltas[accountID] = deltas[accountID].Add(d)
	}
	addDelta(existing.AccountID, oldDelta.Neg())
	addDelta(updated.AccountID, newDelta)

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if len(deltas) > 0 {
		accountIDs := make([]string, 0, len(deltas))
		for id := range deltas {
			accountIDs = append(accountIDs, id)
		}
		locked, err := s.accountRepo.FindAccountsForUpdate(ctx, tx, userID, accountIDs)
		if err != nil {
			return nil, err
		}
		// Only the account newly receiving an effect has to be active;
		// reversing off a deactivated account must keep working.
		if !newDelta.IsZero() && !locked[updated.AccountID].IsActive {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrInactiveAccount)
		}
	}

	if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, updated); err != nil {
		return nil, err
	}
	if err := s.accountRepo.AdjustBalancesInTx(ctx, tx, userID, deltas, updated.LastUpdatedAt); err != nil {
		return nil, err
	}
	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	existing, err := s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	// Deleting either leg of a transfer removes the whole group; a transfer
	// with one leg reversed would silently mint or destroy money.
	toDelete := []domain.Transaction{*existing}
	if existing.Type.IsTransfer() {
		legs, err := s.txnRepo.FindTransactionsByGroupID(ctx, userID, existing.TransferGroupID)
		if err != nil {
			return err
		}
		toDelete = legs
	}

	now := time.Now().UTC()
	deltas := make(map[string]decimal.Decimal)
	ids := make([]string, 0, len(toDelete))
	for _, txn := range toDelete {
		ids = append(ids, txn.TransactionID)
		if d := txn.BalanceDelta(); !d.IsZero() {
			deltas[txn.AccountID] = deltas[txn.AccountID].Add(d.Neg())
		}
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if len(deltas) > 0 {
		accountIDs := make([]string, 0, len(deltas))
		for id := range deltas {
			accountIDs = append(accountIDs, id)
		}
		if _, err := s.accountRepo.FindAccountsForUpdate(ctx, tx, userID, accountIDs); err != nil {
			return err
		}
	}

	if err := s.txnRepo.DeleteTransactionsInTx(ctx, tx, userID, ids); err != nil {
		return err
	}
	if err := s.accountRepo.AdjustBalancesInTx(ctx, tx, userID, deltas, now); err != nil {
		return err
	}
	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.Int("rows_removed", len(ids)))
	return nil
}

func (s *transactionService) CreateTransfer(ctx context.Context, userID string, req dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	// Precondition order matters: amount first, then same-account, then
	// account resolution. The first failure wins and nothing is written.
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositiveAmount)
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrSameAccount)
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	groupID := uuid.NewString()
	audit := domain.AuditFields{CreatedAt: now, LastUpdatedAt: now}
	outLeg := domain.Transaction{
		TransactionID:         uuid.NewString(),
		UserID:                userID,
		Amount:                req.Amount,
		Description:           req.Description,
		AccountID:             req.FromAccountID,
		Date:                  date,
		Type:                  domain.TransferOut,
		Status:                domain.StatusCompleted,
		Source:                domain.SourceManual,
		TransferGroupID:       groupID,
		CounterpartyAccountID: req.ToAccountID,
		AuditFields:           audit,
	}
	inLeg := domain.Transaction{
		TransactionID:         uuid.NewString(),
		UserID:                userID,
		Amount:                req.Amount,
		Description:           req.Description,
		AccountID:             req.ToAccountID,
		Date:                  date,
		Type:                  domain.TransferIn,
		Status:                domain.StatusCompleted,
		Source:                domain.SourceManual,
		TransferGroupID:       groupID,
		CounterpartyAccountID: req.FromAccountID,
		AuditFields:           audit,
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	locked, err := s.accountRepo.FindAccountsForUpdate(ctx, tx, userID, []string{req.FromAccountID, req.ToAccountID})
	if err != nil {
		return nil, err
	}
	for _, accountID := range []string{req.FromAccountID, req.ToAccountID} {
		if !locked[accountID].IsActive {
			return nil, fmt.Errorf("%w: %v (%s)", apperrors.ErrValidation, ErrInactiveAccount, accountID)
		}
	}

	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, outLeg); err != nil {
		return nil, err
	}
	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, inLeg); err != nil {
		return nil, err
	}

	deltas := map[string]decimal.Decimal{
		req.FromAccountID: req.Amount.Neg(),
		req.ToAccountID:   req.Amount,
	}
	if err := s.accountRepo.AdjustBalancesInTx(ctx, tx, userID, deltas, now); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transfer created",
		slog.String("transfer_group_id", groupID),
		slog.String("from_account_id", req.FromAccountID),
		slog.String("to_account_id", req.ToAccountID))

	resp := dto.ToTransferResponse(groupID, []domain.Transaction{outLeg, inLeg})
	return &resp, nil
}
