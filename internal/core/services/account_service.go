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

const (
	defaultCurrencyCode = "USD"
	defaultAccountColor = "#6366f1"
)

// accountService implements the AccountSvcFacade interface.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryWithTx) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if !domain.ValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = defaultCurrencyCode
	}
	color := req.Color
	if color == "" {
		color = defaultAccountColor
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         userID,
		Name:           req.Name,
		AccountType:    req.AccountType,
		Balance:        balance,
		CurrencyCode:   currency,
		IsDefault:      req.IsDefault,
		IsActive:       true,
		Color:          color,
		Icon:           req.Icon,
		BankName:       req.BankName,
		LastFourDigits: req.LastFourDigits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetDefaultAccount(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindDefaultAccount(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find default account")
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListActiveAccounts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	total, err := s.accountRepo.SumActiveBalances(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account balances")
		return decimal.Zero, err
	}
	return total, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	// Demoting the default account directly is not allowed: promote another
	// account instead, which clears this one atomically.
	if req.IsDefault != nil && !*req.IsDefault && account.IsDefault {
		return nil, fmt.Errorf("%w: set another account as default instead of unsetting this one", apperrors.ErrValidation)
	}

	// The default account must stay visible to FindDefaultAccount, which only
	// considers active rows.
	if req.IsDefault != nil && *req.IsDefault && !account.IsActive {
		return nil, fmt.Errorf("%w: an inactive account cannot be the default", apperrors.ErrValidation)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountType != nil {
		if !domain.ValidAccountType(*req.AccountType) {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		account.AccountType = *req.AccountType
	}
	if req.CurrencyCode != nil {
		account.CurrencyCode = *req.CurrencyCode
	}
	if req.IsDefault != nil {
		account.IsDefault = *req.IsDefault
	}
	if req.Color != nil {
		account.Color = *req.Color
	}
	if req.Icon != nil {
		account.Icon = *req.Icon
	}
	if req.BankName != nil {
		account.BankName = *req.BankName
	}
	if req.LastFourDigits != nil {
		account.LastFourDigits = *req.LastFourDigits
	}
	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if account.IsDefault {
		return fmt.Errorf("%w: the default account cannot be deactivated", apperrors.ErrValidation)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, userID, accountID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if account.IsDefault {
		return fmt.Errorf("%w: the default account cannot be deleted", apperrors.ErrValidation)
	}

	if err := s.accountRepo.DeleteAccount(ctx, userID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
