package services

import (
	"context"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/finly-app/finly_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data. The userID
// parameter is always explicit; there is no ambient current-user state.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account owned by the user.
	GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// GetDefaultAccount retrieves the user's active default account.
	GetDefaultAccount(ctx context.Context, userID string) (*domain.Account, error)

	// ListAccounts retrieves the user's active accounts, default first then by name.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// TotalBalance sums the balances of the user's active accounts.
	TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for account data.
type AccountWriterSvc interface {
	// CreateAccount persists a new account, atomically demoting any previous
	// default when the new account claims the flag.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account. The default account refuses.
	DeactivateAccount(ctx context.Context, userID, accountID string) error

	// DeleteAccount hard-removes an account. The default account refuses.
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
