package repositories

import (
	"context"
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data. Every operation is
// scoped to the owning user; an account belonging to someone else behaves as
// if it does not exist.
type AccountReader interface {
	// FindAccountByID retrieves a specific account owned by userID.
	FindAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// FindDefaultAccount retrieves the user's active default account, if any.
	FindDefaultAccount(ctx context.Context, userID string) (*domain.Account, error)

	// ListActiveAccounts retrieves the user's active accounts, default first
	// then by name ascending.
	ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// SumActiveBalances returns the total balance across the user's active accounts.
	SumActiveBalances(ctx context.Context, userID string) (decimal.Decimal, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. When the account is flagged as
	// default, the previous default is cleared in the same database transaction.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details, clearing any other
	// default in the same database transaction when the update sets the flag.
	// Returns apperrors.ErrNotFound when no row owned by the user matches.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account inactive.
	DeactivateAccount(ctx context.Context, userID, accountID string, now time.Time) error

	// DeleteAccount hard-removes an account row. Transactions referencing it
	// keep their history with a NULL account.
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// AccountTransactionSupport defines account operations usable inside an open
// database transaction, for the balance-affecting write paths.
type AccountTransactionSupport interface {
	// FindAccountsForUpdate selects the user's accounts by ID and locks the
	// rows. Fails with apperrors.ErrNotFound unless every id resolves.
	FindAccountsForUpdate(ctx context.Context, tx pgx.Tx, userID string, accountIDs []string) (map[string]domain.Account, error)

	// AdjustBalancesInTx applies signed balance deltas to accounts already
	// locked in tx.
	AdjustBalancesInTx(ctx context.Context, tx pgx.Tx, userID string, deltas map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends the facade with transaction control.
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
