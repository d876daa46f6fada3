package repositories

import (
	"context"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction owned by userID.
	FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// FindTransactionsByGroupID retrieves both legs of a transfer group.
	FindTransactionsByGroupID(ctx context.Context, userID, transferGroupID string) ([]domain.Transaction, error)

	// ListTransactions retrieves the user's transactions in chronological
	// order with cursor pagination. A nil nextToken starts from the beginning.
	ListTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListTransactionsWithRelations retrieves all of the user's transactions
	// newest first, each enriched with category and account display data.
	ListTransactionsWithRelations(ctx context.Context, userID string) ([]domain.TransactionWithRelations, error)

	// SumExpensesByCategory sums completed expense amounts grouped by category.
	SumExpensesByCategory(ctx context.Context, userID string) (map[string]decimal.Decimal, error)
}

// TransactionWriter defines write operations executed inside an open database
// transaction, so that the row write and its balance effect commit together.
type TransactionWriter interface {
	// SaveTransactionInTx inserts a transaction row.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransactionInTx updates a transaction row scoped to its owner.
	// Returns apperrors.ErrNotFound when no owned row matches.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// DeleteTransactionsInTx removes the given rows scoped to their owner.
	DeleteTransactionsInTx(ctx context.Context, tx pgx.Tx, userID string, transactionIDs []string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends the facade with transaction control.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
