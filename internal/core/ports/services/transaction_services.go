package services

import (
	"context"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/finly-app/finly_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionReaderSvc defines read operations for transaction data.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction owned by the user.
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions chronologically with cursor
	// pagination.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)

	// ListTransactionsWithRelations retrieves all transactions newest first,
	// enriched with category and account display data.
	ListTransactionsWithRelations(ctx context.Context, userID string) ([]domain.TransactionWithRelations, error)

	// CategoryExpenseTotals sums completed expenses per category.
	CategoryExpenseTotals(ctx context.Context, userID string) (map[string]decimal.Decimal, error)
}

// TransactionWriterSvc defines the balance-affecting write operations. Each
// one commits the row change and its balance effect in a single database
// transaction; a failure anywhere rolls everything back.
type TransactionWriterSvc interface {
	// CreateTransaction records an income or expense, adjusting the target
	// account's balance when the transaction is completed.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// ImportTransaction records an externally-sourced transaction. A repeated
	// externalID is rejected with apperrors.ErrDuplicate.
	ImportTransaction(ctx context.Context, userID string, req dto.ImportTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction edits a transaction, reversing its prior balance
	// effect and applying the new one. Transfer legs are not editable.
	UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and reverses its balance
	// effect. Deleting a transfer leg removes the whole group.
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// TransferSvc defines the composite move-money-between-accounts operation.
type TransferSvc interface {
	// CreateTransfer inserts both legs and adjusts both balances atomically.
	// Total balance across the user's accounts is unchanged by construction.
	CreateTransfer(ctx context.Context, userID string, req dto.CreateTransferRequest) (*dto.TransferResponse, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransferSvc
}
