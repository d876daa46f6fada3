package dto

import (
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record an income or
// expense. Transfers have their own endpoint and request type.
type CreateTransactionRequest struct {
	Amount      decimal.Decimal           `json:"amount" binding:"required,gt=0"`
	Type        domain.TransactionType    `json:"type" binding:"required,oneof=income expense"`
	Description string                    `json:"description"`
	CategoryID  string                    `json:"categoryID"`
	AccountID   string                    `json:"accountID"`
	Date        *time.Time                `json:"date"`   // Defaults to now
	Status      *domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending completed canceled"` // Defaults to completed
}

// ImportTransactionRequest is the shape of an externally-sourced transaction
// delivered by the feed worker. ExternalID makes the import idempotent.
type ImportTransactionRequest struct {
	Amount      decimal.Decimal        `json:"amount" binding:"required,gt=0"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Description string                 `json:"description"`
	CategoryID  string                 `json:"categoryID"`
	AccountID   string                 `json:"accountID"`
	Date        *time.Time             `json:"date"`
	Source      string                 `json:"source" binding:"required"`
	ExternalID  string                 `json:"externalID" binding:"required"`
}

// UpdateTransactionRequest defines the fields that may be edited after the
// fact. Editing re-synchronizes any balance effect the transaction had.
type UpdateTransactionRequest struct {
	Amount      *decimal.Decimal          `json:"amount"`
	Type        *domain.TransactionType   `json:"type" binding:"omitempty,oneof=income expense"`
	Description *string                   `json:"description"`
	CategoryID  *string                   `json:"categoryID"`
	AccountID   *string                   `json:"accountID"`
	Date        *time.Time                `json:"date"`
	Status      *domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending completed canceled"`
}

// ListTransactionsParams defines query parameters for the paginated list.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID         string                   `json:"transactionID"`
	Amount                decimal.Decimal          `json:"amount"`
	Description           string                   `json:"description,omitempty"`
	CategoryID            string                   `json:"categoryID,omitempty"`
	AccountID             string                   `json:"accountID,omitempty"`
	Date                  time.Time                `json:"date"`
	Type                  domain.TransactionType   `json:"type"`
	Status                domain.TransactionStatus `json:"status"`
	Source                string                   `json:"source"`
	ExternalID            string                   `json:"externalID,omitempty"`
	TransferGroupID       string                   `json:"transferGroupID,omitempty"`
	CounterpartyAccountID string                   `json:"counterpartyAccountID,omitempty"`
	CreatedAt             time.Time                `json:"createdAt"`
}

// TransactionWithRelationsResponse embeds the joined category and account
// display data next to the transaction itself.
type TransactionWithRelationsResponse struct {
	TransactionResponse
	Category *domain.CategoryRef `json:"category,omitempty"`
	Account  *domain.AccountRef  `json:"account,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:         txn.TransactionID,
		Amount:                txn.Amount,
		Description:           txn.Description,
		CategoryID:            txn.CategoryID,
		AccountID:             txn.AccountID,
		Date:                  txn.Date,
		Type:                  txn.Type,
		Status:                txn.Status,
		Source:                txn.Source,
		ExternalID:            txn.ExternalID,
		TransferGroupID:       txn.TransferGroupID,
		CounterpartyAccountID: txn.CounterpartyAccountID,
		CreatedAt:             txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain transactions.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ToTransactionWithRelationsResponse converts an enriched transaction.
func ToTransactionWithRelationsResponse(txn *domain.TransactionWithRelations) TransactionWithRelationsResponse {
	return TransactionWithRelationsResponse{
		TransactionResponse: ToTransactionResponse(&txn.Transaction),
		Category:            txn.Category,
		Account:             txn.Account,
	}
}

// ListTransactionsResponse wraps the paginated transaction list.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// CategoryExpenseTotalsResponse maps category id to total completed expense.
type CategoryExpenseTotalsResponse struct {
	Totals map[string]decimal.Decimal `json:"totals"`
}
