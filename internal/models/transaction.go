package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType at the storage layer.
type TransactionType string

const (
	Income      TransactionType = "income"
	Expense     TransactionType = "expense"
	TransferOut TransactionType = "transfer_out"
	TransferIn  TransactionType = "transfer_in"
)

// TransactionStatus mirrors domain.TransactionStatus at the storage layer.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCanceled  TransactionStatus = "canceled"
)

// Transaction is the storage representation of a transaction row.
// CategoryID, AccountID, ExternalID, TransferGroupID and CounterpartyAccountID
// are nullable columns; empty string maps to NULL.
type Transaction struct {
	TransactionID         string            `db:"transaction_id"`
	UserID                string            `db:"user_id"`
	Amount                decimal.Decimal   `db:"amount"`
	Description           string            `db:"description"`
	CategoryID            string            `db:"category_id"`
	AccountID             string            `db:"account_id"`
	Date                  time.Time         `db:"date"`
	Type                  TransactionType   `db:"type"`
	Status                TransactionStatus `db:"status"`
	Source                string            `db:"source"`
	ExternalID            string            `db:"external_id"`
	TransferGroupID       string            `db:"transfer_group_id"`
	CounterpartyAccountID string            `db:"counterparty_account_id"`
	AuditFields
}
