package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction row. Transfers between two of a
// user's own accounts are stored as two linked legs, one per account, sharing
// a transfer group identifier.
type TransactionType string

const (
	Income      TransactionType = "income"
	Expense     TransactionType = "expense"
	TransferOut TransactionType = "transfer_out" // Debit leg of a transfer
	TransferIn  TransactionType = "transfer_in"  // Credit leg of a transfer
)

// IsTransfer reports whether t is either leg of a transfer.
func (t TransactionType) IsTransfer() bool {
	return t == TransferOut || t == TransferIn
}

// TransactionStatus is the lifecycle state of a transaction. Balance effects
// apply only while a transaction is completed.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCanceled  TransactionStatus = "canceled"
)

// SourceManual tags transactions entered through the API by the user, as
// opposed to transactions imported from an external feed.
const SourceManual = "manual"

// Transaction represents a single income, expense, or transfer-leg event.
type Transaction struct {
	TransactionID         string            `json:"transactionID"` // Primary Key (UUID)
	UserID                string            `json:"userID"`
	Amount                decimal.Decimal   `json:"amount"` // Always positive; sign implied by type
	Description           string            `json:"description"`
	CategoryID            string            `json:"categoryID"` // Nullable FK -> categories
	AccountID             string            `json:"accountID"`  // Nullable FK -> accounts
	Date                  time.Time         `json:"date"`       // Economic date, user-editable
	Type                  TransactionType   `json:"type"`
	Status                TransactionStatus `json:"status"`
	Source                string            `json:"source"`               // "manual" or an external feed tag
	ExternalID            string            `json:"externalID"`           // Nullable; dedupe key for feed imports
	TransferGroupID       string            `json:"transferGroupID"`      // Nullable; shared by both legs of a transfer
	CounterpartyAccountID string            `json:"counterpartyAccountID"` // Nullable; the other account of a transfer
	AuditFields
}

// BalanceDelta returns the signed amount this transaction applies to its
// account's balance, or zero when it has no effect (no account, or not
// completed). Income and incoming transfer legs add; expenses and outgoing
// transfer legs subtract.
func (t Transaction) BalanceDelta() decimal.Decimal {
	if t.AccountID == "" || t.Status != StatusCompleted {
		return decimal.Zero
	}
	switch t.Type {
	case Income, TransferIn:
		return t.Amount
	case Expense, TransferOut:
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// TransactionWithRelations is a transaction enriched at read time with the
// display attributes of its category and account.
type TransactionWithRelations struct {
	Transaction
	Category *CategoryRef `json:"category,omitempty"`
	Account  *AccountRef  `json:"account,omitempty"`
}

// CategoryRef carries the display subset of a category joined onto a transaction.
type CategoryRef struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
}

// AccountRef carries the display subset of an account joined onto a transaction.
type AccountRef struct {
	AccountID   string      `json:"accountID"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Color       string      `json:"color"`
	Icon        string      `json:"icon"`
}
