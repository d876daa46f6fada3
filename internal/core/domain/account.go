package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType identifies the kind of balance-holding account a user owns.
type AccountType string

const (
	Cash          AccountType = "cash"
	BankAccount   AccountType = "bank_account"
	CreditCard    AccountType = "credit_card"
	DebitCard     AccountType = "debit_card"
	DigitalWallet AccountType = "digital_wallet"
)

// Account represents a user-owned balance-holding entity within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID      string          `json:"accountID"`      // Primary Key (UUID)
	UserID         string          `json:"userID"`         // Owning user; every query is scoped by it
	Name           string          `json:"name"`           // User-defined name
	AccountType    AccountType     `json:"accountType"`    // cash, bank_account, etc.
	Balance        decimal.Decimal `json:"balance"`        // Persisted signed balance
	CurrencyCode   string          `json:"currencyCode"`   // ISO 4217 code
	IsDefault      bool            `json:"isDefault"`      // At most one active default per user
	IsActive       bool            `json:"isActive"`       // Soft-delete flag; history is preserved
	Color          string          `json:"color"`          // Display color (hex)
	Icon           string          `json:"icon"`           // Nullable symbolic icon name
	BankName       string          `json:"bankName"`       // Nullable
	LastFourDigits string          `json:"lastFourDigits"` // Nullable, card accounts only
	AuditFields                    // Embed CreatedAt, LastUpdatedAt, etc.
}

// ValidAccountType reports whether t is one of the supported account kinds.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Cash, BankAccount, CreditCard, DebitCard, DigitalWallet:
		return true
	}
	return false
}
