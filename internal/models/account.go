package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType at the storage layer.
type AccountType string

const (
	Cash          AccountType = "cash"
	BankAccount   AccountType = "bank_account"
	CreditCard    AccountType = "credit_card"
	DebitCard     AccountType = "debit_card"
	DigitalWallet AccountType = "digital_wallet"
)

// Account is the storage representation of a user account row.
// Icon, BankName and LastFourDigits are nullable columns; empty string maps to NULL.
type Account struct {
	AccountID      string          `db:"account_id"`
	UserID         string          `db:"user_id"`
	Name           string          `db:"name"`
	AccountType    AccountType     `db:"account_type"`
	Balance        decimal.Decimal `db:"balance"`
	CurrencyCode   string          `db:"currency_code"`
	IsDefault      bool            `db:"is_default"`
	IsActive       bool            `db:"is_active"`
	Color          string          `db:"color"`
	Icon           string          `db:"icon"`
	BankName       string          `db:"bank_name"`
	LastFourDigits string          `db:"last_four_digits"`
	AuditFields
}
