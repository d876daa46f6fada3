package dto

import (
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=cash bank_account credit_card debit_card digital_wallet"`
	Balance        *decimal.Decimal   `json:"balance"`      // Optional opening balance, defaults to 0
	CurrencyCode   string             `json:"currencyCode"` // Optional, defaults to USD
	IsDefault      bool               `json:"isDefault"`
	Color          string             `json:"color"` // Optional, server picks a default
	Icon           string             `json:"icon"`
	BankName       string             `json:"bankName"`
	LastFourDigits string             `json:"lastFourDigits" binding:"omitempty,len=4,numeric"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish "not provided" from zero-value updates.
type UpdateAccountRequest struct {
	Name           *string             `json:"name"`
	AccountType    *domain.AccountType `json:"accountType" binding:"omitempty,oneof=cash bank_account credit_card debit_card digital_wallet"`
	CurrencyCode   *string             `json:"currencyCode"`
	IsDefault      *bool               `json:"isDefault"`
	Color          *string             `json:"color"`
	Icon           *string             `json:"icon"`
	BankName       *string             `json:"bankName"`
	LastFourDigits *string             `json:"lastFourDigits" binding:"omitempty,len=4,numeric"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	Balance        decimal.Decimal    `json:"balance"`
	CurrencyCode   string             `json:"currencyCode"`
	IsDefault      bool               `json:"isDefault"`
	IsActive       bool               `json:"isActive"`
	Color          string             `json:"color"`
	Icon           string             `json:"icon,omitempty"`
	BankName       string             `json:"bankName,omitempty"`
	LastFourDigits string             `json:"lastFourDigits,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		Balance:        acc.Balance,
		CurrencyCode:   acc.CurrencyCode,
		IsDefault:      acc.IsDefault,
		IsActive:       acc.IsActive,
		Color:          acc.Color,
		Icon:           acc.Icon,
		BankName:       acc.BankName,
		LastFourDigits: acc.LastFourDigits,
		CreatedAt:      acc.CreatedAt,
		LastUpdatedAt:  acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain accounts.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// TotalBalanceResponse is returned by the total-balance endpoint.
type TotalBalanceResponse struct {
	TotalBalance decimal.Decimal `json:"totalBalance"`
}
