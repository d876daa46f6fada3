package domain

import "github.com/shopspring/decimal"

// CategoryType indicates whether a category buckets spending or income.
type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

// ValidCategoryType reports whether t is a known category type.
func ValidCategoryType(t CategoryType) bool {
	return t == CategoryExpense || t == CategoryIncome
}

// Category is a user-defined bucket for transactions, optionally carrying a
// monthly budget limit.
type Category struct {
	CategoryID  string           `json:"categoryID"` // Primary Key (UUID)
	UserID      string           `json:"userID"`
	Name        string           `json:"name"`
	Color       string           `json:"color"`
	Icon        string           `json:"icon"` // Symbolic name resolved by the client icon catalog
	Type        CategoryType     `json:"type"`
	BudgetLimit *decimal.Decimal `json:"budgetLimit"` // Nil when no budget is set
	AuditFields
}
