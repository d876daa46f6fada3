package models

import "github.com/shopspring/decimal"

// CategoryType mirrors domain.CategoryType at the storage layer.
type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

// Category is the storage representation of a category row.
type Category struct {
	CategoryID  string           `db:"category_id"`
	UserID      string           `db:"user_id"`
	Name        string           `db:"name"`
	Color       string           `db:"color"`
	Icon        string           `db:"icon"`
	Type        CategoryType     `db:"type"`
	BudgetLimit *decimal.Decimal `db:"budget_limit"`
	AuditFields
}
