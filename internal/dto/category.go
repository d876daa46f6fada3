package dto

import (
	"time"

	"github.com/finly-app/finly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name        string              `json:"name" binding:"required"`
	Color       string              `json:"color"`
	Icon        string              `json:"icon"`
	Type        domain.CategoryType `json:"type" binding:"required,oneof=expense income"`
	BudgetLimit *decimal.Decimal    `json:"budgetLimit"`
}

// UpdateCategoryRequest defines the fields that may be edited on a category.
type UpdateCategoryRequest struct {
	Name        *string          `json:"name"`
	Color       *string          `json:"color"`
	Icon        *string          `json:"icon"`
	BudgetLimit *decimal.Decimal `json:"budgetLimit"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID    string              `json:"categoryID"`
	Name          string              `json:"name"`
	Color         string              `json:"color"`
	Icon          string              `json:"icon,omitempty"`
	Type          domain.CategoryType `json:"type"`
	BudgetLimit   *decimal.Decimal    `json:"budgetLimit,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToCategoryResponse converts a domain.Category to its response DTO.
func ToCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:    cat.CategoryID,
		Name:          cat.Name,
		Color:         cat.Color,
		Icon:          cat.Icon,
		Type:          cat.Type,
		BudgetLimit:   cat.BudgetLimit,
		CreatedAt:     cat.CreatedAt,
		LastUpdatedAt: cat.LastUpdatedAt,
	}
}

// ToListCategoryResponse converts a slice of domain categories.
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return res
}
