package repositories

import (
	"context"

	"github.com/finly-app/finly_backend/internal/core/domain"
)

// CategoryReader defines read operations for category data.
type CategoryReader interface {
	// FindCategoryByID retrieves a category owned by userID.
	FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error)

	// ListCategories retrieves the user's categories ordered by name.
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

// CategoryWriter defines write operations for category data.
type CategoryWriter interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.Category) error

	// UpdateCategory updates an existing category scoped to its owner.
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeleteCategory removes a category. Fails with apperrors.ErrValidation
	// while transactions still reference it.
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// CategoryRepositoryFacade combines the category repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
