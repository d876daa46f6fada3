package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finly-app/finly_backend/internal/apperrors"
	"github.com/finly-app/finly_backend/internal/core/domain"
	portsrepo "github.com/finly-app/finly_backend/internal/core/ports/repositories"
	portssvc "github.com/finly-app/finly_backend/internal/core/ports/services"
	"github.com/finly-app/finly_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultCategoryColor = "#9ca3af"

// categoryService implements the CategorySvcFacade interface.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	cat, err := s.categoryRepo.FindCategoryByID(ctx, userID, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category",
				slog.String("category_id", categoryID))
		}
		return nil, err
	}
	return cat, nil
}

func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func validateBudgetLimit(limit *decimal.Decimal) error {
	if limit != nil && limit.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: budget limit must be positive", apperrors.ErrValidation)
	}
	return nil
}

func (s *categoryService) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if !domain.ValidCategoryType(req.Type) {
		return nil, fmt.Errorf("%w: invalid category type: %s", apperrors.ErrValidation, req.Type)
	}
	if err := validateBudgetLimit(req.BudgetLimit); err != nil {
		return nil, err
	}
	if req.BudgetLimit != nil && req.Type != domain.CategoryExpense {
		return nil, fmt.Errorf("%w: budget limits apply to expense categories only", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	cat := domain.Category{
		CategoryID:  uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Color:       req.Color,
		Icon:        req.Icon,
		Type:        req.Type,
		BudgetLimit: req.BudgetLimit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if cat.Color == "" {
		cat.Color = defaultCategoryColor
	}

	if err := s.categoryRepo.SaveCategory(ctx, cat); err != nil {
		s.LogError(ctx, err, "Failed to save category",
			slog.String("category_id", cat.CategoryID))
		return nil, err
	}

	s.LogInfo(ctx, "Category created",
		slog.String("category_id", cat.CategoryID),
		slog.String("type", string(cat.Type)))
	return &cat, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	existing, err := s.categoryRepo.FindCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Color != nil {
		updated.Color = *req.Color
	}
	if req.Icon != nil {
		updated.Icon = *req.Icon
	}
	if req.BudgetLimit != nil {
		// A zero budget limit in the patch clears the budget.
		if req.BudgetLimit.IsZero() {
			updated.BudgetLimit = nil
		} else {
			if err := validateBudgetLimit(req.BudgetLimit); err != nil {
				return nil, err
			}
			if updated.Type != domain.CategoryExpense {
				return nil, fmt.Errorf("%w: budget limits apply to expense categories only", apperrors.ErrValidation)
			}
			updated.BudgetLimit = req.BudgetLimit
		}
	}
	updated.LastUpdatedAt = time.Now().UTC()

	if err := s.categoryRepo.UpdateCategory(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update category",
			slog.String("category_id", categoryID))
		return nil, err
	}

	s.LogInfo(ctx, "Category updated", slog.String("category_id", categoryID))
	return &updated, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if err := s.categoryRepo.DeleteCategory(ctx, userID, categoryID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to delete category",
				slog.String("category_id", categoryID))
		}
		return err
	}
	s.LogInfo(ctx, "Category deleted", slog.String("category_id", categoryID))
	return nil
}
