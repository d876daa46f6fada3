package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finly-app/finly_backend/internal/apperrors"
	"github.com/finly-app/finly_backend/internal/core/domain"
	portsrepo "github.com/finly-app/finly_backend/internal/core/ports/repositories"
	"github.com/finly-app/finly_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const categoryColumns = `category_id, user_id, name, color, icon, type, budget_limit, created_at, updated_at`

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func toModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		UserID:      d.UserID,
		Name:        d.Name,
		Color:       d.Color,
		Icon:        d.Icon,
		Type:        models.CategoryType(d.Type),
		BudgetLimit: d.BudgetLimit,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		UserID:      m.UserID,
		Name:        m.Name,
		Color:       m.Color,
		Icon:        m.Icon,
		Type:        domain.CategoryType(m.Type),
		BudgetLimit: m.BudgetLimit,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var m models.Category
	var icon sql.NullString
	var budgetLimit *decimal.Decimal
	err := row.Scan(
		&m.CategoryID,
		&m.UserID,
		&m.Name,
		&m.Color,
		&icon,
		&m.Type,
		&budgetLimit,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return models.Category{}, err
	}
	m.Icon = fromNullString(icon)
	m.BudgetLimit = budgetLimit
	return m, nil
}

// SaveCategory persists a new category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := toModelCategory(category)

	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CategoryID,
		m.UserID,
		m.Name,
		m.Color,
		nullString(m.Icon),
		m.Type,
		m.BudgetLimit,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: category %q", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save category %s: %w", m.CategoryID, err)
	}
	return nil
}

// FindCategoryByID retrieves a category scoped to its owner.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE category_id = $1 AND user_id = $2;
	`
	m, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	d := toDomainCategory(m)
	return &d, nil
}

// ListCategories retrieves the user's categories ordered by name.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for user %s: %w", userID, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, toDomainCategory(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", rows.Err())
	}
	return categories, nil
}

// UpdateCategory updates an existing category scoped to its owner.
func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := toModelCategory(category)

	query := `
		UPDATE categories
		SET name = $3, color = $4, icon = $5, budget_limit = $6, updated_at = $7
		WHERE category_id = $1 AND user_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CategoryID,
		m.UserID,
		m.Name,
		m.Color,
		nullString(m.Icon),
		m.BudgetLimit,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update category %s: %w", m.CategoryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. The restrict FK from transactions blocks
// deletion while history still references it.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	query := `DELETE FROM categories WHERE category_id = $1 AND user_id = $2;`
	cmdTag, err := r.Pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: category %s still has transactions", apperrors.ErrValidation, categoryID)
		}
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
