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
	"github.com/finly-app/finly_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, user_id, amount, description, category_id, account_id, date, type, status, source, external_id, transfer_group_id, counterparty_account_id, created_at, updated_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:         d.TransactionID,
		UserID:                d.UserID,
		Amount:                d.Amount,
		Description:           d.Description,
		CategoryID:            d.CategoryID,
		AccountID:             d.AccountID,
		Date:                  d.Date,
		Type:                  models.TransactionType(d.Type),
		Status:                models.TransactionStatus(d.Status),
		Source:                d.Source,
		ExternalID:            d.ExternalID,
		TransferGroupID:       d.TransferGroupID,
		CounterpartyAccountID: d.CounterpartyAccountID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:         m.TransactionID,
		UserID:                m.UserID,
		Amount:                m.Amount,
		Description:           m.Description,
		CategoryID:            m.CategoryID,
		AccountID:             m.AccountID,
		Date:                  m.Date,
		Type:                  domain.TransactionType(m.Type),
		Status:                domain.TransactionStatus(m.Status),
		Source:                m.Source,
		ExternalID:            m.ExternalID,
		TransferGroupID:       m.TransferGroupID,
		CounterpartyAccountID: m.CounterpartyAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// scanTransaction scans one transaction row in transactionColumns order.
func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	var description, categoryID, accountID, externalID, groupID, counterpartyID sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.Amount,
		&description,
		&categoryID,
		&accountID,
		&m.Date,
		&m.Type,
		&m.Status,
		&m.Source,
		&externalID,
		&groupID,
		&counterpartyID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}
	m.Description = fromNullString(description)
	m.CategoryID = fromNullString(categoryID)
	m.AccountID = fromNullString(accountID)
	m.ExternalID = fromNullString(externalID)
	m.TransferGroupID = fromNullString(groupID)
	m.CounterpartyAccountID = fromNullString(counterpartyID)
	return m, nil
}

// FindTransactionByID retrieves a transaction scoped to its owner.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND user_id = $2;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	d := toDomainTransaction(m)
	return &d, nil
}

// FindTransactionsByGroupID retrieves both legs of a transfer group.
func (r *PgxTransactionRepository) FindTransactionsByGroupID(ctx context.Context, userID, transferGroupID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transfer_group_id = $1 AND user_id = $2
		ORDER BY type DESC; -- transfer_out first, then transfer_in
	`
	rows, err := r.Pool.Query(ctx, query, transferGroupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer group %s: %w", transferGroupID, err)
	}
	defer rows.Close()

	legs := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer leg: %w", err)
		}
		legs = append(legs, toDomainTransaction(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transfer legs: %w", rows.Err())
	}
	if len(legs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return legs, nil
}

// ListTransactions retrieves the user's transactions in chronological order
// with keyset pagination on (date, created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}

	if nextToken != nil && *nextToken != "" {
		afterDate, afterCreated, afterID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (date, created_at, transaction_id) > ($2, $3, $4)`
		args = append(args, afterDate, afterCreated, afterID)
	}

	query += fmt.Sprintf(` ORDER BY date ASC, created_at ASC, transaction_id ASC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // Fetch one extra to know whether more pages exist

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.Date, last.CreatedAt, last.TransactionID)
		token = &t
	}
	return txns, token, nil
}

// ListTransactionsWithRelations retrieves all of the user's transactions
// newest first, each enriched with category and account display data via a
// read-time join.
func (r *PgxTransactionRepository) ListTransactionsWithRelations(ctx context.Context, userID string) ([]domain.TransactionWithRelations, error) {
	query := `
		SELECT t.transaction_id, t.user_id, t.amount, t.description, t.category_id, t.account_id,
			t.date, t.type, t.status, t.source, t.external_id, t.transfer_group_id, t.counterparty_account_id,
			t.created_at, t.updated_at,
			c.category_id, c.name, c.color, c.icon,
			a.account_id, a.name, a.account_type, a.color, a.icon
		FROM transactions t
		LEFT JOIN categories c ON c.category_id = t.category_id AND c.user_id = t.user_id
		LEFT JOIN accounts a ON a.account_id = t.account_id AND a.user_id = t.user_id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enriched transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	result := []domain.TransactionWithRelations{}
	for rows.Next() {
		var m models.Transaction
		var description, categoryID, accountID, externalID, groupID, counterpartyID sql.NullString
		var catID, catName, catColor, catIcon sql.NullString
		var accID, accName, accType, accColor, accIcon sql.NullString

		err := rows.Scan(
			&m.TransactionID,
			&m.UserID,
			&m.Amount,
			&description,
			&categoryID,
			&accountID,
			&m.Date,
			&m.Type,
			&m.Status,
			&m.Source,
			&externalID,
			&groupID,
			&counterpartyID,
			&m.CreatedAt,
			&m.LastUpdatedAt,
			&catID, &catName, &catColor, &catIcon,
			&accID, &accName, &accType, &accColor, &accIcon,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enriched transaction row: %w", err)
		}
		m.Description = fromNullString(description)
		m.CategoryID = fromNullString(categoryID)
		m.AccountID = fromNullString(accountID)
		m.ExternalID = fromNullString(externalID)
		m.TransferGroupID = fromNullString(groupID)
		m.CounterpartyAccountID = fromNullString(counterpartyID)

		enriched := domain.TransactionWithRelations{Transaction: toDomainTransaction(m)}
		if catID.Valid {
			enriched.Category = &domain.CategoryRef{
				CategoryID: catID.String,
				Name:       catName.String,
				Color:      catColor.String,
				Icon:       fromNullString(catIcon),
			}
		}
		if accID.Valid {
			enriched.Account = &domain.AccountRef{
				AccountID:   accID.String,
				Name:        accName.String,
				AccountType: domain.AccountType(accType.String),
				Color:       accColor.String,
				Icon:        fromNullString(accIcon),
			}
		}
		result = append(result, enriched)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating enriched transaction rows: %w", rows.Err())
	}
	return result, nil
}

// SumExpensesByCategory sums completed expense amounts grouped by category.
// Uncategorized expenses are excluded, matching the dashboard's budget view.
func (r *PgxTransactionRepository) SumExpensesByCategory(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category_id, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND status = 'completed' AND category_id IS NOT NULL
		GROUP BY category_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category expense totals for user %s: %w", userID, err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var categoryID string
		var total decimal.Decimal
		if err := rows.Scan(&categoryID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category expense total: %w", err)
		}
		totals[categoryID] = total
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category expense totals: %w", rows.Err())
	}
	return totals, nil
}

// SaveTransactionInTx inserts a transaction row within an open transaction.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.Amount,
		nullString(m.Description),
		nullString(m.CategoryID),
		nullString(m.AccountID),
		m.Date,
		m.Type,
		m.Status,
		m.Source,
		nullString(m.ExternalID),
		nullString(m.TransferGroupID),
		nullString(m.CounterpartyAccountID),
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The per-user unique index on external_id makes feed imports idempotent.
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// UpdateTransactionInTx updates a transaction row scoped to its owner.
func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := toModelTransaction(txn)

	query := `
		UPDATE transactions
		SET amount = $3, description = $4, category_id = $5, account_id = $6,
			date = $7, type = $8, status = $9, updated_at = $10
		WHERE transaction_id = $1 AND user_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.Amount,
		nullString(m.Description),
		nullString(m.CategoryID),
		nullString(m.AccountID),
		m.Date,
		m.Type,
		m.Status,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransactionsInTx removes the given rows scoped to their owner.
func (r *PgxTransactionRepository) DeleteTransactionsInTx(ctx context.Context, tx pgx.Tx, userID string, transactionIDs []string) error {
	if len(transactionIDs) == 0 {
		return nil
	}
	query := `DELETE FROM transactions WHERE transaction_id = ANY($1) AND user_id = $2;`
	cmdTag, err := tx.Exec(ctx, query, transactionIDs, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if cmdTag.RowsAffected() != int64(len(transactionIDs)) {
		return fmt.Errorf("%w: not all transactions were deleted", apperrors.ErrNotFound)
	}
	return nil
}
