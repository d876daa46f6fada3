package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finly-app/finly_backend/internal/apperrors"
	"github.com/finly-app/finly_backend/internal/core/domain"
	portsrepo "github.com/finly-app/finly_backend/internal/core/ports/repositories"
	"github.com/finly-app/finly_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, user_id, name, account_type, balance, currency_code, is_default, is_active, color, icon, bank_name, last_four_digits, created_at, updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		UserID:         d.UserID,
		Name:           d.Name,
		AccountType:    models.AccountType(d.AccountType),
		Balance:        d.Balance,
		CurrencyCode:   d.CurrencyCode,
		IsDefault:      d.IsDefault,
		IsActive:       d.IsActive,
		Color:          d.Color,
		Icon:           d.Icon,
		BankName:       d.BankName,
		LastFourDigits: d.LastFourDigits,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		UserID:         m.UserID,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		Balance:        m.Balance,
		CurrencyCode:   m.CurrencyCode,
		IsDefault:      m.IsDefault,
		IsActive:       m.IsActive,
		Color:          m.Color,
		Icon:           m.Icon,
		BankName:       m.BankName,
		LastFourDigits: m.LastFourDigits,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// scanAccount scans one account row in accountColumns order.
func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	var icon, bankName, lastFour sql.NullString
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.AccountType,
		&m.Balance,
		&m.CurrencyCode,
		&m.IsDefault,
		&m.IsActive,
		&m.Color,
		&icon,
		&bankName,
		&lastFour,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return models.Account{}, err
	}
	m.Icon = fromNullString(icon)
	m.BankName = fromNullString(bankName)
	m.LastFourDigits = fromNullString(lastFour)
	return m, nil
}

// SaveAccount inserts a new account. When the account claims the default
// flag, the previous default is cleared in the same database transaction so
// the partial unique index on (user_id) never trips under normal operation.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if m.IsDefault {
		if err := clearDefaultFlag(ctx, tx, m.UserID, "", m.LastUpdatedAt); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.AccountType,
		m.Balance,
		m.CurrencyCode,
		m.IsDefault,
		m.IsActive,
		m.Color,
		nullString(m.Icon),
		nullString(m.BankName),
		nullString(m.LastFourDigits),
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}

	return r.Commit(ctx, tx)
}

// clearDefaultFlag demotes the user's current default account, optionally
// excluding one account id (the one about to become default).
func clearDefaultFlag(ctx context.Context, tx pgx.Tx, userID, excludeAccountID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_default = FALSE, updated_at = $2
		WHERE user_id = $1 AND is_default = TRUE;
	`
	args := []any{userID, now}
	if excludeAccountID != "" {
		query = `
			UPDATE accounts
			SET is_default = FALSE, updated_at = $2
			WHERE user_id = $1 AND is_default = TRUE AND account_id <> $3;
		`
		args = append(args, excludeAccountID)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear default flag for user %s: %w", userID, err)
	}
	return nil
}

// FindAccountByID retrieves an account scoped to its owner.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1 AND user_id = $2;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	d := toDomainAccount(m)
	return &d, nil
}

// FindDefaultAccount retrieves the user's active default account.
func (r *PgxAccountRepository) FindDefaultAccount(ctx context.Context, userID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND is_default = TRUE AND is_active = TRUE;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default account for user %s: %w", userID, err)
	}
	d := toDomainAccount(m)
	return &d, nil
}

// ListActiveAccounts retrieves the user's active accounts, default first then
// by name ascending.
func (r *PgxAccountRepository) ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_default DESC, name ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for user %s: %w", userID, err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for user %s: %w", userID, rows.Err())
	}
	return accounts, nil
}

// SumActiveBalances returns the total balance across the user's active accounts.
func (r *PgxAccountRepository) SumActiveBalances(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE user_id = $1 AND is_active = TRUE;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balances for user %s: %w", userID, err)
	}
	return total, nil
}

// UpdateAccount updates an existing account's details, clearing any other
// default in the same database transaction when the update sets the flag.
// Balance is deliberately not updatable here: it only moves through the
// transaction and transfer write paths.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if m.IsDefault {
		if err := clearDefaultFlag(ctx, tx, m.UserID, m.AccountID, m.LastUpdatedAt); err != nil {
			return err
		}
	}

	query := `
		UPDATE accounts
		SET name = $3, account_type = $4, currency_code = $5, is_default = $6,
			color = $7, icon = $8, bank_name = $9, last_four_digits = $10, updated_at = $11
		WHERE account_id = $1 AND user_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.AccountType,
		m.CurrencyCode,
		m.IsDefault,
		m.Color,
		nullString(m.Icon),
		nullString(m.BankName),
		nullString(m.LastFourDigits),
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Not owned or not present; callers cannot tell the difference and
		// should not be able to.
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// DeactivateAccount marks an account inactive. The default-account refusal is
// service-level policy; here a zero-row update means not found or already
// inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, userID, accountID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, updated_at = $3
		WHERE account_id = $1 AND user_id = $2 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, userID, now)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindAccountByID(ctx, userID, accountID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		// Exists but already inactive.
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
	}
	return nil
}

// DeleteAccount hard-removes an account row. The transactions FK is ON DELETE
// SET NULL, so history survives with a detached account.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, userID, accountID string) error {
	query := `DELETE FROM accounts WHERE account_id = $1 AND user_id = $2;`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsForUpdate selects the user's accounts by ID and locks the rows
// for update. Must be called within a transaction. Fails unless every
// requested id resolves to an account owned by the user.
func (r *PgxAccountRepository) FindAccountsForUpdate(ctx context.Context, tx pgx.Tx, userID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1) AND user_id = $2
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = toDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accountsMap) != len(uniqueStrings(accountIDs)) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts", apperrors.ErrNotFound)
	}

	return accountsMap, nil
}

// AdjustBalancesInTx applies signed deltas to accounts already locked in tx.
func (r *PgxAccountRepository) AdjustBalancesInTx(ctx context.Context, tx pgx.Tx, userID string, deltas map[string]decimal.Decimal, now time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $3, updated_at = $4
		WHERE account_id = $1 AND user_id = $2;
	`
	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(deltas))
	for accountID, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, userID, delta, now)
		accountIDs = append(accountIDs, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to adjust balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during balance adjustment", apperrors.ErrNotFound, accountIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance adjustment batch: %w", err)
	}
	return batchErr
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
