package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// AccountRepository provides data access methods for the accounts table.
// Balance writes are guarded by the version column.
type AccountRepository struct {
	db   *sql.DB
	tx   *sql.Tx
	lock string
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, lock: database.RowLockClause(db)}
}

// WithTx returns a new AccountRepository scoped to the provided transaction.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{
		db:   r.db,
		tx:   tx,
		lock: r.lock,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *AccountRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const accountColumns = `account_id, user_id, account_name, account_type, current_balance, currency, version, created_at`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	var createdAt string

	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.CurrentBalance, &a.Currency, &a.Version, &createdAt)
	if err != nil {
		return model.Account{}, err
	}

	if a.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// GetAccounts retrieves accounts ordered by owner and name.
// An empty ownerScope returns the accounts of every user.
func (r *AccountRepository) GetAccounts(ctx context.Context, ownerScope string) ([]model.Account, error) {
	query, args := scopeFilter(`SELECT `+accountColumns+` FROM accounts WHERE 1=1`, "user_id", ownerScope, nil)
	query += " ORDER BY user_id, account_name"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Wrap("failed to query accounts", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// GetAccount retrieves an account by ID. Returns ErrAccountNotFound if absent.
func (r *AccountRepository) GetAccount(ctx context.Context, accountID string) (model.Account, error) {
	return r.getAccount(ctx, accountID, "")
}

// GetAccountForUpdate reads an account and, where the driver supports it,
// locks the row until the surrounding transaction ends.
func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, accountID string) (model.Account, error) {
	return r.getAccount(ctx, accountID, r.lock)
}

func (r *AccountRepository) getAccount(ctx context.Context, accountID, suffix string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ?` + suffix

	a, err := scanAccount(r.getQuerier().QueryRowContext(ctx, query, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, database.Wrap("failed to query account", err)
	}
	return a, nil
}

// InsertAccount stores a new account with version 0.
func (r *AccountRepository) InsertAccount(ctx context.Context, a model.Account) error {
	query := `
		INSERT INTO accounts (account_id, user_id, account_name, account_type, current_balance, currency, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.Name,
		a.Type,
		a.CurrentBalance,
		a.Currency,
		formatTimestamp(a.CreatedAt),
	)
	if err != nil {
		return database.Wrap("failed to insert account", err)
	}

	return nil
}

// UpdateAccountBalance sets a new balance if the row still has expectedVersion.
// A stale version yields a conflict StoreError.
func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET current_balance = ?, version = version + 1
		WHERE account_id = ? AND version = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query, balance, accountID, expectedVersion)
	if err != nil {
		return database.Wrap("failed to update account balance", err)
	}
	return affected("failed to update account balance", result, conflict("failed to update account balance"))
}

// UpdateAccountName renames an account.
func (r *AccountRepository) UpdateAccountName(ctx context.Context, accountID, name string) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE accounts SET account_name = ? WHERE account_id = ?`, name, accountID)
	if err != nil {
		return database.Wrap("failed to update account name", err)
	}
	return affected("failed to update account name", result, apperrors.ErrAccountNotFound)
}

// DeleteAccount removes an account. Accounts referenced by transactions fail with a constraint error.
func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM accounts WHERE account_id = ?`, accountID)
	if err != nil {
		return database.Wrap("failed to delete account", err)
	}
	return affected("failed to delete account", result, apperrors.ErrAccountNotFound)
}

// DeleteUserAccounts removes every account of a user and returns how many were deleted.
func (r *AccountRepository) DeleteUserAccounts(ctx context.Context, userID string) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM accounts WHERE user_id = ?`, userID)
	if err != nil {
		return 0, database.Wrap("failed to delete user accounts", err)
	}
	return result.RowsAffected()
}
