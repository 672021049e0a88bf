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

// TransactionRepository provides data access methods for the append-only transactions log.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionColumns = `
	transaction_id, user_id, account_id, investment_id, asset_id, transaction_type,
	amount, quantity, unit_price_at_transaction, description, transaction_date`

func scanTransaction(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var t model.Transaction
	var accountID, investmentID, assetID sql.NullString
	var quantity, unitPrice decimal.NullDecimal
	var date string

	err := row.Scan(
		&t.ID, &t.UserID, &accountID, &investmentID, &assetID, &t.Type,
		&t.Amount, &quantity, &unitPrice, &t.Description, &date,
	)
	if err != nil {
		return model.Transaction{}, err
	}

	t.AccountID = accountID.String
	t.InvestmentID = investmentID.String
	t.AssetID = assetID.String
	if quantity.Valid {
		t.Quantity = &quantity.Decimal
	}
	if unitPrice.Valid {
		t.UnitPriceAtTransaction = &unitPrice.Decimal
	}
	if t.Date, err = ParseTime(date); err != nil {
		return model.Transaction{}, err
	}

	return t, nil
}

// GetTransactions retrieves transactions, newest first.
// An empty ownerScope returns the transactions of every user.
func (r *TransactionRepository) GetTransactions(ctx context.Context, ownerScope string) ([]model.Transaction, error) {
	query, args := scopeFilter(`SELECT `+transactionColumns+` FROM transactions WHERE 1=1`, "user_id", ownerScope, nil)
	query += " ORDER BY transaction_date DESC, transaction_id"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Wrap("failed to query transactions", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a transaction by ID. Returns ErrTransactionNotFound if absent.
func (r *TransactionRepository) GetTransaction(ctx context.Context, transactionID string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = ?`

	t, err := scanTransaction(r.getQuerier().QueryRowContext(ctx, query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, database.Wrap("failed to query transaction", err)
	}
	return t, nil
}

// InsertTransaction appends a log entry.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t model.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.UserID,
		nullString(t.AccountID),
		nullString(t.InvestmentID),
		nullString(t.AssetID),
		t.Type,
		t.Amount,
		nullDecimal(t.Quantity),
		nullDecimal(t.UnitPriceAtTransaction),
		t.Description,
		formatTimestamp(t.Date),
	)
	if err != nil {
		return database.Wrap("failed to insert transaction", err)
	}
	return nil
}

// DeleteTransaction removes a log entry. Balances and holdings are not touched.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = ?`, transactionID)
	if err != nil {
		return database.Wrap("failed to delete transaction", err)
	}
	return affected("failed to delete transaction", result, apperrors.ErrTransactionNotFound)
}

// DeleteUserTransactions removes every transaction of a user and returns how many were deleted.
func (r *TransactionRepository) DeleteUserTransactions(ctx context.Context, userID string) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, database.Wrap("failed to delete user transactions", err)
	}
	return result.RowsAffected()
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
