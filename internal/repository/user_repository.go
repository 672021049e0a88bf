package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a new UserRepository scoped to the provided transaction.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *UserRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const userColumns = `user_id, username, email, password_hash, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var email sql.NullString
	var createdAt string

	if err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role, &createdAt); err != nil {
		return model.User{}, err
	}

	t, err := ParseTime(createdAt)
	if err != nil {
		return model.User{}, err
	}
	u.Email = email.String
	u.CreatedAt = t
	return u, nil
}

// GetUsers retrieves all users ordered by username.
func (r *UserRepository) GetUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, database.Wrap("failed to query users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetUser retrieves a user by ID. Returns ErrUserNotFound if absent.
func (r *UserRepository) GetUser(ctx context.Context, userID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`

	u, err := scanUser(r.getQuerier().QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, database.Wrap("failed to query user", err)
	}
	return u, nil
}

// GetUserByUsername retrieves a user by login name. Returns ErrUserNotFound if absent.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	u, err := scanUser(r.getQuerier().QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, database.Wrap("failed to query user", err)
	}
	return u, nil
}

// InsertUser stores a new user. Duplicate usernames or emails yield ErrDuplicateEntry.
func (r *UserRepository) InsertUser(ctx context.Context, u model.User) error {
	query := `
		INSERT INTO users (user_id, username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		u.ID,
		u.Username,
		nullString(u.Email),
		u.PasswordHash,
		u.Role,
		formatTimestamp(u.CreatedAt),
	)
	if err != nil {
		return database.Wrap("failed to insert user", err)
	}

	return nil
}

// DeleteUser removes the user row. Dependent rows must already be gone or cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return database.Wrap("failed to delete user", err)
	}
	return affected("failed to delete user", result, apperrors.ErrUserNotFound)
}
