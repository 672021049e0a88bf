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

// PortfolioRepository provides data access methods for the portfolios table.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a new PortfolioRepository scoped to the provided transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func scanPortfolio(row interface{ Scan(...any) error }) (model.Portfolio, error) {
	var p model.Portfolio
	var createdAt string

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &createdAt)
	if err != nil {
		return model.Portfolio{}, err
	}

	if p.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}

// GetPortfolios retrieves portfolios ordered by owner and name.
// An empty ownerScope returns the portfolios of every user.
func (r *PortfolioRepository) GetPortfolios(ctx context.Context, ownerScope string) ([]model.Portfolio, error) {
	query, args := scopeFilter(`
          SELECT portfolio_id, user_id, portfolio_name, description, created_at
          FROM portfolios
          WHERE 1=1`, "user_id", ownerScope, nil)
	query += " ORDER BY user_id, portfolio_name"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Wrap("failed to query portfolios table", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolio retrieves a portfolio by ID. Returns ErrPortfolioNotFound if absent.
func (r *PortfolioRepository) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	query := `
          SELECT portfolio_id, user_id, portfolio_name, description, created_at
          FROM portfolios
          WHERE portfolio_id = ?
      `

	p, err := scanPortfolio(r.getQuerier().QueryRowContext(ctx, query, portfolioID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, database.Wrap("failed to query portfolio", err)
	}

	return p, nil
}

// InsertPortfolio stores a new portfolio. Duplicate names per user yield ErrDuplicateEntry.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p model.Portfolio) error {
	query := `
        INSERT INTO portfolios (portfolio_id, user_id, portfolio_name, description, created_at)
        VALUES (?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Description,
		formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return database.Wrap("failed to insert portfolio", err)
	}

	return nil
}

// UpdatePortfolio updates name and description.
func (r *PortfolioRepository) UpdatePortfolio(ctx context.Context, p model.Portfolio) error {
	query := `
        UPDATE portfolios
        SET portfolio_name = ?, description = ?
        WHERE portfolio_id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query, p.Name, p.Description, p.ID)
	if err != nil {
		return database.Wrap("failed to update portfolio", err)
	}
	return affected("failed to update portfolio", result, apperrors.ErrPortfolioNotFound)
}

// DeletePortfolio removes a portfolio. Portfolios that still hold investments fail with a constraint error.
func (r *PortfolioRepository) DeletePortfolio(ctx context.Context, portfolioID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM portfolios WHERE portfolio_id = ?`, portfolioID)
	if err != nil {
		return database.Wrap("failed to delete portfolio", err)
	}
	return affected("failed to delete portfolio", result, apperrors.ErrPortfolioNotFound)
}

// DeleteUserPortfolios removes every portfolio of a user and returns how many were deleted.
func (r *PortfolioRepository) DeleteUserPortfolios(ctx context.Context, userID string) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM portfolios WHERE user_id = ?`, userID)
	if err != nil {
		return 0, database.Wrap("failed to delete user portfolios", err)
	}
	return result.RowsAffected()
}
