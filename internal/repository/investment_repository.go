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

// InvestmentRepository provides data access methods for the investments table.
// Quantity writes are guarded by the version column.
type InvestmentRepository struct {
	db   *sql.DB
	tx   *sql.Tx
	lock string
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db, lock: database.RowLockClause(db)}
}

// WithTx returns a new InvestmentRepository scoped to the provided transaction.
func (r *InvestmentRepository) WithTx(tx *sql.Tx) *InvestmentRepository {
	return &InvestmentRepository{
		db:   r.db,
		tx:   tx,
		lock: r.lock,
	}
}

func (r *InvestmentRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const investmentColumns = `
	i.investment_id, i.user_id, i.portfolio_id, i.asset_category_id, i.asset_id,
	i.investment_name, i.symbol, i.initial_investment_amount, i.purchase_date,
	i.quantity, i.currency, i.notes, i.version, i.created_at`

func investmentDest(inv *model.Investment, purchaseDate, createdAt *string) []any {
	return []any{
		&inv.ID, &inv.UserID, &inv.PortfolioID, &inv.AssetTypeID, &inv.AssetID,
		&inv.Name, &inv.Symbol, &inv.InitialInvestmentAmount, purchaseDate,
		&inv.Quantity, &inv.Currency, &inv.Notes, &inv.Version, createdAt,
	}
}

func parseInvestmentTimes(inv *model.Investment, purchaseDate, createdAt string) error {
	var err error
	if inv.PurchaseDate, err = ParseTime(purchaseDate); err != nil {
		return err
	}
	if inv.CreatedAt, err = ParseTime(createdAt); err != nil {
		return err
	}
	return nil
}

func scanInvestment(row interface{ Scan(...any) error }) (model.Investment, error) {
	var inv model.Investment
	var purchaseDate, createdAt string

	if err := row.Scan(investmentDest(&inv, &purchaseDate, &createdAt)...); err != nil {
		return model.Investment{}, err
	}
	if err := parseInvestmentTimes(&inv, purchaseDate, createdAt); err != nil {
		return model.Investment{}, err
	}
	return inv, nil
}

const holdingQuery = `
	SELECT ` + investmentColumns + `,
		COALESCE(p.portfolio_name, ''), COALESCE(t.type_name, ''),
		a.asset_id, a.name, a.unit_price, a.unit_type, a.updated_at
	FROM investments i
	LEFT JOIN assets a ON a.asset_id = i.asset_id
	LEFT JOIN portfolios p ON p.portfolio_id = i.portfolio_id
	LEFT JOIN asset_types t ON t.asset_type_id = i.asset_category_id
	WHERE 1=1`

func scanHolding(row interface{ Scan(...any) error }) (model.Holding, error) {
	var h model.Holding
	var purchaseDate, createdAt string
	var assetID, assetName, unitType, updatedAt sql.NullString
	var unitPrice decimal.NullDecimal

	dest := investmentDest(&h.Investment, &purchaseDate, &createdAt)
	dest = append(dest, &h.PortfolioName, &h.AssetTypeName, &assetID, &assetName, &unitPrice, &unitType, &updatedAt)

	if err := row.Scan(dest...); err != nil {
		return model.Holding{}, err
	}
	if err := parseInvestmentTimes(&h.Investment, purchaseDate, createdAt); err != nil {
		return model.Holding{}, err
	}

	if assetID.Valid {
		asset := model.Asset{
			ID:        assetID.String,
			Name:      assetName.String,
			UnitPrice: unitPrice.Decimal,
			UnitType:  unitType.String,
		}
		if updatedAt.Valid {
			t, err := ParseTime(updatedAt.String)
			if err != nil {
				return model.Holding{}, err
			}
			asset.UpdatedAt = t
		}
		h.Asset = &asset
	}

	return h, nil
}

// GetHoldings retrieves investments joined with their asset, portfolio and type,
// ordered by creation. Asset is nil on a holding whose asset row is missing.
// An empty ownerScope returns the holdings of every user.
func (r *InvestmentRepository) GetHoldings(ctx context.Context, ownerScope string) ([]model.Holding, error) {
	query, args := scopeFilter(holdingQuery, "i.user_id", ownerScope, nil)
	query += " ORDER BY i.created_at, i.investment_id"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Wrap("failed to query holdings", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// GetHolding retrieves one investment joined with its asset. Returns ErrInvestmentNotFound if absent.
func (r *InvestmentRepository) GetHolding(ctx context.Context, investmentID string) (model.Holding, error) {
	h, err := scanHolding(r.getQuerier().QueryRowContext(ctx, holdingQuery+" AND i.investment_id = ?", investmentID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrInvestmentNotFound
	}
	if err != nil {
		return model.Holding{}, database.Wrap("failed to query holding", err)
	}
	return h, nil
}

// GetInvestment retrieves an investment by ID. Returns ErrInvestmentNotFound if absent.
func (r *InvestmentRepository) GetInvestment(ctx context.Context, investmentID string) (model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments i WHERE i.investment_id = ?`

	inv, err := scanInvestment(r.getQuerier().QueryRowContext(ctx, query, investmentID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Investment{}, apperrors.ErrInvestmentNotFound
	}
	if err != nil {
		return model.Investment{}, database.Wrap("failed to query investment", err)
	}
	return inv, nil
}

// GetUserInvestments retrieves all investments of a user, oldest first.
func (r *InvestmentRepository) GetUserInvestments(ctx context.Context, userID string) ([]model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments i WHERE i.user_id = ? ORDER BY i.created_at, i.investment_id`

	rows, err := r.getQuerier().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, database.Wrap("failed to query investments", err)
	}
	defer rows.Close()

	investments := []model.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investments: %w", err)
	}

	return investments, nil
}

// FindHolding returns the oldest investment of assetID owned by userID, restricted to
// portfolioID when it is not empty. Returns ErrInvestmentNotFound if there is none.
func (r *InvestmentRepository) FindHolding(ctx context.Context, userID, assetID, portfolioID string) (model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments i WHERE i.user_id = ? AND i.asset_id = ?`
	args := []any{userID, assetID}
	if portfolioID != "" {
		query += " AND i.portfolio_id = ?"
		args = append(args, portfolioID)
	}
	query += " ORDER BY i.created_at, i.investment_id LIMIT 1" + r.lock

	inv, err := scanInvestment(r.getQuerier().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Investment{}, apperrors.ErrInvestmentNotFound
	}
	if err != nil {
		return model.Investment{}, database.Wrap("failed to query holding", err)
	}
	return inv, nil
}

// InsertInvestment stores a new investment with version 0.
func (r *InvestmentRepository) InsertInvestment(ctx context.Context, inv model.Investment) error {
	query := `
		INSERT INTO investments (
			investment_id, user_id, portfolio_id, asset_category_id, asset_id,
			investment_name, symbol, initial_investment_amount, purchase_date,
			quantity, currency, notes, version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		inv.ID, inv.UserID, inv.PortfolioID, inv.AssetTypeID, inv.AssetID,
		inv.Name, inv.Symbol, inv.InitialInvestmentAmount, formatDate(inv.PurchaseDate),
		inv.Quantity, inv.Currency, inv.Notes, formatTimestamp(inv.CreatedAt),
	)
	if err != nil {
		return database.Wrap("failed to insert investment", err)
	}
	return nil
}

// UpdateInvestmentQuantity sets a new quantity if the row still has expectedVersion.
// A stale version yields a conflict StoreError.
func (r *InvestmentRepository) UpdateInvestmentQuantity(ctx context.Context, investmentID string, quantity decimal.Decimal, expectedVersion int64) error {
	query := `
		UPDATE investments
		SET quantity = ?, version = version + 1
		WHERE investment_id = ? AND version = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query, quantity, investmentID, expectedVersion)
	if err != nil {
		return database.Wrap("failed to update investment quantity", err)
	}
	return affected("failed to update investment quantity", result, conflict("failed to update investment quantity"))
}

// UpdateInvestment overwrites the editable fields of inv if the row still has inv.Version.
func (r *InvestmentRepository) UpdateInvestment(ctx context.Context, inv model.Investment) error {
	query := `
		UPDATE investments
		SET portfolio_id = ?, asset_category_id = ?, investment_name = ?, symbol = ?,
			initial_investment_amount = ?, purchase_date = ?, quantity = ?, currency = ?,
			notes = ?, version = version + 1
		WHERE investment_id = ? AND version = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		inv.PortfolioID, inv.AssetTypeID, inv.Name, inv.Symbol,
		inv.InitialInvestmentAmount, formatDate(inv.PurchaseDate), inv.Quantity, inv.Currency,
		inv.Notes, inv.ID, inv.Version,
	)
	if err != nil {
		return database.Wrap("failed to update investment", err)
	}
	return affected("failed to update investment", result, conflict("failed to update investment"))
}

// DeleteInvestment removes an investment. Investments referenced by transactions fail with a constraint error.
func (r *InvestmentRepository) DeleteInvestment(ctx context.Context, investmentID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM investments WHERE investment_id = ?`, investmentID)
	if err != nil {
		return database.Wrap("failed to delete investment", err)
	}
	return affected("failed to delete investment", result, apperrors.ErrInvestmentNotFound)
}

// DeleteUserInvestments removes every investment of a user and returns how many were deleted.
func (r *InvestmentRepository) DeleteUserInvestments(ctx context.Context, userID string) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM investments WHERE user_id = ?`, userID)
	if err != nil {
		return 0, database.Wrap("failed to delete user investments", err)
	}
	return result.RowsAffected()
}

// CountOrphanInvestments counts investments whose asset or portfolio row is missing.
func (r *InvestmentRepository) CountOrphanInvestments(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM investments i
		LEFT JOIN assets a ON a.asset_id = i.asset_id
		LEFT JOIN portfolios p ON p.portfolio_id = i.portfolio_id
		WHERE a.asset_id IS NULL OR p.portfolio_id IS NULL
	`

	var count int
	if err := r.getQuerier().QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, database.Wrap("failed to count orphan investments", err)
	}
	return count, nil
}
