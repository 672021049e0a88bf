package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// AssetRepository provides data access methods for the global reference tables
// assets and asset_types.
type AssetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// WithTx returns a new AssetRepository scoped to the provided transaction.
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AssetRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func scanAsset(row interface{ Scan(...any) error }) (model.Asset, error) {
	var a model.Asset
	var updatedAt string

	err := row.Scan(&a.ID, &a.Name, &a.UnitPrice, &a.UnitType, &updatedAt)
	if err != nil {
		return model.Asset{}, err
	}

	if a.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.Asset{}, err
	}
	return a, nil
}

// GetAssets retrieves all assets ordered by name.
func (r *AssetRepository) GetAssets(ctx context.Context) ([]model.Asset, error) {
	query := `SELECT asset_id, name, unit_price, unit_type, updated_at FROM assets ORDER BY name`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, database.Wrap("failed to query assets", err)
	}
	defer rows.Close()

	assets := []model.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// GetAsset retrieves an asset with its current price. Returns ErrAssetNotFound if absent.
func (r *AssetRepository) GetAsset(ctx context.Context, assetID string) (model.Asset, error) {
	query := `SELECT asset_id, name, unit_price, unit_type, updated_at FROM assets WHERE asset_id = ?`

	a, err := scanAsset(r.getQuerier().QueryRowContext(ctx, query, assetID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, database.Wrap("failed to query asset", err)
	}
	return a, nil
}

// InsertAsset stores a new asset. Duplicate names yield ErrDuplicateEntry.
func (r *AssetRepository) InsertAsset(ctx context.Context, a model.Asset) error {
	query := `
		INSERT INTO assets (asset_id, name, unit_price, unit_type, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query, a.ID, a.Name, a.UnitPrice, a.UnitType, formatTimestamp(a.UpdatedAt))
	if err != nil {
		return database.Wrap("failed to insert asset", err)
	}
	return nil
}

// UpdateAssetPrice overwrites the unit price. Later reads see the new price immediately.
func (r *AssetRepository) UpdateAssetPrice(ctx context.Context, assetID string, price decimal.Decimal, updatedAt time.Time) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE assets SET unit_price = ?, updated_at = ? WHERE asset_id = ?`,
		price, formatTimestamp(updatedAt), assetID,
	)
	if err != nil {
		return database.Wrap("failed to update asset price", err)
	}
	return affected("failed to update asset price", result, apperrors.ErrAssetNotFound)
}

// GetAssetTypes retrieves all asset types ordered by name.
func (r *AssetRepository) GetAssetTypes(ctx context.Context) ([]model.AssetType, error) {
	rows, err := r.getQuerier().QueryContext(ctx,
		`SELECT asset_type_id, type_name, description FROM asset_types ORDER BY type_name`)
	if err != nil {
		return nil, database.Wrap("failed to query asset types", err)
	}
	defer rows.Close()

	types := []model.AssetType{}
	for rows.Next() {
		var at model.AssetType
		if err := rows.Scan(&at.ID, &at.Name, &at.Description); err != nil {
			return nil, fmt.Errorf("failed to scan asset type: %w", err)
		}
		types = append(types, at)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset types: %w", err)
	}

	return types, nil
}

// GetAssetType retrieves an asset type by ID. Returns ErrAssetTypeNotFound if absent.
func (r *AssetRepository) GetAssetType(ctx context.Context, assetTypeID string) (model.AssetType, error) {
	var at model.AssetType

	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT asset_type_id, type_name, description FROM asset_types WHERE asset_type_id = ?`, assetTypeID,
	).Scan(&at.ID, &at.Name, &at.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AssetType{}, apperrors.ErrAssetTypeNotFound
	}
	if err != nil {
		return model.AssetType{}, database.Wrap("failed to query asset type", err)
	}
	return at, nil
}

// InsertAssetType stores a new asset type. Duplicate names yield ErrDuplicateEntry.
func (r *AssetRepository) InsertAssetType(ctx context.Context, at model.AssetType) error {
	_, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO asset_types (asset_type_id, type_name, description) VALUES (?, ?, ?)`,
		at.ID, at.Name, at.Description,
	)
	if err != nil {
		return database.Wrap("failed to insert asset type", err)
	}
	return nil
}
