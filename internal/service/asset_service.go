package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/validation"
)

// AssetService manages the global reference data: assets, their prices, and asset types.
// Everyone may read it; only admins may change it.
type AssetService struct {
	db        *sql.DB
	assetRepo *repository.AssetRepository
	publisher events.Publisher
	log       zerolog.Logger
}

// NewAssetService creates a new AssetService with the provided repository dependencies.
func NewAssetService(db *sql.DB, assetRepo *repository.AssetRepository, publisher events.Publisher, log zerolog.Logger) *AssetService {
	return &AssetService{
		db:        db,
		assetRepo: assetRepo,
		publisher: publisher,
		log:       log.With().Str("service", "asset").Logger(),
	}
}

func (s *AssetService) GetAssets(ctx context.Context) ([]model.Asset, error) {
	return s.assetRepo.GetAssets(ctx)
}

func (s *AssetService) GetAsset(ctx context.Context, assetID string) (model.Asset, error) {
	return s.assetRepo.GetAsset(ctx, assetID)
}

func (s *AssetService) GetAssetTypes(ctx context.Context) ([]model.AssetType, error) {
	return s.assetRepo.GetAssetTypes(ctx)
}

// CreateAsset adds a priced asset. Asset names are unique.
func (s *AssetService) CreateAsset(ctx context.Context, p model.Principal, req request.CreateAssetRequest) (model.Asset, error) {
	if err := requireAdmin(p); err != nil {
		return model.Asset{}, err
	}
	if err := validation.ValidateCreateAsset(req); err != nil {
		return model.Asset{}, err
	}

	asset := model.Asset{
		ID:        newID(),
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		UnitType:  req.UnitType,
		UpdatedAt: now(),
	}

	if err := s.assetRepo.InsertAsset(ctx, asset); err != nil {
		return model.Asset{}, fmt.Errorf("failed to create asset: %w", err)
	}
	return asset, nil
}

// UpdateAssetPrice sets a new unit price. Every investment in the asset is
// valued at the new price from the next read on.
func (s *AssetService) UpdateAssetPrice(ctx context.Context, p model.Principal, assetID string, price decimal.Decimal) (model.Asset, error) {
	if err := requireAdmin(p); err != nil {
		return model.Asset{}, err
	}
	if err := validation.ValidateAssetPrice(price); err != nil {
		return model.Asset{}, err
	}

	var before, after model.Asset
	err := inTx(ctx, s.db, "price update", func(tx *sql.Tx) error {
		repo := s.assetRepo.WithTx(tx)

		var err error
		if before, err = repo.GetAsset(ctx, assetID); err != nil {
			return err
		}

		after = before
		after.UnitPrice = price
		after.UpdatedAt = now()
		return repo.UpdateAssetPrice(ctx, assetID, after.UnitPrice, after.UpdatedAt)
	})
	if err != nil {
		return model.Asset{}, err
	}

	s.log.Info().
		Str("asset_id", assetID).
		Str("old_price", before.UnitPrice.String()).
		Str("new_price", after.UnitPrice.String()).
		Msg("asset price updated")

	if err := s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeAssetPriceUpdated,
		Key:        assetID,
		OccurredAt: after.UpdatedAt,
		Payload: events.AssetPriceUpdated{
			AssetID:  assetID,
			OldPrice: before.UnitPrice,
			NewPrice: after.UnitPrice,
		},
	}); err != nil {
		s.log.Warn().Err(err).Str("asset_id", assetID).Msg("failed to publish price update")
	}

	return after, nil
}

// CreateAssetType adds a category label. Names are unique.
func (s *AssetService) CreateAssetType(ctx context.Context, p model.Principal, req request.CreateAssetTypeRequest) (model.AssetType, error) {
	if err := requireAdmin(p); err != nil {
		return model.AssetType{}, err
	}
	if err := validation.ValidateCreateAssetType(req); err != nil {
		return model.AssetType{}, err
	}

	at := model.AssetType{
		ID:          newID(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.assetRepo.InsertAssetType(ctx, at); err != nil {
		return model.AssetType{}, fmt.Errorf("failed to create asset type: %w", err)
	}
	return at, nil
}
