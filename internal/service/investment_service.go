package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/validation"
)

// InvestmentService records holdings entered by hand. Manual changes never move cash;
// purchases go through PurchaseService.
type InvestmentService struct {
	db             *sql.DB
	investmentRepo *repository.InvestmentRepository
	portfolioRepo  *repository.PortfolioRepository
	assetRepo      *repository.AssetRepository
}

// NewInvestmentService creates a new InvestmentService with the provided repository dependencies.
func NewInvestmentService(
	db *sql.DB,
	investmentRepo *repository.InvestmentRepository,
	portfolioRepo *repository.PortfolioRepository,
	assetRepo *repository.AssetRepository,
) *InvestmentService {
	return &InvestmentService{
		db:             db,
		investmentRepo: investmentRepo,
		portfolioRepo:  portfolioRepo,
		assetRepo:      assetRepo,
	}
}

// CreateInvestment stores a holding for p after checking every reference.
func (s *InvestmentService) CreateInvestment(ctx context.Context, p model.Principal, req request.CreateInvestmentRequest) (model.Investment, error) {
	if err := validation.ValidateCreateInvestment(req); err != nil {
		return model.Investment{}, err
	}
	purchaseDate, _ := validation.ParseDate(req.PurchaseDate)

	inv := model.Investment{
		ID:                      newID(),
		UserID:                  p.UserID,
		PortfolioID:             req.PortfolioID,
		AssetTypeID:             req.AssetTypeID,
		AssetID:                 req.AssetID,
		Name:                    req.Name,
		Symbol:                  req.Symbol,
		InitialInvestmentAmount: req.InitialInvestmentAmount,
		PurchaseDate:            purchaseDate,
		Quantity:                req.Quantity,
		Currency:                req.Currency,
		Notes:                   req.Notes,
		CreatedAt:               now(),
	}

	err := inTx(ctx, s.db, "investment creation", func(tx *sql.Tx) error {
		if err := s.checkReferences(ctx, tx, inv, true); err != nil {
			return err
		}
		return s.investmentRepo.WithTx(tx).InsertInvestment(ctx, inv)
	})
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to create investment: %w", err)
	}
	return inv, nil
}

// UpdateInvestment applies the provided fields. The asset of an investment cannot change.
func (s *InvestmentService) UpdateInvestment(ctx context.Context, p model.Principal, investmentID string, req request.UpdateInvestmentRequest) (model.Investment, error) {
	if err := validation.ValidateUpdateInvestment(req); err != nil {
		return model.Investment{}, err
	}

	var updated model.Investment
	err := inTx(ctx, s.db, "investment update", func(tx *sql.Tx) error {
		repo := s.investmentRepo.WithTx(tx)

		inv, err := repo.GetInvestment(ctx, investmentID)
		if err != nil {
			return err
		}
		if err := authorize(p, inv.UserID); err != nil {
			return err
		}

		moved := applyInvestmentUpdate(&inv, req)
		if moved {
			if err := s.checkReferences(ctx, tx, inv, false); err != nil {
				return err
			}
		}

		if err := repo.UpdateInvestment(ctx, inv); err != nil {
			return err
		}
		inv.Version++
		updated = inv
		return nil
	})
	if err != nil {
		return model.Investment{}, err
	}
	return updated, nil
}

// applyInvestmentUpdate copies the set fields of req onto inv and reports
// whether the portfolio or asset type changed.
func applyInvestmentUpdate(inv *model.Investment, req request.UpdateInvestmentRequest) bool {
	moved := false
	if req.PortfolioID != nil && *req.PortfolioID != inv.PortfolioID {
		inv.PortfolioID = *req.PortfolioID
		moved = true
	}
	if req.AssetTypeID != nil && *req.AssetTypeID != inv.AssetTypeID {
		inv.AssetTypeID = *req.AssetTypeID
		moved = true
	}
	if req.Name != nil {
		inv.Name = *req.Name
	}
	if req.Symbol != nil {
		inv.Symbol = *req.Symbol
	}
	if req.InitialInvestmentAmount != nil {
		inv.InitialInvestmentAmount = *req.InitialInvestmentAmount
	}
	if req.PurchaseDate != nil {
		inv.PurchaseDate, _ = validation.ParseDate(*req.PurchaseDate)
	}
	if req.Quantity != nil {
		inv.Quantity = *req.Quantity
	}
	if req.Currency != nil {
		inv.Currency = *req.Currency
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	return moved
}

// checkReferences verifies the portfolio is owned by the investor and that
// the asset type, and optionally the asset, exist.
func (s *InvestmentService) checkReferences(ctx context.Context, tx *sql.Tx, inv model.Investment, withAsset bool) error {
	portfolio, err := s.portfolioRepo.WithTx(tx).GetPortfolio(ctx, inv.PortfolioID)
	if err != nil {
		return missing("portfolio", inv.PortfolioID, err, apperrors.ErrPortfolioNotFound)
	}
	if portfolio.UserID != inv.UserID {
		return fmt.Errorf("portfolio %s: %w", portfolio.ID, apperrors.ErrForbidden)
	}

	assets := s.assetRepo.WithTx(tx)
	if _, err := assets.GetAssetType(ctx, inv.AssetTypeID); err != nil {
		return missing("asset type", inv.AssetTypeID, err, apperrors.ErrAssetTypeNotFound)
	}
	if withAsset {
		if _, err := assets.GetAsset(ctx, inv.AssetID); err != nil {
			return missing("asset", inv.AssetID, err, apperrors.ErrAssetNotFound)
		}
	}
	return nil
}

// DeleteInvestment removes an investment that no transaction refers to.
func (s *InvestmentService) DeleteInvestment(ctx context.Context, p model.Principal, investmentID string) error {
	inv, err := s.investmentRepo.GetInvestment(ctx, investmentID)
	if err != nil {
		return err
	}
	if err := authorize(p, inv.UserID); err != nil {
		return err
	}

	err = s.investmentRepo.DeleteInvestment(ctx, investmentID)
	if errors.Is(err, apperrors.ErrConstraintViolation) {
		return apperrors.ErrInvestmentInUse
	}
	return err
}
