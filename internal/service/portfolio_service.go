package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/validation"
)

// PortfolioService handles portfolio-related business logic operations.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(portfolioRepo *repository.PortfolioRepository) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
	}
}

// GetPortfolios returns the portfolios visible to p.
func (s *PortfolioService) GetPortfolios(ctx context.Context, p model.Principal) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx, p.OwnerScope())
}

// GetPortfolio retrieves a single portfolio by its ID.
func (s *PortfolioService) GetPortfolio(ctx context.Context, p model.Principal, portfolioID string) (model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return model.Portfolio{}, err
	}
	if err := authorize(p, portfolio.UserID); err != nil {
		return model.Portfolio{}, err
	}
	return portfolio, nil
}

// CreatePortfolio creates a portfolio for p. Names are unique per user.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, p model.Principal, req request.CreatePortfolioRequest) (model.Portfolio, error) {
	if err := validation.ValidateCreatePortfolio(req); err != nil {
		return model.Portfolio{}, err
	}

	portfolio := model.Portfolio{
		ID:          newID(),
		UserID:      p.UserID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now(),
	}

	if err := s.portfolioRepo.InsertPortfolio(ctx, portfolio); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to create portfolio: %w", err)
	}
	return portfolio, nil
}

// UpdatePortfolio applies the provided fields.
func (s *PortfolioService) UpdatePortfolio(ctx context.Context, p model.Principal, portfolioID string, req request.UpdatePortfolioRequest) (model.Portfolio, error) {
	if err := validation.ValidateUpdatePortfolio(req); err != nil {
		return model.Portfolio{}, err
	}

	portfolio, err := s.GetPortfolio(ctx, p, portfolioID)
	if err != nil {
		return model.Portfolio{}, err
	}

	if req.Name != nil {
		portfolio.Name = *req.Name
	}
	if req.Description != nil {
		portfolio.Description = *req.Description
	}

	if err := s.portfolioRepo.UpdatePortfolio(ctx, portfolio); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to update portfolio: %w", err)
	}
	return portfolio, nil
}

// DeletePortfolio removes an empty portfolio.
// A portfolio that still holds investments returns ErrPortfolioInUse.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, p model.Principal, portfolioID string) error {
	if _, err := s.GetPortfolio(ctx, p, portfolioID); err != nil {
		return err
	}

	err := s.portfolioRepo.DeletePortfolio(ctx, portfolioID)
	if errors.Is(err, apperrors.ErrConstraintViolation) {
		return apperrors.ErrPortfolioInUse
	}
	return err
}
