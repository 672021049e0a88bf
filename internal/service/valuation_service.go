package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/valuation"
)

// ValuationService loads balances and holdings and derives their value.
// Every call reads the store; nothing is cached between calls.
type ValuationService struct {
	db             *sql.DB
	accountRepo    *repository.AccountRepository
	investmentRepo *repository.InvestmentRepository
}

// NewValuationService creates a new ValuationService with the provided repository dependencies.
func NewValuationService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	investmentRepo *repository.InvestmentRepository,
) *ValuationService {
	return &ValuationService{
		db:             db,
		accountRepo:    accountRepo,
		investmentRepo: investmentRepo,
	}
}

// PortfolioSummary totals the balances and holding values of userID, or of
// the principal when userID is empty. Accounts and holdings are read in one
// transaction so the three figures describe the same state.
func (s *ValuationService) PortfolioSummary(ctx context.Context, p model.Principal, userID string) (model.PortfolioSummary, error) {
	owner, err := ownerOf(p, userID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	var summary model.PortfolioSummary
	err = inTx(ctx, s.db, "summary", func(tx *sql.Tx) error {
		accounts, err := s.accountRepo.WithTx(tx).GetAccounts(ctx, owner)
		if err != nil {
			return err
		}
		holdings, err := s.investmentRepo.WithTx(tx).GetHoldings(ctx, owner)
		if err != nil {
			return err
		}
		summary, err = valuation.Summarize(accounts, holdings)
		return err
	})
	if err != nil {
		return model.PortfolioSummary{}, err
	}
	return summary, nil
}

// CurrentValue values one investment at the current price of its asset.
func (s *ValuationService) CurrentValue(ctx context.Context, p model.Principal, investmentID string) (decimal.Decimal, error) {
	h, err := s.investmentRepo.GetHolding(ctx, investmentID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := authorize(p, h.Investment.UserID); err != nil {
		return decimal.Zero, err
	}
	return valuation.CurrentValue(h.Investment, h.Asset)
}

// Holdings lists the investments visible to p with their current value.
func (s *ValuationService) Holdings(ctx context.Context, p model.Principal) ([]model.InvestmentDetail, error) {
	holdings, err := s.investmentRepo.GetHoldings(ctx, p.OwnerScope())
	if err != nil {
		return nil, err
	}
	return details(holdings)
}

// Holding returns one investment with its current value.
func (s *ValuationService) Holding(ctx context.Context, p model.Principal, investmentID string) (model.InvestmentDetail, error) {
	h, err := s.investmentRepo.GetHolding(ctx, investmentID)
	if err != nil {
		return model.InvestmentDetail{}, err
	}
	if err := authorize(p, h.Investment.UserID); err != nil {
		return model.InvestmentDetail{}, err
	}
	return valuation.Detail(h)
}

func details(holdings []model.Holding) ([]model.InvestmentDetail, error) {
	out := make([]model.InvestmentDetail, 0, len(holdings))
	for _, h := range holdings {
		d, err := valuation.Detail(h)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
