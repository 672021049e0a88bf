package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
)

// MaintenanceService checks stored data for states no workflow should produce.
type MaintenanceService struct {
	accountRepo    *repository.AccountRepository
	investmentRepo *repository.InvestmentRepository
	assetRepo      *repository.AssetRepository
	log            zerolog.Logger
}

// NewMaintenanceService creates a new MaintenanceService with the provided repository dependencies.
func NewMaintenanceService(
	accountRepo *repository.AccountRepository,
	investmentRepo *repository.InvestmentRepository,
	assetRepo *repository.AssetRepository,
	log zerolog.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		accountRepo:    accountRepo,
		investmentRepo: investmentRepo,
		assetRepo:      assetRepo,
		log:            log.With().Str("service", "maintenance").Logger(),
	}
}

// Audit counts investments with a negative quantity, assets without a positive
// price, investments whose asset or portfolio is gone, and accounts below zero.
// Amounts are compared as decimals in Go because sqlite stores them as text.
func (s *MaintenanceService) Audit(ctx context.Context) (model.AuditReport, error) {
	var report model.AuditReport

	investments, err := s.investmentRepo.GetHoldings(ctx, "")
	if err != nil {
		return model.AuditReport{}, err
	}
	for _, h := range investments {
		if h.Investment.Quantity.IsNegative() {
			report.NegativeQuantityInvestments++
		}
	}

	assets, err := s.assetRepo.GetAssets(ctx)
	if err != nil {
		return model.AuditReport{}, err
	}
	for _, a := range assets {
		if !a.UnitPrice.IsPositive() {
			report.NonPositivePriceAssets++
		}
	}

	if report.OrphanInvestments, err = s.investmentRepo.CountOrphanInvestments(ctx); err != nil {
		return model.AuditReport{}, err
	}

	accounts, err := s.accountRepo.GetAccounts(ctx, "")
	if err != nil {
		return model.AuditReport{}, err
	}
	for _, a := range accounts {
		if a.CurrentBalance.IsNegative() {
			report.NegativeBalanceAccounts++
		}
	}

	event := s.log.Info()
	if !report.Clean() {
		event = s.log.Warn()
	}
	event.
		Int("negative_quantity_investments", report.NegativeQuantityInvestments).
		Int("non_positive_price_assets", report.NonPositivePriceAssets).
		Int("orphan_investments", report.OrphanInvestments).
		Int("negative_balance_accounts", report.NegativeBalanceAccounts).
		Msg("audit finished")

	return report, nil
}
