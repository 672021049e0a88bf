package service

import (
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/auth"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
)

// Services bundles every service over one database handle.
type Services struct {
	System      *SystemService
	User        *UserService
	Account     *AccountService
	Portfolio   *PortfolioService
	Investment  *InvestmentService
	Transaction *TransactionService
	Asset       *AssetService
	Valuation   *ValuationService
	Purchase    *PurchaseService
	Admin       *AdminService
	Maintenance *MaintenanceService
}

// New wires repositories and services over db.
func New(db *sql.DB, tokens *auth.TokenIssuer, publisher events.Publisher, log zerolog.Logger) Services {
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	assetRepo := repository.NewAssetRepository(db)

	return Services{
		System:      NewSystemService(db),
		User:        NewUserService(db, userRepo, accountRepo, portfolioRepo, investmentRepo, transactionRepo, tokens, publisher, log),
		Account:     NewAccountService(db, accountRepo),
		Portfolio:   NewPortfolioService(portfolioRepo),
		Investment:  NewInvestmentService(db, investmentRepo, portfolioRepo, assetRepo),
		Transaction: NewTransactionService(db, transactionRepo, accountRepo, investmentRepo, assetRepo),
		Asset:       NewAssetService(db, assetRepo, publisher, log),
		Valuation:   NewValuationService(db, accountRepo, investmentRepo),
		Purchase:    NewPurchaseService(db, accountRepo, assetRepo, portfolioRepo, investmentRepo, transactionRepo, publisher, log),
		Admin:       NewAdminService(userRepo, accountRepo, investmentRepo, transactionRepo, assetRepo),
		Maintenance: NewMaintenanceService(accountRepo, investmentRepo, assetRepo, log),
	}
}
