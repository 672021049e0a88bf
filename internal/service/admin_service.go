package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
)

// AdminService builds the cross-user views available to admins.
type AdminService struct {
	userRepo        *repository.UserRepository
	accountRepo     *repository.AccountRepository
	investmentRepo  *repository.InvestmentRepository
	transactionRepo *repository.TransactionRepository
	assetRepo       *repository.AssetRepository
}

// NewAdminService creates a new AdminService with the provided repository dependencies.
func NewAdminService(
	userRepo *repository.UserRepository,
	accountRepo *repository.AccountRepository,
	investmentRepo *repository.InvestmentRepository,
	transactionRepo *repository.TransactionRepository,
	assetRepo *repository.AssetRepository,
) *AdminService {
	return &AdminService{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		investmentRepo:  investmentRepo,
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
	}
}

// Overview loads every table an admin browses. The reads run concurrently and
// the first failure cancels the rest.
func (s *AdminService) Overview(ctx context.Context, p model.Principal) (model.Overview, error) {
	if err := requireAdmin(p); err != nil {
		return model.Overview{}, err
	}

	var o model.Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		o.Users, err = s.userRepo.GetUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Accounts, err = s.accountRepo.GetAccounts(ctx, "")
		return err
	})
	g.Go(func() error {
		holdings, err := s.investmentRepo.GetHoldings(ctx, "")
		if err != nil {
			return err
		}
		o.Investments, err = details(holdings)
		return err
	})
	g.Go(func() (err error) {
		o.Transactions, err = s.transactionRepo.GetTransactions(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		o.Assets, err = s.assetRepo.GetAssets(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return model.Overview{}, err
	}
	return o, nil
}
