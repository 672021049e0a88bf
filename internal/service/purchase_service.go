package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/database"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/validation"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/valuation"
)

// purchaseStage is the last step a purchase reached. It is logged when a purchase aborts.
type purchaseStage string

const (
	stageValidating       purchaseStage = "validating"
	stageDebiting         purchaseStage = "debiting"
	stageUpsertingHolding purchaseStage = "upserting_holding"
	stageLogging          purchaseStage = "logging"
	stageCommitted        purchaseStage = "committed"
)

// PurchaseService buys assets with cash from an account.
//
// A purchase debits the account, adds the quantity to a holding and appends a
// Buy transaction inside one database transaction. Either all three changes
// are committed or none is.
type PurchaseService struct {
	db              *sql.DB
	accountRepo     *repository.AccountRepository
	assetRepo       *repository.AssetRepository
	portfolioRepo   *repository.PortfolioRepository
	investmentRepo  *repository.InvestmentRepository
	transactionRepo *repository.TransactionRepository
	publisher       events.Publisher
	log             zerolog.Logger
}

// NewPurchaseService creates a new PurchaseService with the provided repository dependencies.
func NewPurchaseService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	assetRepo *repository.AssetRepository,
	portfolioRepo *repository.PortfolioRepository,
	investmentRepo *repository.InvestmentRepository,
	transactionRepo *repository.TransactionRepository,
	publisher events.Publisher,
	log zerolog.Logger,
) *PurchaseService {
	return &PurchaseService{
		db:              db,
		accountRepo:     accountRepo,
		assetRepo:       assetRepo,
		portfolioRepo:   portfolioRepo,
		investmentRepo:  investmentRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		log:             log.With().Str("service", "purchase").Logger(),
	}
}

// purchase carries the repositories bound to one transaction.
type purchase struct {
	accounts     *repository.AccountRepository
	assets       *repository.AssetRepository
	portfolios   *repository.PortfolioRepository
	investments  *repository.InvestmentRepository
	transactions *repository.TransactionRepository
	stage        purchaseStage
}

// Buy executes order on behalf of p.
//
// Balances and prices are read inside the transaction, immediately before use.
// Errors:
//   - *apperrors.ValidationError for malformed orders or an unpriced asset
//   - apperrors.ErrForbidden if the account or portfolio belongs to someone else
//   - *apperrors.DataIntegrityError if a referenced row does not exist
//   - *apperrors.InsufficientFundsError if the cost exceeds the balance
//   - *apperrors.StoreError, with Kind StoreConflict when a concurrent purchase won the race
func (s *PurchaseService) Buy(ctx context.Context, p model.Principal, order model.BuyOrder) (model.BuyResult, error) {
	if order.UserID == "" {
		order.UserID = p.UserID
	}
	if err := authorize(p, order.UserID); err != nil {
		return model.BuyResult{}, err
	}
	if err := validation.ValidateBuyOrder(order); err != nil {
		return model.BuyResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.BuyResult{}, database.Wrap("failed to begin purchase", err)
	}

	run := &purchase{
		accounts:     s.accountRepo.WithTx(tx),
		assets:       s.assetRepo.WithTx(tx),
		portfolios:   s.portfolioRepo.WithTx(tx),
		investments:  s.investmentRepo.WithTx(tx),
		transactions: s.transactionRepo.WithTx(tx),
		stage:        stageValidating,
	}

	result, err := run.execute(ctx, order)
	if err == nil {
		if err = tx.Commit(); err != nil {
			err = database.Wrap("failed to commit purchase", err)
		}
	}
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.Error().Err(rbErr).Msg("failed to roll back purchase")
		}
		s.log.Warn().Err(err).
			Str("stage", string(run.stage)).
			Str("user_id", order.UserID).
			Str("account_id", order.AccountID).
			Str("asset_id", order.AssetID).
			Msg("purchase aborted")
		return model.BuyResult{}, err
	}
	run.stage = stageCommitted

	s.log.Info().
		Str("transaction_id", result.Transaction.ID).
		Str("investment_id", result.Investment.ID).
		Str("total_cost", result.TotalCost.StringFixed(valuation.MoneyPlaces)).
		Bool("created_holding", result.CreatedHolding).
		Msg("purchase committed")

	s.publish(ctx, result)

	return result, nil
}

func (s *PurchaseService) publish(ctx context.Context, r model.BuyResult) {
	e := events.Event{
		Type:       events.TypePurchaseCompleted,
		Key:        r.Account.ID,
		OccurredAt: r.Transaction.Date,
		Payload: events.PurchaseCompleted{
			UserID:        r.Transaction.UserID,
			AccountID:     r.Account.ID,
			InvestmentID:  r.Investment.ID,
			AssetID:       r.Transaction.AssetID,
			TransactionID: r.Transaction.ID,
			Quantity:      *r.Transaction.Quantity,
			UnitPrice:     *r.Transaction.UnitPriceAtTransaction,
			TotalCost:     r.TotalCost,
		},
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("transaction_id", r.Transaction.ID).Msg("failed to publish purchase event")
	}
}

func (p *purchase) execute(ctx context.Context, order model.BuyOrder) (model.BuyResult, error) {
	account, err := p.accounts.GetAccountForUpdate(ctx, order.AccountID)
	if err != nil {
		return model.BuyResult{}, missing("account", order.AccountID, err, apperrors.ErrAccountNotFound)
	}
	if account.UserID != order.UserID {
		return model.BuyResult{}, fmt.Errorf("account %s: %w", account.ID, apperrors.ErrForbidden)
	}

	asset, err := p.assets.GetAsset(ctx, order.AssetID)
	if err != nil {
		return model.BuyResult{}, missing("asset", order.AssetID, err, apperrors.ErrAssetNotFound)
	}
	if !asset.UnitPrice.IsPositive() {
		return model.BuyResult{}, apperrors.NewValidationError("assetId", "asset has no positive unit price")
	}

	holding, found, err := p.resolveHolding(ctx, order)
	if err != nil {
		return model.BuyResult{}, err
	}

	var portfolio model.Portfolio
	if !found {
		if portfolio, err = p.newHoldingTarget(ctx, order); err != nil {
			return model.BuyResult{}, err
		}
	}

	totalCost := valuation.Cost(order.Quantity, asset.UnitPrice)
	if !totalCost.IsPositive() {
		return model.BuyResult{}, apperrors.NewValidationError("quantity", "quantity costs less than one cent at the current price")
	}
	if totalCost.GreaterThan(account.CurrentBalance) {
		return model.BuyResult{}, &apperrors.InsufficientFundsError{
			Required:  totalCost,
			Available: account.CurrentBalance,
		}
	}

	p.stage = stageDebiting
	balance := account.CurrentBalance.Sub(totalCost)
	if err := p.accounts.UpdateAccountBalance(ctx, account.ID, balance, account.Version); err != nil {
		return model.BuyResult{}, err
	}
	account.CurrentBalance = balance
	account.Version++

	p.stage = stageUpsertingHolding
	timestamp := now()
	if found {
		quantity := holding.Quantity.Add(order.Quantity)
		if err := p.investments.UpdateInvestmentQuantity(ctx, holding.ID, quantity, holding.Version); err != nil {
			return model.BuyResult{}, err
		}
		holding.Quantity = quantity
		holding.Version++
	} else {
		name, err := p.holdingName(ctx, order, asset, portfolio)
		if err != nil {
			return model.BuyResult{}, err
		}
		holding = model.Investment{
			ID:                      newID(),
			UserID:                  order.UserID,
			PortfolioID:             portfolio.ID,
			AssetTypeID:             order.AssetTypeID,
			AssetID:                 asset.ID,
			Name:                    name,
			InitialInvestmentAmount: totalCost,
			PurchaseDate:            timestamp,
			Quantity:                order.Quantity,
			Currency:                account.Currency,
			Notes:                   "Initial purchase of " + asset.Name,
			CreatedAt:               timestamp,
		}
		if err := p.investments.InsertInvestment(ctx, holding); err != nil {
			return model.BuyResult{}, err
		}
	}

	p.stage = stageLogging
	quantity, price := order.Quantity, asset.UnitPrice
	transaction := model.Transaction{
		ID:                     newID(),
		UserID:                 order.UserID,
		AccountID:              account.ID,
		InvestmentID:           holding.ID,
		AssetID:                asset.ID,
		Type:                   model.TransactionBuy,
		Amount:                 totalCost,
		Quantity:               &quantity,
		UnitPriceAtTransaction: &price,
		Description:            fmt.Sprintf("Bought %s %s of %s", quantity.String(), asset.UnitType, asset.Name),
		Date:                   timestamp,
	}
	if err := p.transactions.InsertTransaction(ctx, transaction); err != nil {
		return model.BuyResult{}, err
	}

	return model.BuyResult{
		Account:        account,
		Investment:     holding,
		Transaction:    transaction,
		TotalCost:      totalCost,
		CreatedHolding: !found,
	}, nil
}

// resolveHolding finds the investment a purchase adds to. With a portfolio in
// the order only that portfolio is searched; otherwise the oldest holding of
// the asset wins.
func (p *purchase) resolveHolding(ctx context.Context, order model.BuyOrder) (model.Investment, bool, error) {
	inv, err := p.investments.FindHolding(ctx, order.UserID, order.AssetID, order.PortfolioID)
	if errors.Is(err, apperrors.ErrInvestmentNotFound) {
		return model.Investment{}, false, nil
	}
	if err != nil {
		return model.Investment{}, false, err
	}
	return inv, true, nil
}

// newHoldingTarget checks that a new holding has an owned portfolio and an existing asset type.
func (p *purchase) newHoldingTarget(ctx context.Context, order model.BuyOrder) (model.Portfolio, error) {
	if order.PortfolioID == "" || order.AssetTypeID == "" {
		fields := map[string]string{}
		if order.PortfolioID == "" {
			fields["portfolioId"] = "portfolioId is required for a first purchase of this asset"
		}
		if order.AssetTypeID == "" {
			fields["assetTypeId"] = "assetTypeId is required for a first purchase of this asset"
		}
		return model.Portfolio{}, fmt.Errorf("%w: %w", apperrors.ErrHoldingTargetRequired, &apperrors.ValidationError{Fields: fields})
	}

	portfolio, err := p.portfolios.GetPortfolio(ctx, order.PortfolioID)
	if err != nil {
		return model.Portfolio{}, missing("portfolio", order.PortfolioID, err, apperrors.ErrPortfolioNotFound)
	}
	if portfolio.UserID != order.UserID {
		return model.Portfolio{}, fmt.Errorf("portfolio %s: %w", portfolio.ID, apperrors.ErrForbidden)
	}

	if _, err := p.assets.GetAssetType(ctx, order.AssetTypeID); err != nil {
		return model.Portfolio{}, missing("asset type", order.AssetTypeID, err, apperrors.ErrAssetTypeNotFound)
	}

	return portfolio, nil
}

// holdingName names a new holding after its asset. Investment names are unique
// per user, so a second holding of the same asset carries its portfolio name.
func (p *purchase) holdingName(ctx context.Context, order model.BuyOrder, asset model.Asset, portfolio model.Portfolio) (string, error) {
	name := asset.Name + " Holdings"

	_, elsewhere, err := p.resolveHolding(ctx, model.BuyOrder{UserID: order.UserID, AssetID: asset.ID})
	if err != nil {
		return "", err
	}
	if elsewhere {
		name += " (" + portfolio.Name + ")"
	}
	return name, nil
}
