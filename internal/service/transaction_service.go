package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/validation"
)

// TransactionService reads and appends to the transaction log.
type TransactionService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	accountRepo     *repository.AccountRepository
	investmentRepo  *repository.InvestmentRepository
	assetRepo       *repository.AssetRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	accountRepo *repository.AccountRepository,
	investmentRepo *repository.InvestmentRepository,
	assetRepo *repository.AssetRepository,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		investmentRepo:  investmentRepo,
		assetRepo:       assetRepo,
	}
}

// GetTransactions returns the transactions visible to p, newest first.
func (s *TransactionService) GetTransactions(ctx context.Context, p model.Principal) ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactions(ctx, p.OwnerScope())
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, p model.Principal, transactionID string) (model.Transaction, error) {
	t, err := s.transactionRepo.GetTransaction(ctx, transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := authorize(p, t.UserID); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// CreateTransaction appends a manual entry for p. It does not change any
// balance or quantity. Referenced accounts and investments must belong to p.
func (s *TransactionService) CreateTransaction(ctx context.Context, p model.Principal, req request.CreateTransactionRequest) (model.Transaction, error) {
	if err := validation.ValidateCreateTransaction(req); err != nil {
		return model.Transaction{}, err
	}

	date := now()
	if req.Date != "" {
		date, _ = validation.ParseDate(req.Date)
	}

	transaction := model.Transaction{
		ID:                     newID(),
		UserID:                 p.UserID,
		AccountID:              req.AccountID,
		InvestmentID:           req.InvestmentID,
		AssetID:                req.AssetID,
		Type:                   model.TransactionType(req.Type),
		Amount:                 req.Amount,
		Quantity:               req.Quantity,
		UnitPriceAtTransaction: req.UnitPrice,
		Description:            req.Description,
		Date:                   date,
	}

	err := inTx(ctx, s.db, "transaction creation", func(tx *sql.Tx) error {
		if err := s.checkReferences(ctx, tx, transaction); err != nil {
			return err
		}
		return s.transactionRepo.WithTx(tx).InsertTransaction(ctx, transaction)
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return transaction, nil
}

func (s *TransactionService) checkReferences(ctx context.Context, tx *sql.Tx, t model.Transaction) error {
	if t.AccountID != "" {
		a, err := s.accountRepo.WithTx(tx).GetAccount(ctx, t.AccountID)
		if err != nil {
			return missing("account", t.AccountID, err, apperrors.ErrAccountNotFound)
		}
		if a.UserID != t.UserID {
			return fmt.Errorf("account %s: %w", a.ID, apperrors.ErrForbidden)
		}
	}
	if t.InvestmentID != "" {
		inv, err := s.investmentRepo.WithTx(tx).GetInvestment(ctx, t.InvestmentID)
		if err != nil {
			return missing("investment", t.InvestmentID, err, apperrors.ErrInvestmentNotFound)
		}
		if inv.UserID != t.UserID {
			return fmt.Errorf("investment %s: %w", inv.ID, apperrors.ErrForbidden)
		}
	}
	if t.AssetID != "" {
		if _, err := s.assetRepo.WithTx(tx).GetAsset(ctx, t.AssetID); err != nil {
			return missing("asset", t.AssetID, err, apperrors.ErrAssetNotFound)
		}
	}
	return nil
}

// DeleteTransaction removes a log entry. Balances and holdings stay as they are.
func (s *TransactionService) DeleteTransaction(ctx context.Context, p model.Principal, transactionID string) error {
	if _, err := s.GetTransaction(ctx, p, transactionID); err != nil {
		return err
	}
	return s.transactionRepo.DeleteTransaction(ctx, transactionID)
}
