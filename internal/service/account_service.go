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

// AccountService handles cash account operations.
type AccountService struct {
	db          *sql.DB
	accountRepo *repository.AccountRepository
}

// NewAccountService creates a new AccountService with the provided repository dependencies.
func NewAccountService(db *sql.DB, accountRepo *repository.AccountRepository) *AccountService {
	return &AccountService{
		db:          db,
		accountRepo: accountRepo,
	}
}

// GetAccounts returns the accounts visible to p.
func (s *AccountService) GetAccounts(ctx context.Context, p model.Principal) ([]model.Account, error) {
	return s.accountRepo.GetAccounts(ctx, p.OwnerScope())
}

// GetAccount returns one account owned by p.
func (s *AccountService) GetAccount(ctx context.Context, p model.Principal, accountID string) (model.Account, error) {
	a, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return model.Account{}, err
	}
	if err := authorize(p, a.UserID); err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// CreateAccount opens an account for p. Account names are unique per user.
func (s *AccountService) CreateAccount(ctx context.Context, p model.Principal, req request.CreateAccountRequest) (model.Account, error) {
	if err := validation.ValidateCreateAccount(req); err != nil {
		return model.Account{}, err
	}

	account := model.Account{
		ID:             newID(),
		UserID:         p.UserID,
		Name:           req.Name,
		Type:           model.AccountType(req.Type),
		CurrentBalance: req.Balance,
		Currency:       req.Currency,
		CreatedAt:      now(),
	}

	if err := s.accountRepo.InsertAccount(ctx, account); err != nil {
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// UpdateAccount renames an account or sets its balance directly.
// The balance write is version-guarded like a purchase debit.
func (s *AccountService) UpdateAccount(ctx context.Context, p model.Principal, accountID string, req request.UpdateAccountRequest) (model.Account, error) {
	var account model.Account
	err := inTx(ctx, s.db, "account update", func(tx *sql.Tx) error {
		repo := s.accountRepo.WithTx(tx)

		a, err := repo.GetAccountForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if err := authorize(p, a.UserID); err != nil {
			return err
		}
		if err := validation.ValidateUpdateAccount(req, a.Type); err != nil {
			return err
		}

		if req.Name != nil && *req.Name != a.Name {
			if err := repo.UpdateAccountName(ctx, a.ID, *req.Name); err != nil {
				return err
			}
			a.Name = *req.Name
		}
		if req.Balance != nil && !req.Balance.Equal(a.CurrentBalance) {
			if err := repo.UpdateAccountBalance(ctx, a.ID, *req.Balance, a.Version); err != nil {
				return err
			}
			a.CurrentBalance = *req.Balance
			a.Version++
		}

		account = a
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// DeleteAccount removes an account that no transaction refers to.
func (s *AccountService) DeleteAccount(ctx context.Context, p model.Principal, accountID string) error {
	a, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if err := authorize(p, a.UserID); err != nil {
		return err
	}

	err = s.accountRepo.DeleteAccount(ctx, accountID)
	if errors.Is(err, apperrors.ErrConstraintViolation) {
		return apperrors.ErrAccountInUse
	}
	return err
}
