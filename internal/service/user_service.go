package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/auth"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/validation"
)

// UserService handles registration, login and user removal.
type UserService struct {
	db              *sql.DB
	userRepo        *repository.UserRepository
	accountRepo     *repository.AccountRepository
	portfolioRepo   *repository.PortfolioRepository
	investmentRepo  *repository.InvestmentRepository
	transactionRepo *repository.TransactionRepository
	tokens          *auth.TokenIssuer
	publisher       events.Publisher
	hashCost        int
	log             zerolog.Logger
}

// NewUserService creates a new UserService with the provided repository dependencies.
func NewUserService(
	db *sql.DB,
	userRepo *repository.UserRepository,
	accountRepo *repository.AccountRepository,
	portfolioRepo *repository.PortfolioRepository,
	investmentRepo *repository.InvestmentRepository,
	transactionRepo *repository.TransactionRepository,
	tokens *auth.TokenIssuer,
	publisher events.Publisher,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		db:              db,
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		portfolioRepo:   portfolioRepo,
		investmentRepo:  investmentRepo,
		transactionRepo: transactionRepo,
		tokens:          tokens,
		publisher:       publisher,
		log:             log.With().Str("service", "user").Logger(),
	}
}

// WithHashCost returns a copy of the service that hashes passwords at cost.
func (s *UserService) WithHashCost(cost int) *UserService {
	c := *s
	c.hashCost = cost
	return &c
}

// Register creates a user with the regular role.
func (s *UserService) Register(ctx context.Context, req request.RegisterRequest) (model.User, error) {
	return s.CreateUser(ctx, req, model.RoleUser)
}

// CreateUser creates a user with the given role. Usernames and emails are unique.
func (s *UserService) CreateUser(ctx context.Context, req request.RegisterRequest, role model.Role) (model.User, error) {
	if err := validation.ValidateRegister(req); err != nil {
		return model.User{}, err
	}
	if !role.Valid() {
		return model.User{}, apperrors.NewValidationError("role", "role must be admin or user")
	}

	hash, err := auth.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           newID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now(),
	}

	if err := s.userRepo.InsertUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user created")
	return user, nil
}

// Authenticate checks credentials and returns a bearer token for the user.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, req request.LoginRequest) (string, model.User, error) {
	if err := validation.ValidateLogin(req); err != nil {
		return "", model.User{}, err
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return "", model.User{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return "", model.User{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.log.Warn().Str("username", req.Username).Msg("failed login")
		return "", model.User{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(model.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		return "", model.User{}, err
	}
	return token, user, nil
}

// GetUsers lists every user. Admin only.
func (s *UserService) GetUsers(ctx context.Context, p model.Principal) ([]model.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.userRepo.GetUsers(ctx)
}

// GetUser returns one user; users may only read themselves.
func (s *UserService) GetUser(ctx context.Context, p model.Principal, userID string) (model.User, error) {
	if err := authorize(p, userID); err != nil {
		return model.User{}, err
	}
	return s.userRepo.GetUser(ctx, userID)
}

// DeleteUser removes a user and everything they own, children first, in one
// transaction. Admin only; admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, p model.Principal, userID string) (model.UserDeletion, error) {
	if err := requireAdmin(p); err != nil {
		return model.UserDeletion{}, err
	}
	if userID == p.UserID {
		return model.UserDeletion{}, apperrors.ErrCannotDeleteSelf
	}

	var deleted model.UserDeletion
	err := inTx(ctx, s.db, "user deletion", func(tx *sql.Tx) error {
		if _, err := s.userRepo.WithTx(tx).GetUser(ctx, userID); err != nil {
			return err
		}

		var err error
		if deleted.Transactions, err = s.transactionRepo.WithTx(tx).DeleteUserTransactions(ctx, userID); err != nil {
			return err
		}
		if deleted.Investments, err = s.investmentRepo.WithTx(tx).DeleteUserInvestments(ctx, userID); err != nil {
			return err
		}
		if deleted.Accounts, err = s.accountRepo.WithTx(tx).DeleteUserAccounts(ctx, userID); err != nil {
			return err
		}
		if deleted.Portfolios, err = s.portfolioRepo.WithTx(tx).DeleteUserPortfolios(ctx, userID); err != nil {
			return err
		}
		return s.userRepo.WithTx(tx).DeleteUser(ctx, userID)
	})
	if err != nil {
		return model.UserDeletion{}, fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("deleted_by", p.UserID).
		Int64("transactions", deleted.Transactions).
		Int64("investments", deleted.Investments).
		Int64("accounts", deleted.Accounts).
		Int64("portfolios", deleted.Portfolios).
		Msg("user deleted")

	if err := s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeUserDeleted,
		Key:        userID,
		OccurredAt: now(),
		Payload:    events.UserDeleted{UserID: userID},
	}); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to publish user deletion")
	}

	return deleted, nil
}
