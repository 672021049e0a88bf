package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/auth"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/logging"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/repository"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

func NewTestPurchaseService(t *testing.T, db *sql.DB, publisher events.Publisher) *service.PurchaseService {
	t.Helper()

	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return service.NewPurchaseService(
		db,
		repository.NewAccountRepository(db),
		repository.NewAssetRepository(db),
		repository.NewPortfolioRepository(db),
		repository.NewInvestmentRepository(db),
		repository.NewTransactionRepository(db),
		publisher,
		logging.Nop(),
	)
}

func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	return service.NewValuationService(
		db,
		repository.NewAccountRepository(db),
		repository.NewInvestmentRepository(db),
	)
}

// NewTestUserService hashes passwords at the minimum bcrypt cost to keep tests fast.
func NewTestUserService(t *testing.T, db *sql.DB, publisher events.Publisher) *service.UserService {
	t.Helper()

	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return service.NewUserService(
		db,
		repository.NewUserRepository(db),
		repository.NewAccountRepository(db),
		repository.NewPortfolioRepository(db),
		repository.NewInvestmentRepository(db),
		repository.NewTransactionRepository(db),
		NewTestTokenIssuer(t),
		publisher,
		logging.Nop(),
	).WithHashCost(bcrypt.MinCost)
}

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return service.NewAccountService(db, repository.NewAccountRepository(db))
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(repository.NewPortfolioRepository(db))
}

func NewTestInvestmentService(t *testing.T, db *sql.DB) *service.InvestmentService {
	t.Helper()

	return service.NewInvestmentService(
		db,
		repository.NewInvestmentRepository(db),
		repository.NewPortfolioRepository(db),
		repository.NewAssetRepository(db),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewAccountRepository(db),
		repository.NewInvestmentRepository(db),
		repository.NewAssetRepository(db),
	)
}

func NewTestAssetService(t *testing.T, db *sql.DB, publisher events.Publisher) *service.AssetService {
	t.Helper()

	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return service.NewAssetService(db, repository.NewAssetRepository(db), publisher, logging.Nop())
}

func NewTestAdminService(t *testing.T, db *sql.DB) *service.AdminService {
	t.Helper()

	return service.NewAdminService(
		repository.NewUserRepository(db),
		repository.NewAccountRepository(db),
		repository.NewInvestmentRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewAssetRepository(db),
	)
}

func NewTestMaintenanceService(t *testing.T, db *sql.DB) *service.MaintenanceService {
	t.Helper()

	return service.NewMaintenanceService(
		repository.NewAccountRepository(db),
		repository.NewInvestmentRepository(db),
		repository.NewAssetRepository(db),
		logging.Nop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// NewTestTokenIssuer returns an issuer with a random key and a one hour TTL.
func NewTestTokenIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()

	issuer, err := auth.NewTokenIssuer("", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token issuer: %v", err)
	}
	return issuer
}

// UserPrincipal returns a regular principal for user.
func UserPrincipal(user model.User) model.Principal {
	return model.Principal{UserID: user.ID, Role: model.RoleUser}
}

// AdminPrincipal returns an admin principal for user.
func AdminPrincipal(user model.User) model.Principal {
	return model.Principal{UserID: user.ID, Role: model.RoleAdmin}
}

// Dec parses a decimal literal, failing loudly on typos in test tables.
//
// Example usage:
//
//	testutil.Dec("650.00")
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeName generates a unique name for testing.
//
// Example usage:
//
//	name := testutil.MakeName("Savings")
//	// Returns: "Savings ABC123"
func MakeName(base string) string {
	if base == "" {
		base = "Test"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
