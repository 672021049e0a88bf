package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// Builders write rows directly so tests can set up states no service would produce.
const (
	timestampLayout = "2006-01-02 15:04:05.000000"
	dateLayout      = "2006-01-02"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Admin who can log in
//	admin := testutil.NewUser().
//	    WithUsername("root").
//	    WithPassword("correct horse").
//	    Admin().
//	    Build(t, db)
type UserBuilder struct {
	ID       string
	Username string
	Email    string
	Password string
	Role     model.Role
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:       MakeID(),
		Username: "user_" + randomAlphanumeric(8),
		Role:     model.RoleUser,
	}
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithEmail sets an email address.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithPassword stores a bcrypt hash of password.
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.Password = password
	return b
}

// Admin gives the user the admin role.
func (b *UserBuilder) Admin() *UserBuilder {
	b.Role = model.RoleAdmin
	return b
}

// Build inserts the user into the database.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	hash := "not-a-hash"
	if b.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(b.Password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("Failed to hash test password: %v", err)
		}
		hash = string(h)
	}

	createdAt := time.Now().UTC()
	query := `
		INSERT INTO users (user_id, username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	email := sql.NullString{String: b.Email, Valid: b.Email != ""}
	_, err := db.Exec(query, b.ID, b.Username, email, hash, b.Role, createdAt.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:           b.ID,
		Username:     b.Username,
		Email:        b.Email,
		PasswordHash: hash,
		Role:         b.Role,
		CreatedAt:    createdAt,
	}
}

// CreateUser is a shorthand for NewUser().Build(t, db).
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	account := testutil.NewAccount(user.ID).WithBalance("1000").Build(t, db)
type AccountBuilder struct {
	ID       string
	UserID   string
	Name     string
	Type     model.AccountType
	Balance  decimal.Decimal
	Currency string
}

// NewAccount creates an AccountBuilder for userID with sensible defaults.
func NewAccount(userID string) *AccountBuilder {
	return &AccountBuilder{
		ID:       MakeID(),
		UserID:   userID,
		Name:     MakeName("Account"),
		Type:     model.AccountChecking,
		Balance:  decimal.Zero,
		Currency: "USD",
	}
}

// WithName sets a custom name.
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.Name = name
	return b
}

// WithType sets the account type.
func (b *AccountBuilder) WithType(accountType model.AccountType) *AccountBuilder {
	b.Type = accountType
	return b
}

// WithBalance sets the balance from a decimal string such as "1000.00".
func (b *AccountBuilder) WithBalance(balance string) *AccountBuilder {
	b.Balance = decimal.RequireFromString(balance)
	return b
}

// WithCurrency sets the currency code.
func (b *AccountBuilder) WithCurrency(currency string) *AccountBuilder {
	b.Currency = currency
	return b
}

// Build inserts the account into the database.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	createdAt := time.Now().UTC()
	query := `
		INSERT INTO accounts (account_id, user_id, account_name, account_type, current_balance, currency, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Name, b.Type, b.Balance, b.Currency, createdAt.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return model.Account{
		ID:             b.ID,
		UserID:         b.UserID,
		Name:           b.Name,
		Type:           b.Type,
		CurrentBalance: b.Balance,
		Currency:       b.Currency,
		CreatedAt:      createdAt,
	}
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	portfolio := testutil.NewPortfolio(user.ID).WithName("Retirement").Build(t, db)
type PortfolioBuilder struct {
	ID          string
	UserID      string
	Name        string
	Description string
}

// NewPortfolio creates a PortfolioBuilder for userID with sensible defaults.
func NewPortfolio(userID string) *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		UserID:      userID,
		Name:        MakeName("Test Portfolio"),
		Description: "Test description",
	}
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithDescription sets a custom description.
func (b *PortfolioBuilder) WithDescription(desc string) *PortfolioBuilder {
	b.Description = desc
	return b
}

// Build inserts the portfolio into the database.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	createdAt := time.Now().UTC()
	query := `
		INSERT INTO portfolios (portfolio_id, user_id, portfolio_name, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Name, b.Description, createdAt.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:          b.ID,
		UserID:      b.UserID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   createdAt,
	}
}

// CreatePortfolio is a shorthand for a portfolio with a fixed name.
func CreatePortfolio(t *testing.T, db *sql.DB, userID, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio(userID).WithName(name).Build(t, db)
}

// CreateAssetType inserts an asset type with the given name.
func CreateAssetType(t *testing.T, db *sql.DB, name string) model.AssetType {
	t.Helper()

	at := model.AssetType{ID: MakeID(), Name: name, Description: name + " holdings"}
	_, err := db.Exec(
		`INSERT INTO asset_types (asset_type_id, type_name, description) VALUES (?, ?, ?)`,
		at.ID, at.Name, at.Description,
	)
	if err != nil {
		t.Fatalf("Failed to create test asset type: %v", err)
	}
	return at
}

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	gold := testutil.NewAsset().WithName("Gold").WithPrice("70.00").WithUnitType("oz").Build(t, db)
type AssetBuilder struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	UnitType  string
}

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset() *AssetBuilder {
	return &AssetBuilder{
		ID:        MakeID(),
		Name:      MakeName("Asset"),
		UnitPrice: decimal.NewFromInt(100),
		UnitType:  "share",
	}
}

// WithName sets a custom name.
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.Name = name
	return b
}

// WithPrice sets the unit price from a decimal string.
func (b *AssetBuilder) WithPrice(price string) *AssetBuilder {
	b.UnitPrice = decimal.RequireFromString(price)
	return b
}

// WithUnitType sets the unit label, e.g. "oz" or "share".
func (b *AssetBuilder) WithUnitType(unitType string) *AssetBuilder {
	b.UnitType = unitType
	return b
}

// Build inserts the asset into the database.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	updatedAt := time.Now().UTC()
	query := `
		INSERT INTO assets (asset_id, name, unit_price, unit_type, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.UnitPrice, b.UnitType, updatedAt.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}

	return model.Asset{
		ID:        b.ID,
		Name:      b.Name,
		UnitPrice: b.UnitPrice,
		UnitType:  b.UnitType,
		UpdatedAt: updatedAt,
	}
}

// InvestmentBuilder provides a fluent interface for creating test investments.
//
// Example usage:
//
//	inv := testutil.NewInvestment(user.ID, portfolio.ID, assetType.ID, asset.ID).
//	    WithQuantity("5").
//	    WithCreatedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type InvestmentBuilder struct {
	ID          string
	UserID      string
	PortfolioID string
	AssetTypeID string
	AssetID     string
	Name        string
	Quantity    decimal.Decimal
	Initial     decimal.Decimal
	Currency    string
	CreatedAt   time.Time
}

// NewInvestment creates an InvestmentBuilder with sensible defaults.
func NewInvestment(userID, portfolioID, assetTypeID, assetID string) *InvestmentBuilder {
	return &InvestmentBuilder{
		ID:          MakeID(),
		UserID:      userID,
		PortfolioID: portfolioID,
		AssetTypeID: assetTypeID,
		AssetID:     assetID,
		Name:        MakeName("Investment"),
		Quantity:    decimal.NewFromInt(1),
		Initial:     decimal.NewFromInt(100),
		Currency:    "USD",
		CreatedAt:   time.Now().UTC(),
	}
}

// WithName sets a custom name.
func (b *InvestmentBuilder) WithName(name string) *InvestmentBuilder {
	b.Name = name
	return b
}

// WithQuantity sets the held quantity from a decimal string.
func (b *InvestmentBuilder) WithQuantity(quantity string) *InvestmentBuilder {
	b.Quantity = decimal.RequireFromString(quantity)
	return b
}

// WithCreatedAt sets the creation time used to order holdings.
func (b *InvestmentBuilder) WithCreatedAt(createdAt time.Time) *InvestmentBuilder {
	b.CreatedAt = createdAt.UTC()
	return b
}

// Build inserts the investment into the database.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	query := `
		INSERT INTO investments (
			investment_id, user_id, portfolio_id, asset_category_id, asset_id,
			investment_name, symbol, initial_investment_amount, purchase_date,
			quantity, currency, notes, version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, '', ?, ?, ?, ?, '', 0, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.PortfolioID, b.AssetTypeID, b.AssetID,
		b.Name, b.Initial, b.CreatedAt.Format(dateLayout),
		b.Quantity, b.Currency, b.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}

	return model.Investment{
		ID:                      b.ID,
		UserID:                  b.UserID,
		PortfolioID:             b.PortfolioID,
		AssetTypeID:             b.AssetTypeID,
		AssetID:                 b.AssetID,
		Name:                    b.Name,
		InitialInvestmentAmount: b.Initial,
		PurchaseDate:            b.CreatedAt.Truncate(24 * time.Hour),
		Quantity:                b.Quantity,
		Currency:                b.Currency,
		CreatedAt:               b.CreatedAt,
	}
}

// TransactionBuilder provides a fluent interface for creating test transactions.
type TransactionBuilder struct {
	ID           string
	UserID       string
	AccountID    string
	InvestmentID string
	AssetID      string
	Type         model.TransactionType
	Amount       decimal.Decimal
	Date         time.Time
}

// NewTransaction creates a Deposit TransactionBuilder for userID.
func NewTransaction(userID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:     MakeID(),
		UserID: userID,
		Type:   model.TransactionDeposit,
		Amount: decimal.NewFromInt(100),
		Date:   time.Now().UTC(),
	}
}

// WithAccount links the transaction to an account.
func (b *TransactionBuilder) WithAccount(accountID string) *TransactionBuilder {
	b.AccountID = accountID
	return b
}

// WithInvestment links the transaction to an investment.
func (b *TransactionBuilder) WithInvestment(investmentID string) *TransactionBuilder {
	b.InvestmentID = investmentID
	return b
}

// WithType sets the transaction type.
func (b *TransactionBuilder) WithType(txType model.TransactionType) *TransactionBuilder {
	b.Type = txType
	return b
}

// WithAmount sets the amount from a decimal string.
func (b *TransactionBuilder) WithAmount(amount string) *TransactionBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date.UTC()
	return b
}

// Build inserts the transaction into the database.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO transactions (
			transaction_id, user_id, account_id, investment_id, asset_id,
			transaction_type, amount, description, transaction_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, '', ?)
	`

	ref := func(id string) sql.NullString { return sql.NullString{String: id, Valid: id != ""} }
	_, err := db.Exec(query,
		b.ID, b.UserID, ref(b.AccountID), ref(b.InvestmentID), ref(b.AssetID),
		b.Type, b.Amount, b.Date.Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:           b.ID,
		UserID:       b.UserID,
		AccountID:    b.AccountID,
		InvestmentID: b.InvestmentID,
		AssetID:      b.AssetID,
		Type:         b.Type,
		Amount:       b.Amount,
		Date:         b.Date,
	}
}
