// Package request holds the JSON bodies accepted by the API and the CLI.
// Update requests use pointer fields: nil means "leave unchanged".
package request

import "github.com/shopspring/decimal"

// RegisterRequest represents the request body for creating a user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateAccountRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type UpdateAccountRequest struct {
	Name    *string          `json:"name,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

type CreatePortfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdatePortfolioRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateInvestmentRequest records a holding entered by hand, without moving cash.
type CreateInvestmentRequest struct {
	PortfolioID             string          `json:"portfolioId"`
	AssetTypeID             string          `json:"assetTypeId"`
	AssetID                 string          `json:"assetId"`
	Name                    string          `json:"name"`
	Symbol                  string          `json:"symbol"`
	InitialInvestmentAmount decimal.Decimal `json:"initialInvestmentAmount"`
	PurchaseDate            string          `json:"purchaseDate"`
	Quantity                decimal.Decimal `json:"quantity"`
	Currency                string          `json:"currency"`
	Notes                   string          `json:"notes"`
}

type UpdateInvestmentRequest struct {
	PortfolioID             *string          `json:"portfolioId,omitempty"`
	AssetTypeID             *string          `json:"assetTypeId,omitempty"`
	Name                    *string          `json:"name,omitempty"`
	Symbol                  *string          `json:"symbol,omitempty"`
	InitialInvestmentAmount *decimal.Decimal `json:"initialInvestmentAmount,omitempty"`
	PurchaseDate            *string          `json:"purchaseDate,omitempty"`
	Quantity                *decimal.Decimal `json:"quantity,omitempty"`
	Currency                *string          `json:"currency,omitempty"`
	Notes                   *string          `json:"notes,omitempty"`
}

// CreateTransactionRequest appends a manual log entry. It never moves money.
type CreateTransactionRequest struct {
	AccountID    string           `json:"accountId"`
	InvestmentID string           `json:"investmentId"`
	AssetID      string           `json:"assetId"`
	Type         string           `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
	Description  string           `json:"description"`
	Date         string           `json:"date"`
}

// BuyRequest purchases an asset with cash from an account.
type BuyRequest struct {
	AccountID   string          `json:"accountId"`
	AssetID     string          `json:"assetId"`
	Quantity    decimal.Decimal `json:"quantity"`
	PortfolioID string          `json:"portfolioId"`
	AssetTypeID string          `json:"assetTypeId"`
}

type CreateAssetRequest struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitType  string          `json:"unitType"`
}

type UpdateAssetPriceRequest struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreateAssetTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
