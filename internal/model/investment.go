package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a user's holding of an asset inside a portfolio.
// Its value is never stored; see the valuation package.
type Investment struct {
	ID                      string          `json:"id"`
	UserID                  string          `json:"userId"`
	PortfolioID             string          `json:"portfolioId"`
	AssetTypeID             string          `json:"assetTypeId"`
	AssetID                 string          `json:"assetId"`
	Name                    string          `json:"name"`
	Symbol                  string          `json:"symbol"`
	InitialInvestmentAmount decimal.Decimal `json:"initialInvestmentAmount"`
	PurchaseDate            time.Time       `json:"purchaseDate"`
	Quantity                decimal.Decimal `json:"quantity"`
	Currency                string          `json:"currency"`
	Notes                   string          `json:"notes"`
	Version                 int64           `json:"-"`
	CreatedAt               time.Time       `json:"createdAt"`
}

// Holding pairs an investment with the asset it references, as loaded in one query.
// Asset is nil when the referenced row is missing.
type Holding struct {
	Investment    Investment
	Asset         *Asset
	PortfolioName string
	AssetTypeName string
}

// InvestmentDetail is the read model of an investment with its derived value.
type InvestmentDetail struct {
	Investment
	PortfolioName string          `json:"portfolioName"`
	AssetTypeName string          `json:"assetTypeName"`
	AssetName     string          `json:"assetName"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	UnitType      string          `json:"unitType"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
}
