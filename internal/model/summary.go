package model

import "github.com/shopspring/decimal"

// PortfolioSummary is the three-figure overview of a user's wealth.
// TotalPortfolioValue always equals TotalAccountBalance + TotalInvestmentValue.
type PortfolioSummary struct {
	TotalAccountBalance  decimal.Decimal `json:"totalAccountBalance"`
	TotalInvestmentValue decimal.Decimal `json:"totalInvestmentValue"`
	TotalPortfolioValue  decimal.Decimal `json:"totalPortfolioValue"`
}

// BuyOrder is a request to purchase an asset with cash from an account.
// PortfolioID selects the holding; AssetTypeID is only needed when a new holding is created.
type BuyOrder struct {
	UserID      string
	AccountID   string
	AssetID     string
	Quantity    decimal.Decimal
	PortfolioID string
	AssetTypeID string
}

// BuyResult describes a committed purchase.
type BuyResult struct {
	Account        Account         `json:"account"`
	Investment     Investment      `json:"investment"`
	Transaction    Transaction     `json:"transaction"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	CreatedHolding bool            `json:"createdHolding"`
}

// Overview is the cross-user administrative view.
type Overview struct {
	Users        []User             `json:"users"`
	Accounts     []Account          `json:"accounts"`
	Investments  []InvestmentDetail `json:"investments"`
	Transactions []Transaction      `json:"transactions"`
	Assets       []Asset            `json:"assets"`
}
