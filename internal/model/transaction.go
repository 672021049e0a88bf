package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a log entry.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "Deposit"
	TransactionWithdrawal TransactionType = "Withdrawal"
	TransactionBuy        TransactionType = "Buy"
	TransactionSell       TransactionType = "Sell"
	TransactionDividend   TransactionType = "Dividend"
	TransactionInterest   TransactionType = "Interest"
	TransactionFee        TransactionType = "Fee"
	TransactionTransfer   TransactionType = "Transfer"
	TransactionOther      TransactionType = "Other"
)

// TransactionTypes lists every valid transaction type.
var TransactionTypes = []TransactionType{
	TransactionDeposit, TransactionWithdrawal, TransactionBuy, TransactionSell,
	TransactionDividend, TransactionInterest, TransactionFee, TransactionTransfer,
	TransactionOther,
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	for _, v := range TransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Transaction is an immutable log entry. Optional references are empty strings
// and optional quantities are nil.
type Transaction struct {
	ID                     string           `json:"id"`
	UserID                 string           `json:"userId"`
	AccountID              string           `json:"accountId,omitempty"`
	InvestmentID           string           `json:"investmentId,omitempty"`
	AssetID                string           `json:"assetId,omitempty"`
	Type                   TransactionType  `json:"type"`
	Amount                 decimal.Decimal  `json:"amount"`
	Quantity               *decimal.Decimal `json:"quantity,omitempty"`
	UnitPriceAtTransaction *decimal.Decimal `json:"unitPriceAtTransaction,omitempty"`
	Description            string           `json:"description"`
	Date                   time.Time        `json:"date"`
}
