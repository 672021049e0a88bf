package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the kind of a cash account.
type AccountType string

const (
	AccountSavings    AccountType = "Savings"
	AccountChecking   AccountType = "Checking"
	AccountBrokerage  AccountType = "Brokerage"
	AccountRetirement AccountType = "Retirement"
	AccountCreditCard AccountType = "CreditCard"
	AccountOther      AccountType = "Other"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{
	AccountSavings, AccountChecking, AccountBrokerage,
	AccountRetirement, AccountCreditCard, AccountOther,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, v := range AccountTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Account is a cash container owned by a user.
// Version increments on every balance write and guards concurrent debits.
type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Currency       string          `json:"currency"`
	Version        int64           `json:"-"`
	CreatedAt      time.Time       `json:"createdAt"`
}
