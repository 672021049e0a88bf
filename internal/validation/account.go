package validation

import (
	"strings"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// ValidateCreateAccount checks a new account. Only credit cards may start below zero.
func ValidateCreateAccount(req request.CreateAccountRequest) error {
	errors := make(map[string]string)

	checkName(errors, "name", req.Name, 100)

	accountType := model.AccountType(req.Type)
	if !accountType.Valid() {
		errors["type"] = "type must be one of Savings, Checking, Brokerage, Retirement, CreditCard, Other"
	}

	checkMoney(errors, "balance", req.Balance, accountType == model.AccountCreditCard)
	checkCurrency(errors, "currency", req.Currency)

	return build(errors)
}

// ValidateUpdateAccount checks the provided fields against the stored account type.
func ValidateUpdateAccount(req request.UpdateAccountRequest, accountType model.AccountType) error {
	errors := make(map[string]string)

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be 100 characters or less"
		}
	}

	if req.Balance != nil {
		checkMoney(errors, "balance", *req.Balance, accountType == model.AccountCreditCard)
	}

	return build(errors)
}
