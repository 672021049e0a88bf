package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/valuation"
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateCurrency checks that code is a known ISO 4217 currency.
func ValidateCurrency(code string) error {
	if len(code) != 3 || money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// ParseDate parses a "2006-01-02" or RFC3339 date.
func ParseDate(str string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", str)
	if err != nil {
		t, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q", str)
		}
	}
	return t.UTC(), nil
}

// build returns nil when no field failed.
func build(errors map[string]string) error {
	if len(errors) > 0 {
		return &apperrors.ValidationError{Fields: errors}
	}
	return nil
}

func checkName(errors map[string]string, field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		errors[field] = field + " is required"
	} else if len(value) > max {
		errors[field] = fmt.Sprintf("%s must be %d characters or less", field, max)
	}
}

func checkUUID(errors map[string]string, field, value string, required bool) {
	if value == "" {
		if required {
			errors[field] = field + " is required"
		}
		return
	}
	if err := ValidateUUID(value); err != nil {
		errors[field] = err.Error()
	}
}

func checkPlaces(errors map[string]string, field string, value decimal.Decimal, places int32) {
	if !value.Equal(value.Truncate(places)) {
		errors[field] = fmt.Sprintf("%s allows at most %d decimal places", field, places)
	}
}

// checkQuantity requires a positive quantity of at most four decimal places.
func checkQuantity(errors map[string]string, field string, q decimal.Decimal) {
	if !q.IsPositive() {
		errors[field] = field + " must be greater than zero"
		return
	}
	checkPlaces(errors, field, q, valuation.QuantityPlaces)
}

// checkPrice requires a positive unit price of at most four decimal places.
func checkPrice(errors map[string]string, field string, p decimal.Decimal) {
	if !p.IsPositive() {
		errors[field] = field + " must be greater than zero"
		return
	}
	checkPlaces(errors, field, p, valuation.QuantityPlaces)
}

func checkMoney(errors map[string]string, field string, amount decimal.Decimal, allowNegative bool) {
	if !allowNegative && amount.IsNegative() {
		errors[field] = field + " cannot be negative"
		return
	}
	checkPlaces(errors, field, amount, valuation.MoneyPlaces)
}

func checkCurrency(errors map[string]string, field, code string) {
	if err := ValidateCurrency(code); err != nil {
		errors[field] = err.Error()
	}
}
