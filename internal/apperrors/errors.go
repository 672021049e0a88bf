package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID or username does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrInvestmentNotFound indicates that an investment with the given ID does not exist.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAssetNotFound indicates that an asset with the given ID does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	ErrAssetTypeNotFound = errors.New("asset type not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientFunds is matched by every *InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrPortfolioInUse indicates that a portfolio still holds investments.
	ErrPortfolioInUse = errors.New("portfolio is in use")

	// ErrAccountInUse indicates that transactions still reference the account.
	ErrAccountInUse = errors.New("account is in use")

	// ErrInvestmentInUse indicates that transactions still reference the investment.
	ErrInvestmentInUse = errors.New("investment is in use")

	// ErrHoldingTargetRequired indicates that a purchase needs a new holding
	// but the request did not name the portfolio and asset type for it.
	ErrHoldingTargetRequired = errors.New("portfolio and asset type are required for a new holding")

	ErrCannotDeleteSelf = errors.New("users cannot delete their own account")
)

// Access errors.
var (
	// ErrUnauthorized indicates a missing, malformed or expired bearer token.
	ErrUnauthorized = errors.New("authentication required")

	// ErrInvalidCredentials indicates a login with an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrForbidden indicates that the principal may not touch the requested data.
	ErrForbidden = errors.New("operation not permitted")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieve = errors.New("failed to retrieve data")

	// ErrStore is matched by every *StoreError.
	ErrStore = errors.New("store operation failed")

	// ErrConcurrentModification indicates a row changed between read and write.
	ErrConcurrentModification = errors.New("record was modified concurrently")

	// ErrConstraintViolation indicates a foreign key or check constraint rejected a write.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Data integrity errors represent inconsistencies in stored data.
var (
	// ErrDataInconsistency is matched by every *DataIntegrityError.
	ErrDataInconsistency = errors.New("data inconsistency")
)

// ValidationError reports bad input per field. It is returned before any state changes.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InsufficientFundsError reports a purchase whose cost exceeds the account balance.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// DataIntegrityError reports a referenced entity that is missing or inconsistent.
// Err carries the entity sentinel, e.g. ErrAssetNotFound.
type DataIntegrityError struct {
	Entity string
	ID     string
	Err    error
}

func (e *DataIntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data integrity: %s %s: %v", e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("data integrity: %s %s", e.Entity, e.ID)
}

func (e *DataIntegrityError) Unwrap() error { return e.Err }

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataInconsistency
}

// StoreErrorKind classifies a failed store operation.
type StoreErrorKind int

const (
	StoreFailure StoreErrorKind = iota
	StoreDuplicate
	StoreConstraint
	StoreConflict
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreDuplicate:
		return "duplicate"
	case StoreConstraint:
		return "constraint"
	case StoreConflict:
		return "conflict"
	default:
		return "failure"
	}
}

// StoreError wraps a driver error with its classification so that callers
// can tell duplicates and conflicts from other failures.
type StoreError struct {
	Op   string
	Kind StoreErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrStore:
		return true
	case ErrDuplicateEntry:
		return e.Kind == StoreDuplicate
	case ErrConstraintViolation:
		return e.Kind == StoreConstraint
	case ErrConcurrentModification:
		return e.Kind == StoreConflict
	}
	return false
}
