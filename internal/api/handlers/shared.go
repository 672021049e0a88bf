package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/auth"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T, rejecting unknown fields.
func parseJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	return req, nil
}

// principal returns the caller set by the auth middleware.
// Routes without the middleware get the zero principal, which can access nothing.
func principal(r *http.Request) model.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}

// statusFor maps a service error onto an HTTP status.
// Integrity errors are checked before not-found because they wrap the entity sentinel.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrCannotDeleteSelf):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrInsufficientFunds), errors.Is(err, apperrors.ErrDataInconsistency):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrPortfolioNotFound), errors.Is(err, apperrors.ErrInvestmentNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound), errors.Is(err, apperrors.ErrAssetNotFound),
		errors.Is(err, apperrors.ErrAssetTypeNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateEntry), errors.Is(err, apperrors.ErrConcurrentModification),
		errors.Is(err, apperrors.ErrAccountInUse), errors.Is(err, apperrors.ErrPortfolioInUse),
		errors.Is(err, apperrors.ErrInvestmentInUse), errors.Is(err, apperrors.ErrConstraintViolation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status statusFor picks.
// Validation errors carry their per-field messages as details.
func respondError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(message)
	}

	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		if errors.Is(err, apperrors.ErrHoldingTargetRequired) {
			message = apperrors.ErrHoldingTargetRequired.Error()
		}
		response.RespondError(w, status, message, vErr.Fields)
		return
	}

	response.RespondError(w, status, message, err.Error())
}

// formatMoney renders amount in the display format of currency, e.g. "$1,234.50".
// Unknown currencies fall back to the plain decimal.
func formatMoney(amount decimal.Decimal, currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, c.Code).Display()
}
