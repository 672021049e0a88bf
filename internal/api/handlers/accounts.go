package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// AccountHandler handles HTTP requests for account endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the accountService.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler with the provided service dependency.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// AccountResponse is an account with its balance formatted for display.
type AccountResponse struct {
	model.Account
	FormattedBalance string `json:"formattedBalance"`
}

func newAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		Account:          a,
		FormattedBalance: formatMoney(a.CurrentBalance, a.Currency),
	}
}

// Accounts handles GET requests to list the caller's accounts.
//
// Endpoint: GET /api/account
// Response: 200 OK with array of AccountResponse
func (h *AccountHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.GetAccounts(r.Context(), principal(r))
	if err != nil {
		respondError(w, r, err, "failed to retrieve accounts")
		return
	}

	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = newAccountResponse(a)
	}
	response.RespondJSON(w, http.StatusOK, out)
}

// Account handles GET requests for one account.
//
// Endpoint: GET /api/account/{uuid}
// Error: 403 Forbidden if the account belongs to someone else
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) Account(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.GetAccount(r.Context(), principal(r), chi.URLParam(r, "uuid"))
	if err != nil {
		respondError(w, r, err, "failed to retrieve account")
		return
	}

	response.RespondJSON(w, http.StatusOK, newAccountResponse(account))
}

// CreateAccount handles POST requests to open an account.
//
// Endpoint: POST /api/account
// Request Body: CreateAccountRequest (name, type, balance, currency)
// Response: 201 Created with AccountResponse
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the caller already has an account with that name
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAccountRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), principal(r), req)
	if err != nil {
		respondError(w, r, err, "failed to create account")
		return
	}

	response.RespondJSON(w, http.StatusCreated, newAccountResponse(account))
}

// UpdateAccount handles PUT requests to rename an account or set its balance.
//
// Endpoint: PUT /api/account/{uuid}
// Request Body: UpdateAccountRequest (all fields optional)
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateAccountRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	account, err := h.accountService.UpdateAccount(r.Context(), principal(r), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondError(w, r, err, "failed to update account")
		return
	}

	response.RespondJSON(w, http.StatusOK, newAccountResponse(account))
}

// DeleteAccount handles DELETE requests.
//
// Endpoint: DELETE /api/account/{uuid}
// Response: 204 No Content
// Error: 409 Conflict if transactions still reference the account
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accountService.DeleteAccount(r.Context(), principal(r), chi.URLParam(r, "uuid")); err != nil {
		respondError(w, r, err, "failed to delete account")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
