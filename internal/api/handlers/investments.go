package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// InvestmentHandler handles HTTP requests for holdings. Reads go through the
// valuation service so every holding is returned with its current value.
type InvestmentHandler struct {
	investmentService *service.InvestmentService
	valuationService  *service.ValuationService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *service.InvestmentService, valuationService *service.ValuationService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
		valuationService:  valuationService,
	}
}

// ValueResponse is the current market value of one holding.
type ValueResponse struct {
	InvestmentID string          `json:"investmentId"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

// Investments lists the caller's holdings with asset and valuation details.
//
// Endpoint: GET /api/investment
// Response: 200 OK with array of InvestmentDetail
func (h *InvestmentHandler) Investments(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.valuationService.Holdings(r.Context(), principal(r))
	if err != nil {
		respondError(w, r, err, "failed to retrieve investments")
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// Investment returns one holding with its valuation details.
//
// Endpoint: GET /api/investment/{uuid}
// Error: 404 Not Found if the investment doesn't exist
// Error: 422 Unprocessable Entity if its asset has disappeared
func (h *InvestmentHandler) Investment(w http.ResponseWriter, r *http.Request) {
	holding, err := h.valuationService.Holding(r.Context(), principal(r), chi.URLParam(r, "uuid"))
	if err != nil {
		respondError(w, r, err, "failed to retrieve investment")
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// Value returns quantity times the asset's current unit price, rounded to cents.
//
// Endpoint: GET /api/investment/{uuid}/value
func (h *InvestmentHandler) Value(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	value, err := h.valuationService.CurrentValue(r.Context(), principal(r), investmentID)
	if err != nil {
		respondError(w, r, err, "failed to value investment")
		return
	}

	response.RespondJSON(w, http.StatusOK, ValueResponse{
		InvestmentID: investmentID,
		CurrentValue: value,
	})
}

// CreateInvestment records a holding entered by hand. No cash moves.
//
// Endpoint: POST /api/investment
// Request Body: CreateInvestmentRequest
// Response: 201 Created with Investment
func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInvestmentRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	inv, err := h.investmentService.CreateInvestment(r.Context(), principal(r), req)
	if err != nil {
		respondError(w, r, err, "failed to create investment")
		return
	}

	response.RespondJSON(w, http.StatusCreated, inv)
}

// UpdateInvestment handles PUT requests. Omitted fields are left unchanged.
//
// Endpoint: PUT /api/investment/{uuid}
func (h *InvestmentHandler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateInvestmentRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	inv, err := h.investmentService.UpdateInvestment(r.Context(), principal(r), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondError(w, r, err, "failed to update investment")
		return
	}

	response.RespondJSON(w, http.StatusOK, inv)
}

// DeleteInvestment handles DELETE requests.
//
// Endpoint: DELETE /api/investment/{uuid}
// Error: 409 Conflict if transactions still reference the investment
func (h *InvestmentHandler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := h.investmentService.DeleteInvestment(r.Context(), principal(r), chi.URLParam(r, "uuid")); err != nil {
		respondError(w, r, err, "failed to delete investment")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
