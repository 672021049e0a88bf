package handlers

import (
	"net/http"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// SummaryHandler serves the portfolio summary.
type SummaryHandler struct {
	valuationService *service.ValuationService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(valuationService *service.ValuationService) *SummaryHandler {
	return &SummaryHandler{
		valuationService: valuationService,
	}
}

// Summary returns the total account balance, total investment value and their sum.
// Admins may pass ?userId= to read another user's summary.
//
// Endpoint: GET /api/summary
// Response: 200 OK with PortfolioSummary
// Error: 403 Forbidden if userId names another user and the caller is not an admin
// Error: 422 Unprocessable Entity if a holding references a missing asset
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	p := principal(r)

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = p.UserID
	}

	summary, err := h.valuationService.PortfolioSummary(r.Context(), p, userID)
	if err != nil {
		respondError(w, r, err, "failed to compute portfolio summary")
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
