package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolios lists the caller's portfolios.
//
// Endpoint: GET /api/portfolio
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.GetPortfolios(r.Context(), principal(r))
	if err != nil {
		respondError(w, r, err, "failed to retrieve portfolios")
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// Portfolio returns one portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), principal(r), chi.URLParam(r, "uuid"))
	if err != nil {
		respondError(w, r, err, "failed to retrieve portfolio")
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// CreatePortfolio handles POST requests to create a portfolio.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (name, optional description)
// Response: 201 Created with Portfolio
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), principal(r), req)
	if err != nil {
		respondError(w, r, err, "failed to create portfolio")
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

func (h *PortfolioHandler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdatePortfolioRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(r.Context(), principal(r), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondError(w, r, err, "failed to update portfolio")
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// DeletePortfolio handles DELETE requests.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Error: 409 Conflict if the portfolio still holds investments
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.DeletePortfolio(r.Context(), principal(r), chi.URLParam(r, "uuid")); err != nil {
		respondError(w, r, err, "failed to delete portfolio")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
