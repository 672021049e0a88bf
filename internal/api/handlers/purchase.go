package handlers

import (
	"net/http"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// PurchaseHandler exposes the buy operation.
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// Buy handles POST requests to purchase an asset with cash from an account.
// The debit, the holding update and the Buy transaction are committed together.
//
// Endpoint: POST /api/buy
// Request Body: BuyRequest (accountId, assetId, quantity, optional portfolioId and assetTypeId)
// Response: 201 Created with BuyResult
// Error: 400 Bad Request if validation fails or a new holding needs a portfolio and asset type
// Error: 403 Forbidden if the account or portfolio belongs to another user
// Error: 409 Conflict if the account or holding changed concurrently
// Error: 422 Unprocessable Entity if the balance does not cover the cost or a referenced row is missing
func (h *PurchaseHandler) Buy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.BuyRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	p := principal(r)
	result, err := h.purchaseService.Buy(r.Context(), p, model.BuyOrder{
		UserID:      p.UserID,
		AccountID:   req.AccountID,
		AssetID:     req.AssetID,
		Quantity:    req.Quantity,
		PortfolioID: req.PortfolioID,
		AssetTypeID: req.AssetTypeID,
	})
	if err != nil {
		respondError(w, r, err, "purchase failed")
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}
