package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// AssetHandler serves the asset catalog. Reads are open to every
// authenticated user; writes are mounted under the admin routes.
type AssetHandler struct {
	assetService *service.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// Assets handles GET requests for the asset catalog.
//
// Endpoint: GET /api/asset
func (h *AssetHandler) Assets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetService.GetAssets(r.Context())
	if err != nil {
		respondError(w, r, err, "failed to retrieve assets")
		return
	}

	response.RespondJSON(w, http.StatusOK, assets)
}

// Asset handles GET requests for one asset.
//
// Endpoint: GET /api/asset/{uuid}
// Error: 404 Not Found if the asset doesn't exist
func (h *AssetHandler) Asset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetService.GetAsset(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondError(w, r, err, "failed to retrieve asset")
		return
	}

	response.RespondJSON(w, http.StatusOK, asset)
}

// AssetTypes handles GET requests for the asset type catalog.
//
// Endpoint: GET /api/asset-type
func (h *AssetHandler) AssetTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.assetService.GetAssetTypes(r.Context())
	if err != nil {
		respondError(w, r, err, "failed to retrieve asset types")
		return
	}

	response.RespondJSON(w, http.StatusOK, types)
}

// CreateAsset adds an asset to the catalog.
//
// Endpoint: POST /api/admin/asset
// Request Body: CreateAssetRequest (name, unitPrice, unitType)
// Response: 201 Created with Asset
// Error: 403 Forbidden for non-admins
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAssetRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	asset, err := h.assetService.CreateAsset(r.Context(), principal(r), req)
	if err != nil {
		respondError(w, r, err, "failed to create asset")
		return
	}

	response.RespondJSON(w, http.StatusCreated, asset)
}

// UpdateAssetPrice sets the unit price that every holding of the asset is valued at.
//
// Endpoint: PUT /api/admin/asset/{uuid}/price
// Request Body: UpdateAssetPriceRequest (unitPrice)
// Response: 200 OK with Asset
// Error: 400 Bad Request if the price is not positive
func (h *AssetHandler) UpdateAssetPrice(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateAssetPriceRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	asset, err := h.assetService.UpdateAssetPrice(r.Context(), principal(r), chi.URLParam(r, "uuid"), req.UnitPrice)
	if err != nil {
		respondError(w, r, err, "failed to update asset price")
		return
	}

	response.RespondJSON(w, http.StatusOK, asset)
}

// CreateAssetType handles POST requests.
//
// Endpoint: POST /api/admin/asset-type
func (h *AssetHandler) CreateAssetType(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAssetTypeRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	at, err := h.assetService.CreateAssetType(r.Context(), principal(r), req)
	if err != nil {
		respondError(w, r, err, "failed to create asset type")
		return
	}

	response.RespondJSON(w, http.StatusCreated, at)
}
