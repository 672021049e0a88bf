package validation

import (
	"strings"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/valuation"
)

func ValidateCreateInvestment(req request.CreateInvestmentRequest) error {
	errors := make(map[string]string)

	checkUUID(errors, "portfolioId", req.PortfolioID, true)
	checkUUID(errors, "assetTypeId", req.AssetTypeID, true)
	checkUUID(errors, "assetId", req.AssetID, true)
	checkName(errors, "name", req.Name, 100)

	if len(req.Symbol) > 20 {
		errors["symbol"] = "symbol must be 20 characters or less"
	}

	checkMoney(errors, "initialInvestmentAmount", req.InitialInvestmentAmount, false)

	if _, err := ParseDate(req.PurchaseDate); err != nil {
		errors["purchaseDate"] = err.Error()
	}

	if req.Quantity.IsNegative() {
		errors["quantity"] = "quantity cannot be negative"
	} else {
		checkPlaces(errors, "quantity", req.Quantity, valuation.QuantityPlaces)
	}

	checkCurrency(errors, "currency", req.Currency)

	return build(errors)
}

func ValidateUpdateInvestment(req request.UpdateInvestmentRequest) error {
	errors := make(map[string]string)

	if req.PortfolioID != nil {
		checkUUID(errors, "portfolioId", *req.PortfolioID, true)
	}
	if req.AssetTypeID != nil {
		checkUUID(errors, "assetTypeId", *req.AssetTypeID, true)
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be 100 characters or less"
		}
	}
	if req.Symbol != nil && len(*req.Symbol) > 20 {
		errors["symbol"] = "symbol must be 20 characters or less"
	}
	if req.InitialInvestmentAmount != nil {
		checkMoney(errors, "initialInvestmentAmount", *req.InitialInvestmentAmount, false)
	}
	if req.PurchaseDate != nil {
		if _, err := ParseDate(*req.PurchaseDate); err != nil {
			errors["purchaseDate"] = err.Error()
		}
	}
	if req.Quantity != nil {
		if req.Quantity.IsNegative() {
			errors["quantity"] = "quantity cannot be negative"
		} else {
			checkPlaces(errors, "quantity", *req.Quantity, valuation.QuantityPlaces)
		}
	}
	if req.Currency != nil {
		checkCurrency(errors, "currency", *req.Currency)
	}

	return build(errors)
}
