package validation

import (
	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/valuation"
)

func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if !model.TransactionType(req.Type).Valid() {
		errors["type"] = "type is not a known transaction type"
	}

	checkUUID(errors, "accountId", req.AccountID, false)
	checkUUID(errors, "investmentId", req.InvestmentID, false)
	checkUUID(errors, "assetId", req.AssetID, false)

	checkMoney(errors, "amount", req.Amount, true)

	if req.Quantity != nil {
		checkPlaces(errors, "quantity", *req.Quantity, valuation.QuantityPlaces)
	}
	if req.UnitPrice != nil {
		checkPrice(errors, "unitPrice", *req.UnitPrice)
	}

	if len(req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	if req.Date != "" {
		if _, err := ParseDate(req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}

	return build(errors)
}

// ValidateBuyOrder checks everything about a purchase that does not need the store.
func ValidateBuyOrder(order model.BuyOrder) error {
	errors := make(map[string]string)

	if order.UserID == "" {
		errors["userId"] = "userId is required"
	}
	checkUUID(errors, "accountId", order.AccountID, true)
	checkUUID(errors, "assetId", order.AssetID, true)
	checkUUID(errors, "portfolioId", order.PortfolioID, false)
	checkUUID(errors, "assetTypeId", order.AssetTypeID, false)
	checkQuantity(errors, "quantity", order.Quantity)

	return build(errors)
}
