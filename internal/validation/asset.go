package validation

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
)

func ValidateCreateAsset(req request.CreateAssetRequest) error {
	errors := make(map[string]string)

	checkName(errors, "name", req.Name, 100)
	checkPrice(errors, "unitPrice", req.UnitPrice)
	if len(req.UnitType) > 20 {
		errors["unitType"] = "unitType must be 20 characters or less"
	}

	return build(errors)
}

// ValidateAssetPrice rejects zero and negative prices.
func ValidateAssetPrice(price decimal.Decimal) error {
	errors := make(map[string]string)
	checkPrice(errors, "unitPrice", price)
	return build(errors)
}

func ValidateCreateAssetType(req request.CreateAssetTypeRequest) error {
	errors := make(map[string]string)

	checkName(errors, "name", req.Name, 50)
	if len(req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	return build(errors)
}
