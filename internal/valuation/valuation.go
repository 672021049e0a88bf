// Package valuation derives the value of holdings and the wealth summary of a user.
// It is pure: callers load fresh data and pass it in, nothing is cached or stored.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// Fractional digits kept for money and for quantities and unit prices.
const (
	MoneyPlaces    int32 = 2
	QuantityPlaces int32 = 4
)

// Cost returns quantity × unitPrice rounded to money precision.
// Purchases debit exactly this amount, so a holding bought at the current
// price is worth what was paid for it.
func Cost(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(MoneyPlaces)
}

// CurrentValue values an investment at the asset's current unit price.
// A nil asset, or one that is not the investment's asset, is a data integrity error.
func CurrentValue(inv model.Investment, asset *model.Asset) (decimal.Decimal, error) {
	if asset == nil {
		return decimal.Zero, &apperrors.DataIntegrityError{Entity: "asset", ID: inv.AssetID, Err: apperrors.ErrAssetNotFound}
	}
	if asset.ID != inv.AssetID {
		return decimal.Zero, &apperrors.DataIntegrityError{Entity: "investment", ID: inv.ID}
	}
	return Cost(inv.Quantity, asset.UnitPrice), nil
}

// Summarize totals account balances and holding values.
// Empty inputs give zero totals; a holding without an asset fails the whole summary.
func Summarize(accounts []model.Account, holdings []model.Holding) (model.PortfolioSummary, error) {
	balance := decimal.Zero
	for _, a := range accounts {
		balance = balance.Add(a.CurrentBalance)
	}

	invested := decimal.Zero
	for _, h := range holdings {
		v, err := CurrentValue(h.Investment, h.Asset)
		if err != nil {
			return model.PortfolioSummary{}, err
		}
		invested = invested.Add(v)
	}

	return model.PortfolioSummary{
		TotalAccountBalance:  balance,
		TotalInvestmentValue: invested,
		TotalPortfolioValue:  balance.Add(invested),
	}, nil
}

// Detail builds the read model of a holding.
func Detail(h model.Holding) (model.InvestmentDetail, error) {
	value, err := CurrentValue(h.Investment, h.Asset)
	if err != nil {
		return model.InvestmentDetail{}, err
	}

	return model.InvestmentDetail{
		Investment:    h.Investment,
		PortfolioName: h.PortfolioName,
		AssetTypeName: h.AssetTypeName,
		AssetName:     h.Asset.Name,
		UnitPrice:     h.Asset.UnitPrice,
		UnitType:      h.Asset.UnitType,
		CurrentValue:  value,
	}, nil
}
