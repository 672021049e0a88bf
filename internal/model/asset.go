package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType is a global category label for investments.
type AssetType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Asset is a globally priced instrument. Prices are set by admins only.
type Asset struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitType  string          `json:"unitType"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
