package models

import "github.com/shopspring/decimal"

// AllocationEntry is one row of an allocation breakdown
type AllocationEntry struct {
	SourceID      string          `json:"sourceId"` // supplier code or PUBLIC
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	QuantityTaken int             `json:"quantityTaken"`
}

// AllocationResult represents how a requested quantity is split across tiers.
// AverageUnitPrice is null when the requested quantity is not positive.
// TotalCost is the unrounded accumulated cost of the breakdown.
type AllocationResult struct {
	Quantity         int                 `json:"quantity"`
	AverageUnitPrice decimal.NullDecimal `json:"averageUnitPrice"`
	TotalCost        decimal.Decimal     `json:"totalCost"`
	Breakdown        []AllocationEntry   `json:"breakdown"`
}

// SourceStock is a single supplier's contribution to a consolidated tier
type SourceStock struct {
	SourceID       string `json:"sourceId"`
	AvailableStock int    `json:"availableStock"`
}

// ConsolidatedTier groups supplier tiers sharing the same unit price.
// Sources and SourceStocks are only populated for administrator views.
type ConsolidatedTier struct {
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalStock   int             `json:"totalStock"`
	Sources      []string        `json:"sources,omitempty"`
	SourceStocks []SourceStock   `json:"sourceStocks,omitempty"`
}

// QuoteResponse represents the response for a single product quote
// Example response:
// {
//   "productId": 12,
//   "quantity": 120,
//   "averageUnitPrice": "8.2917",
//   "lineTotal": "995.00",
//   "vatIncluded": false,
//   "allocation": { ... }
// }
type QuoteResponse struct {
	ProductID        int64            `json:"productId"`
	Quantity         int              `json:"quantity"`
	AverageUnitPrice string           `json:"averageUnitPrice,omitempty"` // display value
	LineTotal        string           `json:"lineTotal"`                  // display value
	VATIncluded      bool             `json:"vatIncluded"`
	Allocation       AllocationResult `json:"allocation"`
}
