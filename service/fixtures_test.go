package service

import (
	"time"

	"github.com/shopspring/decimal"

	"farmacia-compras/models"
	"farmacia-compras/pricing"
)

var fixedNow = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testEngine() *pricing.Engine {
	return pricing.NewEngineWithConfig(pricing.DefaultConfig())
}

func testCatalog() []models.Product {
	return []models.Product{
		{
			ID:          1,
			SKU:         "ACE500",
			Name:        "Acetaminofén 500mg",
			PublicPrice: d("12.00"),
			VATRate:     d("19"),
			Tiers: []models.PriceTier{
				{SourceID: "S1", UnitPrice: d("8.00"), AvailableStock: 50},
				{SourceID: "S2", UnitPrice: d("8.50"), AvailableStock: 100},
				{SourceID: "S3", UnitPrice: d("8.00"), AvailableStock: 10},
			},
		},
		{
			ID:          2,
			SKU:         "IBU400",
			Name:        "Ibuprofeno 400mg",
			PublicPrice: d("9.90"),
			Tiers:       []models.PriceTier{},
		},
	}
}
