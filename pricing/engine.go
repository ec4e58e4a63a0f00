package pricing

import (
	"github.com/shopspring/decimal"

	"farmacia-compras/models"
)

// Allocate splits quantity across tiers, cheapest first, charging whatever the
// tiers cannot cover at publicPrice. It never fails: a non-positive quantity
// yields a null average and an empty breakdown.
func Allocate(tiers []models.PriceTier, publicPrice decimal.Decimal, quantity int) models.AllocationResult {
	if quantity <= 0 {
		return models.AllocationResult{
			Quantity:  0,
			TotalCost: decimal.Zero,
			Breakdown: []models.AllocationEntry{},
		}
	}

	ordered := NormalizeTiers(tiers)
	breakdown := make([]models.AllocationEntry, 0, len(ordered)+1)
	totalCost := decimal.Zero
	remaining := quantity

	for _, tier := range ordered {
		if remaining == 0 {
			break
		}
		taken := min(remaining, tier.AvailableStock)
		if taken <= 0 {
			continue
		}
		totalCost = totalCost.Add(tier.UnitPrice.Mul(decimal.NewFromInt(int64(taken))))
		breakdown = append(breakdown, models.AllocationEntry{
			SourceID:      tier.SourceID,
			UnitPrice:     tier.UnitPrice,
			QuantityTaken: taken,
		})
		remaining -= taken
	}

	if remaining > 0 {
		totalCost = totalCost.Add(publicPrice.Mul(decimal.NewFromInt(int64(remaining))))
		breakdown = append(breakdown, models.AllocationEntry{
			SourceID:      models.PublicSourceID,
			UnitPrice:     publicPrice,
			QuantityTaken: remaining,
		})
	}

	return models.AllocationResult{
		Quantity:         quantity,
		AverageUnitPrice: decimal.NewNullDecimal(totalCost.Div(decimal.NewFromInt(int64(quantity)))),
		TotalCost:        totalCost,
		Breakdown:        breakdown,
	}
}

// Engine applies the pricing policy around the allocation functions
type Engine struct {
	config Config
}

// NewEngine creates a pricing engine from a configuration file
func NewEngine(configPath string) (*Engine, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewEngineWithConfig(cfg), nil
}

// NewEngineWithConfig creates a pricing engine from an in-memory configuration
func NewEngineWithConfig(cfg Config) *Engine {
	return &Engine{config: cfg}
}

// Config returns the engine's pricing policy
func (e *Engine) Config() Config {
	return e.config
}

// Quote allocates quantity for a product and adds display values
func (e *Engine) Quote(product models.Product, quantity int) models.QuoteResponse {
	result := Allocate(product.Tiers, product.PublicPrice, quantity)

	resp := models.QuoteResponse{
		ProductID:   product.ID,
		Quantity:    result.Quantity,
		LineTotal:   e.DisplayAmount(e.DisplayPrice(result.TotalCost, product.VATRate)),
		VATIncluded: e.config.VATInclusiveDisplay,
		Allocation:  result,
	}
	if result.AverageUnitPrice.Valid {
		avg := e.DisplayPrice(result.AverageUnitPrice.Decimal, product.VATRate)
		resp.AverageUnitPrice = avg.StringFixed(e.config.AveragePriceScale)
	}
	return resp
}

// DisplayPrice applies the VAT display policy to a net amount.
// Catalog listings and quotes both go through it.
func (e *Engine) DisplayPrice(amount, vatRate decimal.Decimal) decimal.Decimal {
	if !e.config.VATInclusiveDisplay {
		return amount
	}
	return WithVAT(amount, vatRate)
}

// DisplayAmount rounds a money amount for presentation
func (e *Engine) DisplayAmount(amount decimal.Decimal) string {
	return amount.StringFixed(e.config.DisplayScale)
}

// WithVAT returns amount including the product VAT rate
func WithVAT(amount, vatRate decimal.Decimal) decimal.Decimal {
	if vatRate.IsZero() {
		return amount
	}
	return amount.Mul(decimal.NewFromInt(100).Add(vatRate)).Div(decimal.NewFromInt(100))
}
