package pricing

import (
	"sort"

	"farmacia-compras/models"
)

// Consolidate groups tiers that share exactly the same unit price.
// Groups come out in ascending price order and keep every contributing source
// in its original order. The input slice is not modified; the result is a view
// and must never be passed back to Allocate.
func Consolidate(tiers []models.PriceTier) []models.ConsolidatedTier {
	ordered := make([]models.PriceTier, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UnitPrice.LessThan(ordered[j].UnitPrice)
	})

	out := make([]models.ConsolidatedTier, 0, len(ordered))
	for _, tier := range ordered {
		if n := len(out); n == 0 || !out[n-1].UnitPrice.Equal(tier.UnitPrice) {
			out = append(out, models.ConsolidatedTier{UnitPrice: tier.UnitPrice})
		}
		group := &out[len(out)-1]
		group.TotalStock += tier.AvailableStock
		group.Sources = append(group.Sources, tier.SourceID)
		group.SourceStocks = append(group.SourceStocks, models.SourceStock{
			SourceID:       tier.SourceID,
			AvailableStock: tier.AvailableStock,
		})
	}
	return out
}

// BuyerView strips supplier identity from consolidated tiers
func BuyerView(tiers []models.ConsolidatedTier) []models.ConsolidatedTier {
	out := make([]models.ConsolidatedTier, len(tiers))
	for i, tier := range tiers {
		out[i] = models.ConsolidatedTier{
			UnitPrice:  tier.UnitPrice,
			TotalStock: tier.TotalStock,
		}
	}
	return out
}
