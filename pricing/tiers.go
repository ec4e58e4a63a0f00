package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"farmacia-compras/models"
)

// NormalizeTiers returns a sorted copy of tiers ready for allocation.
// A tier with a negative unit price is dropped and negative stock reads as zero.
// Equal prices are ordered by SourceID, then by original position.
func NormalizeTiers(tiers []models.PriceTier) []models.PriceTier {
	out := make([]models.PriceTier, 0, len(tiers))
	for _, tier := range tiers {
		if tier.UnitPrice.IsNegative() {
			continue
		}
		if tier.AvailableStock < 0 {
			tier.AvailableStock = 0
		}
		out = append(out, tier)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].UnitPrice.Cmp(out[j].UnitPrice); c != 0 {
			return c < 0
		}
		return out[i].SourceID < out[j].SourceID
	})
	return out
}

// CheapestAvailablePrice returns the lowest unit price among tiers that still have stock
func CheapestAvailablePrice(tiers []models.PriceTier) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, tier := range tiers {
		if tier.AvailableStock <= 0 || tier.UnitPrice.IsNegative() {
			continue
		}
		if !found || tier.UnitPrice.LessThan(best) {
			best = tier.UnitPrice
			found = true
		}
	}
	return best, found
}

// TotalStock sums the non-negative stock of all tiers
func TotalStock(tiers []models.PriceTier) int {
	total := 0
	for _, tier := range tiers {
		if tier.AvailableStock > 0 {
			total += tier.AvailableStock
		}
	}
	return total
}
