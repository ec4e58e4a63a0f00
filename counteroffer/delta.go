// Package counteroffer computes administrator counter-offers and drives their lifecycle.
package counteroffer

import (
	"github.com/shopspring/decimal"

	"farmacia-compras/models"
)

// MoneyScale is the scale of every stored counter-offer total. It matches the
// NUMERIC(18, 4) amount columns so product_changes and the amounts agree after a reload.
const MoneyScale int32 = 4

var hundred = decimal.NewFromInt(100)

// ComputeDelta compares two snapshots of the same order.
// Only products present in both are compared, in the original order; a product
// repeated in proposed uses its last entry. Line totals are rounded to MoneyScale
// before they are summed. The returned offer is Pending and carries no identity
// or expiry yet.
func ComputeDelta(original, proposed []models.ProductSnapshot) models.CounterOffer {
	byProduct := make(map[int64]models.ProductSnapshot, len(proposed))
	for _, p := range proposed {
		byProduct[p.ProductID] = p
	}

	offer := models.CounterOffer{
		OriginalAmount: decimal.Zero,
		ProposedAmount: decimal.Zero,
		ProductChanges: make([]models.ProductDelta, 0, len(original)),
		Status:         models.CounterOfferPending,
	}

	for _, o := range original {
		p, ok := byProduct[o.ProductID]
		if !ok {
			continue
		}
		originalTotal := lineTotal(o)
		proposedTotal := lineTotal(p)

		offer.ProductChanges = append(offer.ProductChanges, models.ProductDelta{
			ProductID:          o.ProductID,
			OriginalQuantity:   o.Quantity,
			ProposedQuantity:   p.Quantity,
			OriginalUnitPrice:  o.UnitPrice,
			ProposedUnitPrice:  p.UnitPrice,
			OriginalTotalPrice: originalTotal,
			ProposedTotalPrice: proposedTotal,
			Difference:         originalTotal.Sub(proposedTotal),
			Reason:             p.Reason,
		})
		offer.OriginalAmount = offer.OriginalAmount.Add(originalTotal)
		offer.ProposedAmount = offer.ProposedAmount.Add(proposedTotal)
	}
	return offer
}

func lineTotal(s models.ProductSnapshot) decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity))).Round(MoneyScale)
}

// Savings is OriginalAmount - ProposedAmount; negative when the offer costs more
func Savings(offer models.CounterOffer) decimal.Decimal {
	return offer.OriginalAmount.Sub(offer.ProposedAmount)
}

// SavingsPercent is the savings relative to the original amount, 0 when that amount is 0
func SavingsPercent(offer models.CounterOffer) decimal.Decimal {
	if offer.OriginalAmount.IsZero() {
		return decimal.Zero
	}
	return Savings(offer).Div(offer.OriginalAmount).Mul(hundred)
}

// OriginalSnapshot captures the selected lines of an order at their blended unit price
func OriginalSnapshot(order models.Order) []models.ProductSnapshot {
	out := make([]models.ProductSnapshot, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		if !item.Selected || item.Quantity <= 0 {
			continue
		}
		out = append(out, models.ProductSnapshot{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice(item),
		})
	}
	return out
}

func unitPrice(item models.OrderLineItem) decimal.Decimal {
	if a := item.Allocation; a != nil && a.AverageUnitPrice.Valid {
		return a.AverageUnitPrice.Decimal
	}
	return item.PublicPrice
}

// ApplyChanges builds the proposed snapshot from administrator edits.
// Products without an edit keep their original quantity and price.
func ApplyChanges(original []models.ProductSnapshot, changes []models.ProductChangeRequest) []models.ProductSnapshot {
	edits := make(map[int64]models.ProductChangeRequest, len(changes))
	for _, c := range changes {
		edits[c.ProductID] = c
	}

	out := make([]models.ProductSnapshot, len(original))
	for i, o := range original {
		out[i] = o
		out[i].Reason = ""
		c, ok := edits[o.ProductID]
		if !ok {
			continue
		}
		if c.Quantity != nil {
			out[i].Quantity = max(*c.Quantity, 0)
		}
		if c.UnitPrice != nil && !c.UnitPrice.IsNegative() {
			out[i].UnitPrice = *c.UnitPrice
		}
		out[i].Reason = c.Reason
	}
	return out
}
