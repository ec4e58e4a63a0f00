package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"farmacia-compras/models"
)

// ErrZeroQuantitySelection is returned when selecting a line that has no quantity
var ErrZeroQuantitySelection = errors.New("cannot select a line item with zero quantity")

// NewLineItem creates an empty, unselected line for a product
func NewLineItem(product models.Product) models.OrderLineItem {
	return models.OrderLineItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		PublicPrice: product.PublicPrice,
		Tiers:       product.Tiers,
	}
}

// SetQuantity re-allocates the line for a new quantity.
// Negative quantities are read as zero, and a zero quantity deselects the line.
func SetQuantity(item *models.OrderLineItem, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	item.Quantity = quantity
	result := Allocate(item.Tiers, item.PublicPrice, quantity)
	item.Allocation = &result
	if quantity == 0 {
		item.Selected = false
	}
}

// Select changes the selection flag. Selecting a zero-quantity line is rejected
// and leaves the line untouched.
func Select(item *models.OrderLineItem, selected bool) error {
	if selected && item.Quantity <= 0 {
		return ErrZeroQuantitySelection
	}
	item.Selected = selected
	return nil
}

// LineAmount is what a line contributes to the order total.
// Without an allocation it optimistically prices the whole quantity at the
// cheapest tier that has stock, and only uses the public price when none has.
func LineAmount(item models.OrderLineItem) decimal.Decimal {
	qty := decimal.NewFromInt(int64(item.Quantity))
	if a := item.Allocation; a != nil && a.AverageUnitPrice.Valid {
		if a.Quantity == item.Quantity {
			return a.TotalCost
		}
		return a.AverageUnitPrice.Decimal.Mul(qty)
	}

	price, ok := CheapestAvailablePrice(item.Tiers)
	if !ok {
		price = item.PublicPrice
	}
	return price.Mul(qty)
}

// RecomputeTotals derives the order totals from the selected lines
func RecomputeTotals(items []models.OrderLineItem) models.OrderTotals {
	totals := models.OrderTotals{TotalAmount: decimal.Zero}
	for _, item := range items {
		if !item.Selected || item.Quantity <= 0 {
			continue
		}
		totals.TotalAmount = totals.TotalAmount.Add(LineAmount(item))
		totals.TotalQuantitySelected += item.Quantity
		totals.SelectedCount++
	}
	return totals
}

// FindLine returns the line for productID, or nil
func FindLine(items []models.OrderLineItem, productID int64) *models.OrderLineItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}
