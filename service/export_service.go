package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"farmacia-compras/models"
)

// WriteOrderAllocationCSV writes one row per allocation entry of every line.
// Amounts are raw decimals; lines without an allocation get a single row with empty source fields.
func WriteOrderAllocationCSV(w io.Writer, order *models.Order) error {
	writer := csv.NewWriter(w)
	header := []string{"order_id", "product_id", "product_name", "quantity", "selected", "source_id", "unit_price", "quantity_taken", "line_cost"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	orderID := strconv.FormatInt(order.ID, 10)
	for _, line := range order.LineItems {
		base := []string{
			orderID,
			strconv.FormatInt(line.ProductID, 10),
			line.ProductName,
			strconv.Itoa(line.Quantity),
			strconv.FormatBool(line.Selected),
		}

		if line.Allocation == nil || len(line.Allocation.Breakdown) == 0 {
			if err := writer.Write(append(base, "", "", "", "")); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
			continue
		}

		for _, entry := range line.Allocation.Breakdown {
			cost := entry.UnitPrice.Mul(decimal.NewFromInt(int64(entry.QuantityTaken)))
			row := append(append([]string{}, base...),
				entry.SourceID,
				entry.UnitPrice.String(),
				strconv.Itoa(entry.QuantityTaken),
				cost.String(),
			)
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteConsolidatedTiersCSV writes the consolidated tiers of a product.
// The sources column is only written for admin exports.
func WriteConsolidatedTiersCSV(w io.Writer, product *models.Product, tiers []models.ConsolidatedTier, admin bool) error {
	writer := csv.NewWriter(w)
	header := []string{"product_id", "sku", "unit_price", "total_stock"}
	if admin {
		header = append(header, "sources")
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, tier := range tiers {
		row := []string{
			strconv.FormatInt(product.ID, 10),
			product.SKU,
			tier.UnitPrice.String(),
			strconv.Itoa(tier.TotalStock),
		}
		if admin {
			row = append(row, strings.Join(tier.Sources, "|"))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
