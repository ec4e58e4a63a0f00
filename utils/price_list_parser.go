package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"farmacia-compras/models"
)

var priceListNameRegex = regexp.MustCompile(`(?i)^([a-z0-9]+)_([^/]+)\.csv$`)

var priceListColumns = []string{"sku", "unit_price", "available_stock"}

// ParsePriceListFileName parses a supplier price list filename following the pattern:
// SUPPLIER_LABEL.csv
// Example: DROGUERIA1_lista-marzo.csv
func ParsePriceListFileName(filename string) (*models.PriceListFile, error) {
	matches := priceListNameRegex.FindStringSubmatch(strings.TrimSpace(filename))
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid price list filename %q: expected SUPPLIER_LABEL.csv", filename)
	}
	return &models.PriceListFile{
		FileName:     filename,
		SupplierCode: strings.ToUpper(matches[1]),
		Label:        matches[2],
	}, nil
}

// ParsePriceListCSV reads a price list with the header sku,unit_price,available_stock
// (any column order). Rows that cannot be parsed are skipped and described in the
// returned row errors; only a broken file or header is a hard error.
func ParsePriceListCSV(r io.Reader) ([]models.PriceListRow, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("price list is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read price list header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range priceListColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("price list header is missing column %q", col)
		}
	}

	rows := make([]models.PriceListRow, 0)
	var rowErrors []string
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read price list line %d: %w", line, err)
		}

		row, err := parsePriceListRecord(record, index)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		rows = append(rows, row)
	}

	return rows, rowErrors, nil
}

func parsePriceListRecord(record []string, index map[string]int) (models.PriceListRow, error) {
	field := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	sku := strings.ToUpper(field("sku"))
	if sku == "" {
		return models.PriceListRow{}, fmt.Errorf("sku is empty")
	}

	rawPrice := field("unit_price")
	if strings.Contains(rawPrice, ",") && !strings.Contains(rawPrice, ".") {
		rawPrice = strings.Replace(rawPrice, ",", ".", 1)
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return models.PriceListRow{}, fmt.Errorf("invalid unit_price %q", field("unit_price"))
	}
	if price.IsNegative() {
		return models.PriceListRow{}, fmt.Errorf("unit_price cannot be negative")
	}

	stock, err := strconv.Atoi(field("available_stock"))
	if err != nil {
		return models.PriceListRow{}, fmt.Errorf("invalid available_stock %q", field("available_stock"))
	}
	if stock < 0 {
		stock = 0
	}

	return models.PriceListRow{SKU: sku, UnitPrice: price, AvailableStock: stock}, nil
}
