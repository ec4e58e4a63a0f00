package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceListFileName(t *testing.T) {
	parsed, err := ParsePriceListFileName("drogueria1_lista-marzo.CSV")
	require.NoError(t, err)
	assert.Equal(t, "DROGUERIA1", parsed.SupplierCode)
	assert.Equal(t, "lista-marzo", parsed.Label)

	for _, name := range []string{"lista.csv", "DROG_lista.xlsx", "_lista.csv", "DROG-1_lista.csv"} {
		_, err := ParsePriceListFileName(name)
		assert.Error(t, err, name)
	}
}

func TestParsePriceListCSV(t *testing.T) {
	input := "\ufeffSKU, available_stock, unit_price\n" +
		"ace500, 50, 8.00\n" +
		"IBU400,100,\"8,50\"\n" +
		",1,1\n" +
		"VIT-C,abc,2\n" +
		"NEG,-5,3\n"

	rows, rowErrors, err := ParsePriceListCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ACE500", rows[0].SKU)
	assert.Equal(t, 50, rows[0].AvailableStock)
	assert.Equal(t, "8.5", rows[1].UnitPrice.String())
	assert.Equal(t, 0, rows[2].AvailableStock)
	require.Len(t, rowErrors, 2)
	assert.Contains(t, rowErrors[0], "line 4")
	assert.Contains(t, rowErrors[1], "available_stock")
}

func TestParsePriceListCSV_BadHeader(t *testing.T) {
	_, _, err := ParsePriceListCSV(strings.NewReader("sku,price\nA,1\n"))
	assert.ErrorContains(t, err, "unit_price")

	_, _, err = ParsePriceListCSV(strings.NewReader(""))
	assert.Error(t, err)
}
