package models

import "github.com/shopspring/decimal"

// PriceListFile is a supplier price list found in the shared Drive folder
type PriceListFile struct {
	DriveFileID  string `json:"driveFileId"`
	FileName     string `json:"fileName"`
	SupplierCode string `json:"supplierCode"`
	Label        string `json:"label"`
}

// PriceListRow is one parsed line of a supplier price list
type PriceListRow struct {
	SKU            string          `json:"sku"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	AvailableStock int             `json:"availableStock"`
}

// PriceListSyncResult summarizes a price list synchronization run
type PriceListSyncResult struct {
	Files    int      `json:"files"`
	Upserted int      `json:"upserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
