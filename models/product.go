package models

import "github.com/shopspring/decimal"

// PublicSourceID marks the allocation entry charged at the product's public (list) price
const PublicSourceID = "PUBLIC"

// PriceTier is one supplier's offer for a product
type PriceTier struct {
	SourceID       string          `json:"sourceId"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	AvailableStock int             `json:"availableStock"`
}

// Product represents a catalog product with its supplier tiers
type Product struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	PublicPrice decimal.Decimal `json:"publicPrice"`
	VATRate     decimal.Decimal `json:"vatRate"` // percent, e.g. 19
	ImageFileID string          `json:"imageFileId,omitempty"`
	Tiers       []PriceTier     `json:"tiers"`
}

// ProductListItem is the buyer-facing catalog row.
// Tiers are consolidated and stripped of supplier identity.
type ProductListItem struct {
	ID          int64              `json:"id"`
	SKU         string             `json:"sku"`
	Name        string             `json:"name"`
	PublicPrice decimal.Decimal    `json:"publicPrice"`
	VATRate     decimal.Decimal    `json:"vatRate"`
	BestPrice   decimal.Decimal    `json:"bestPrice"`
	TotalStock  int                `json:"totalStock"`
	Tiers       []ConsolidatedTier `json:"tiers"`
	ImageURL    string             `json:"imageUrl,omitempty"`
}

// ProductListResponse represents the response for listing catalog products
type ProductListResponse struct {
	Products []ProductListItem `json:"products"`
}

// CreateProductRequest is used by the seed command and admin tooling
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	PublicPrice decimal.Decimal `json:"publicPrice"`
	VATRate     decimal.Decimal `json:"vatRate"`
	ImageFileID string          `json:"imageFileId,omitempty"`
}
