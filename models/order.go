package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a group-purchase order
type OrderStatus string

const (
	OrderStatusDraft            OrderStatus = "draft"
	OrderStatusPendingApproval  OrderStatus = "pending_approval"
	OrderStatusApproved         OrderStatus = "approved"
	OrderStatusRejected         OrderStatus = "rejected"
	OrderStatusCounterOfferSent OrderStatus = "counter_offer_sent"
	OrderStatusProcessing       OrderStatus = "processing"
)

// OrderLineItem represents a product line inside an order.
// PublicPrice and Tiers are hydrated from the catalog and are not persisted with the line.
type OrderLineItem struct {
	ProductID   int64             `json:"productId"`
	ProductName string            `json:"productName,omitempty"`
	Quantity    int               `json:"quantity"`
	Selected    bool              `json:"selected"`
	Allocation  *AllocationResult `json:"allocation"`
	PublicPrice decimal.Decimal   `json:"-"`
	Tiers       []PriceTier       `json:"-"`
}

// Order represents a buyer order.
// TotalAmount is derived from the line items and recomputed on every change.
type Order struct {
	ID          int64           `json:"id"`
	BuyerID     string          `json:"buyerId"`
	Status      OrderStatus     `json:"status"`
	LineItems   []OrderLineItem `json:"lineItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OrderTotals is the derived summary of the selected line items
type OrderTotals struct {
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	TotalQuantitySelected int             `json:"totalQuantitySelected"`
	SelectedCount         int             `json:"selectedCount"`
}

// OrderResponse represents the response for a single order with its totals
// Example response:
// {
//   "id": 7,
//   "buyerId": "farmacia-central",
//   "status": "draft",
//   "lineItems": [
//     {
//       "productId": 12,
//       "quantity": 120,
//       "selected": true,
//       "allocation": {
//         "quantity": 120,
//         "averageUnitPrice": "8.2916666666666667",
//         "totalCost": "995",
//         "breakdown": [
//           {"sourceId": "S1", "unitPrice": "8", "quantityTaken": 50},
//           {"sourceId": "S2", "unitPrice": "8.5", "quantityTaken": 70}
//         ]
//       }
//     }
//   ],
//   "totalAmount": "995",
//   "totals": {"totalAmount": "995", "totalQuantitySelected": 120, "selectedCount": 1},
//   "displayTotal": "995.00"
// }
type OrderResponse struct {
	Order
	Totals       OrderTotals `json:"totals"`
	DisplayTotal string      `json:"displayTotal"`
}

// OrderListItem represents an order in a list response
type OrderListItem struct {
	ID          int64           `json:"id"`
	BuyerID     string          `json:"buyerId"`
	Status      OrderStatus     `json:"status"`
	LineCount   int             `json:"lineCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OrderListResponse represents the response for listing orders
type OrderListResponse struct {
	Orders []OrderListItem `json:"orders"`
}

// CreateOrderRequest represents the request body for creating a draft order
// Example: {"buyerId": "farmacia-central"}
type CreateOrderRequest struct {
	BuyerID string `json:"buyerId" validate:"required"`
}

// SetQuantityRequest represents the request body for editing a line quantity
// Example: {"productId": 12, "quantity": 120}
type SetQuantityRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=0,lte=2147483647"` // order_lines.quantity is INTEGER
}

// SelectLineRequest represents the request body for selecting or deselecting a line
// Example: {"productId": 12, "selected": true}
type SelectLineRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Selected  bool  `json:"selected"`
}

// OrderFilter narrows an order listing. Empty fields match everything.
type OrderFilter struct {
	BuyerID string
	Status  OrderStatus
}
