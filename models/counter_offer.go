package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CounterOfferStatus is the lifecycle state of a counter-offer.
// Accepted, Rejected and Expired are terminal.
type CounterOfferStatus string

const (
	CounterOfferPending  CounterOfferStatus = "pending"
	CounterOfferAccepted CounterOfferStatus = "accepted"
	CounterOfferRejected CounterOfferStatus = "rejected"
	CounterOfferExpired  CounterOfferStatus = "expired"
)

// IsTerminal reports whether no further transitions are allowed
func (s CounterOfferStatus) IsTerminal() bool {
	return s != CounterOfferPending
}

// ProductSnapshot is a product line as it stands in the original or proposed order
type ProductSnapshot struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Reason    string          `json:"reason,omitempty"`
}

// ProductDelta describes how one product changes under a counter-offer
type ProductDelta struct {
	ProductID          int64           `json:"productId"`
	OriginalQuantity   int             `json:"originalQuantity"`
	ProposedQuantity   int             `json:"proposedQuantity"`
	OriginalUnitPrice  decimal.Decimal `json:"originalUnitPrice"`
	ProposedUnitPrice  decimal.Decimal `json:"proposedUnitPrice"`
	OriginalTotalPrice decimal.Decimal `json:"originalTotalPrice"`
	ProposedTotalPrice decimal.Decimal `json:"proposedTotalPrice"`
	Difference         decimal.Decimal `json:"difference"` // original - proposed
	Reason             string          `json:"reason,omitempty"`
}

// CounterOffer is an administrator's revision of a submitted order
type CounterOffer struct {
	ID             uuid.UUID          `json:"id"`
	OrderID        int64              `json:"orderId"`
	OriginalAmount decimal.Decimal    `json:"originalAmount"`
	ProposedAmount decimal.Decimal    `json:"proposedAmount"`
	ProductChanges []ProductDelta     `json:"productChanges"`
	Status         CounterOfferStatus `json:"status"`
	ExpiryDate     time.Time          `json:"expiryDate"`
	CreatedAt      time.Time          `json:"createdAt"`
	RespondedAt    *time.Time         `json:"respondedAt,omitempty"`
}

// CounterOfferResponse adds display values to a counter-offer
type CounterOfferResponse struct {
	CounterOffer
	Savings        string `json:"savings"`
	SavingsPercent string `json:"savingsPercent"`
}

// ProductChangeRequest is one administrator edit of a product line.
// Nil fields keep the original value.
type ProductChangeRequest struct {
	ProductID int64            `json:"productId" validate:"required,gt=0"`
	Quantity  *int             `json:"quantity,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

// CreateCounterOfferRequest represents the request body for proposing a counter-offer
// Example:
// {
//   "changes": [
//     {"productId": 12, "quantity": 45, "unitPrice": "21.00", "reason": "stock ajustado"}
//   ]
// }
type CreateCounterOfferRequest struct {
	Changes []ProductChangeRequest `json:"changes" validate:"required,min=1,dive"`
}
