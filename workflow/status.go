// Package workflow holds the order status machine.
//
//	draft ──submit──▶ pending_approval ──▶ approved ──▶ processing
//	                        │     │            ▲
//	                        │     └──▶ counter_offer_sent
//	                        ▼                  │
//	                    rejected ◀─────────────┘
package workflow

import (
	"errors"
	"fmt"
	"time"

	"farmacia-compras/models"
)

// ErrInvalidTransition matches every *TransitionError
var ErrInvalidTransition = errors.New("invalid order status transition")

// TransitionError reports a status change the machine does not allow
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %q to %q", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusDraft: {models.OrderStatusPendingApproval},
	models.OrderStatusPendingApproval: {
		models.OrderStatusApproved,
		models.OrderStatusRejected,
		models.OrderStatusCounterOfferSent,
	},
	models.OrderStatusCounterOfferSent: {models.OrderStatusApproved, models.OrderStatusRejected},
	models.OrderStatusApproved:         {models.OrderStatusProcessing},
}

// AllowedTransitions lists the statuses reachable from status
func AllowedTransitions(status models.OrderStatus) []models.OrderStatus {
	out := make([]models.OrderStatus, len(transitions[status]))
	copy(out, transitions[status])
	return out
}

// CanTransition reports whether from -> to is a valid edge
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsEditable reports whether buyers may still change quantities and selection
func IsEditable(status models.OrderStatus) bool {
	return status == models.OrderStatusDraft
}

// TransitionOrder moves order to status or returns a *TransitionError leaving it untouched
func TransitionOrder(order *models.Order, to models.OrderStatus, now time.Time) error {
	if !CanTransition(order.Status, to) {
		return &TransitionError{From: order.Status, To: to}
	}
	order.Status = to
	order.UpdatedAt = now
	return nil
}
