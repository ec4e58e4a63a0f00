package counteroffer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmacia-compras/models"
	"farmacia-compras/workflow"
)

var (
	ErrOfferNotPending = errors.New("counter-offer is no longer pending")
	ErrOfferExpired    = errors.New("counter-offer has expired")
	ErrOrderMismatch   = errors.New("counter-offer does not belong to this order")
	ErrNoChanges       = errors.New("counter-offer has no products in common with the order")
)

// Propose computes a new pending offer for order and stamps its identity and expiry
func Propose(order models.Order, changes []models.ProductChangeRequest, now time.Time, validity time.Duration) (models.CounterOffer, error) {
	original := OriginalSnapshot(order)
	offer := ComputeDelta(original, ApplyChanges(original, changes))
	if len(offer.ProductChanges) == 0 {
		return models.CounterOffer{}, ErrNoChanges
	}

	offer.ID = uuid.New()
	offer.OrderID = order.ID
	offer.CreatedAt = now
	offer.ExpiryDate = now.Add(validity)
	return offer, nil
}

// Refresh expires a pending offer whose expiry date has passed.
// It reports whether the status changed.
func Refresh(offer *models.CounterOffer, now time.Time) bool {
	if offer.Status != models.CounterOfferPending || !now.After(offer.ExpiryDate) {
		return false
	}
	offer.Status = models.CounterOfferExpired
	return true
}

func ensurePending(offer *models.CounterOffer, order *models.Order, target models.OrderStatus, now time.Time) error {
	if offer.OrderID != order.ID {
		return ErrOrderMismatch
	}
	Refresh(offer, now)
	switch offer.Status {
	case models.CounterOfferPending:
	case models.CounterOfferExpired:
		return ErrOfferExpired
	default:
		return fmt.Errorf("%w: status is %s", ErrOfferNotPending, offer.Status)
	}
	if order.Status != models.OrderStatusCounterOfferSent {
		return &workflow.TransitionError{From: order.Status, To: target}
	}
	return nil
}

// Accept approves the order at the proposed amount
func Accept(offer *models.CounterOffer, order *models.Order, now time.Time) error {
	if err := ensurePending(offer, order, models.OrderStatusApproved, now); err != nil {
		return err
	}
	if err := workflow.TransitionOrder(order, models.OrderStatusApproved, now); err != nil {
		return err
	}
	order.TotalAmount = offer.ProposedAmount
	offer.Status = models.CounterOfferAccepted
	offer.RespondedAt = &now
	return nil
}

// Reject rejects the order and closes the offer
func Reject(offer *models.CounterOffer, order *models.Order, now time.Time) error {
	if err := ensurePending(offer, order, models.OrderStatusRejected, now); err != nil {
		return err
	}
	if err := workflow.TransitionOrder(order, models.OrderStatusRejected, now); err != nil {
		return err
	}
	offer.Status = models.CounterOfferRejected
	offer.RespondedAt = &now
	return nil
}
