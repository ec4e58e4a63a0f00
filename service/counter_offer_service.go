package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmacia-compras/counteroffer"
	"farmacia-compras/events"
	"farmacia-compras/logger"
	"farmacia-compras/metric"
	"farmacia-compras/models"
	"farmacia-compras/pricing"
	"farmacia-compras/repository"
	"farmacia-compras/workflow"
)

// OrderLoader loads an order with catalog-hydrated lines
type OrderLoader interface {
	Load(ctx context.Context, id int64) (*models.Order, error)
}

// CounterOfferService lets administrators re-price submitted orders and buyers answer
type CounterOfferService struct {
	repository repository.CounterOfferRepositoryInterface
	orders     OrderLoader
	publisher  events.Publisher
	engine     *pricing.Engine
	now        func() time.Time
}

// NewCounterOfferService creates a new CounterOfferService
func NewCounterOfferService(
	repo repository.CounterOfferRepositoryInterface,
	orders OrderLoader,
	publisher events.Publisher,
	engine *pricing.Engine,
) *CounterOfferService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CounterOfferService{
		repository: repo,
		orders:     orders,
		publisher:  publisher,
		engine:     engine,
		now:        time.Now,
	}
}

// Ensure CounterOfferService implements CounterOfferServiceInterface
var _ CounterOfferServiceInterface = (*CounterOfferService)(nil)

// Propose creates a counter-offer for an order awaiting approval
func (s *CounterOfferService) Propose(ctx context.Context, orderID int64, req *models.CreateCounterOfferRequest) (*models.CounterOfferResponse, error) {
	logger.Log.Infof("📦 Propose: order_id=%d changes=%d", orderID, len(req.Changes))

	order, err := s.orders.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPendingApproval {
		return nil, &workflow.TransitionError{From: order.Status, To: models.OrderStatusCounterOfferSent}
	}

	now := s.now()
	offer, err := counteroffer.Propose(*order, req.Changes, now, s.engine.Config().CounterOfferValidity())
	if err != nil {
		return nil, err
	}
	if err := workflow.TransitionOrder(order, models.OrderStatusCounterOfferSent, now); err != nil {
		return nil, err
	}

	if err := s.repository.Create(ctx, &offer, order); err != nil {
		return nil, err
	}
	metric.CounterOffersTotal.WithLabelValues(string(offer.Status)).Inc()
	metric.OrderTransitionsTotal.WithLabelValues(string(order.Status)).Inc()
	s.publish(ctx, events.CounterOfferSent, &offer)

	logger.Log.Infof("✅ Propose: counter-offer id=%s order_id=%d %s -> %s", offer.ID, orderID,
		s.engine.DisplayAmount(offer.OriginalAmount), s.engine.DisplayAmount(offer.ProposedAmount))
	return s.response(&offer), nil
}

// GetForOrder returns the latest counter-offer of an order, expiring it first if its time ran out
func (s *CounterOfferService) GetForOrder(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error) {
	offer, err := s.repository.GetLatestByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, offer); err != nil {
		return nil, err
	}
	return s.response(offer), nil
}

// Accept approves the order at the proposed amount
func (s *CounterOfferService) Accept(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error) {
	return s.resolve(ctx, orderID, counteroffer.Accept, events.CounterOfferAccepted)
}

// Reject rejects the order
func (s *CounterOfferService) Reject(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error) {
	return s.resolve(ctx, orderID, counteroffer.Reject, events.CounterOfferRejected)
}

type resolveFunc func(offer *models.CounterOffer, order *models.Order, now time.Time) error

func (s *CounterOfferService) resolve(ctx context.Context, orderID int64, apply resolveFunc, eventType events.EventType) (*models.CounterOfferResponse, error) {
	offer, err := s.repository.GetLatestByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	wasPending := offer.Status == models.CounterOfferPending
	if err := apply(offer, order, s.now()); err != nil {
		if errors.Is(err, counteroffer.ErrOfferExpired) && wasPending {
			s.persistExpiry(ctx, offer)
		}
		logger.Log.Infof("ℹ️  resolve: order_id=%d counter-offer id=%s rejected: %v", orderID, offer.ID, err)
		return nil, err
	}

	if err := s.repository.Resolve(ctx, offer, order); err != nil {
		return nil, err
	}
	metric.CounterOffersTotal.WithLabelValues(string(offer.Status)).Inc()
	metric.OrderTransitionsTotal.WithLabelValues(string(order.Status)).Inc()
	s.publish(ctx, eventType, offer)

	logger.Log.Infof("✅ resolve: counter-offer id=%s is %s, order_id=%d is %s", offer.ID, offer.Status, orderID, order.Status)
	return s.response(offer), nil
}

func (s *CounterOfferService) refresh(ctx context.Context, offer *models.CounterOffer) error {
	if !counteroffer.Refresh(offer, s.now()) {
		return nil
	}
	return s.persistExpiry(ctx, offer)
}

func (s *CounterOfferService) persistExpiry(ctx context.Context, offer *models.CounterOffer) error {
	if err := s.repository.MarkExpired(ctx, offer.ID); err != nil {
		return fmt.Errorf("failed to persist expiry: %w", err)
	}
	metric.CounterOffersTotal.WithLabelValues(string(models.CounterOfferExpired)).Inc()
	s.publish(ctx, events.CounterOfferExpired, offer)
	return nil
}

// publish never fails the caller; the state change is already committed
func (s *CounterOfferService) publish(ctx context.Context, t events.EventType, offer *models.CounterOffer) {
	if err := s.publisher.Publish(ctx, events.NewCounterOfferEvent(t, offer, s.now())); err != nil {
		logger.Log.Errorf("❌ publish: %s for counter-offer id=%s: %v", t, offer.ID, err)
	}
}

func (s *CounterOfferService) response(offer *models.CounterOffer) *models.CounterOfferResponse {
	return &models.CounterOfferResponse{
		CounterOffer:   *offer,
		Savings:        s.engine.DisplayAmount(counteroffer.Savings(*offer)),
		SavingsPercent: counteroffer.SavingsPercent(*offer).StringFixed(2),
	}
}
