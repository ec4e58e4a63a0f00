package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmacia-compras/counteroffer"
	"farmacia-compras/logger"
	"farmacia-compras/metric"
	"farmacia-compras/models"
	"farmacia-compras/pricing"
	"farmacia-compras/repository"
	"farmacia-compras/workflow"
)

var (
	ErrOrderNotEditable = errors.New("order can no longer be edited")
	ErrUnknownProduct   = errors.New("product is not in the catalog")
	ErrLineNotFound     = errors.New("order has no line for this product")
	ErrNothingSelected  = errors.New("order has no selected lines")
	ErrCounterOfferOpen = errors.New("order has a counter-offer awaiting the buyer")
)

// OrderService drives draft orders through pricing and the status machine
type OrderService struct {
	repository repository.OrderRepositoryInterface
	offers     repository.CounterOfferRepositoryInterface
	catalog    ProductCatalog
	engine     *pricing.Engine
	now        func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	repo repository.OrderRepositoryInterface,
	offers repository.CounterOfferRepositoryInterface,
	catalog ProductCatalog,
	engine *pricing.Engine,
) *OrderService {
	return &OrderService{
		repository: repo,
		offers:     offers,
		catalog:    catalog,
		engine:     engine,
		now:        time.Now,
	}
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

// Create opens an empty draft order for a buyer
func (s *OrderService) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
	order, err := s.repository.Create(ctx, req.BuyerID)
	if err != nil {
		return nil, err
	}
	return s.response(order), nil
}

// Load reads an order and hydrates its lines with current catalog prices and tiers
func (s *OrderService) Load(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.ProductsByID(ctx)
	if err != nil {
		return nil, err
	}
	for i := range order.LineItems {
		line := &order.LineItems[i]
		product, ok := products[line.ProductID]
		if !ok {
			logger.Log.Warnf("⚠️  Load: order_id=%d references product_id=%d missing from catalog", id, line.ProductID)
			continue
		}
		line.ProductName = product.Name
		line.PublicPrice = product.PublicPrice
		line.Tiers = product.Tiers
	}
	return order, nil
}

// Get returns an order with its derived totals
func (s *OrderService) Get(ctx context.Context, id int64) (*models.OrderResponse, error) {
	order, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.response(order), nil
}

// List returns order summaries
func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) (*models.OrderListResponse, error) {
	orders, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.OrderListResponse{Orders: orders}, nil
}

// SetQuantity changes the quantity of a product in a draft order, adding the line when needed
func (s *OrderService) SetQuantity(ctx context.Context, id int64, req *models.SetQuantityRequest) (*models.OrderResponse, error) {
	logger.Log.Infof("📦 SetQuantity: order_id=%d product_id=%d qty=%d", id, req.ProductID, req.Quantity)

	order, err := s.loadEditable(ctx, id)
	if err != nil {
		return nil, err
	}

	line := pricing.FindLine(order.LineItems, req.ProductID)
	if line == nil {
		products, err := s.catalog.ProductsByID(ctx)
		if err != nil {
			return nil, err
		}
		product, ok := products[req.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", req.ProductID, ErrUnknownProduct)
		}
		order.LineItems = append(order.LineItems, pricing.NewLineItem(product))
		line = &order.LineItems[len(order.LineItems)-1]
	}

	pricing.SetQuantity(line, req.Quantity)
	return s.saveDraft(ctx, order)
}

// SelectLine selects or deselects a product line of a draft order
func (s *OrderService) SelectLine(ctx context.Context, id int64, req *models.SelectLineRequest) (*models.OrderResponse, error) {
	order, err := s.loadEditable(ctx, id)
	if err != nil {
		return nil, err
	}

	line := pricing.FindLine(order.LineItems, req.ProductID)
	if line == nil {
		return nil, fmt.Errorf("product %d: %w", req.ProductID, ErrLineNotFound)
	}
	if err := pricing.Select(line, req.Selected); err != nil {
		logger.Log.Infof("ℹ️  SelectLine: order_id=%d product_id=%d rejected: %v", id, req.ProductID, err)
		return nil, err
	}
	return s.saveDraft(ctx, order)
}

// Submit re-prices the selected lines against current stock and sends the order for approval
func (s *OrderService) Submit(ctx context.Context, id int64) (*models.OrderResponse, error) {
	logger.Log.Infof("📦 Submit: order_id=%d", id)

	order, err := s.loadEditable(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range order.LineItems {
		line := &order.LineItems[i]
		if line.Selected {
			pricing.SetQuantity(line, line.Quantity)
		}
	}

	totals := pricing.RecomputeTotals(order.LineItems)
	if totals.SelectedCount == 0 {
		return nil, ErrNothingSelected
	}

	now := s.now()
	if err := workflow.TransitionOrder(order, models.OrderStatusPendingApproval, now); err != nil {
		return nil, err
	}
	order.TotalAmount = totals.TotalAmount

	if err := s.repository.Save(ctx, order, models.OrderStatusDraft); err != nil {
		return nil, err
	}
	metric.OrderTransitionsTotal.WithLabelValues(string(order.Status)).Inc()

	logger.Log.Infof("✅ Submit: order_id=%d submitted, total=%s", id, s.engine.DisplayAmount(order.TotalAmount))
	return s.response(order), nil
}

// Decide applies an administrator decision (approve, reject or start processing) to an order.
// An order waiting on a counter-offer can only be decided here once that offer has expired;
// until then the buyer answers it through the counter-offer endpoints.
func (s *OrderService) Decide(ctx context.Context, id int64, to models.OrderStatus) (*models.OrderResponse, error) {
	order, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if to == models.OrderStatusCounterOfferSent {
		return nil, &workflow.TransitionError{From: from, To: to}
	}
	if from == models.OrderStatusCounterOfferSent {
		if err := s.ensureOfferLapsed(ctx, id); err != nil {
			logger.Log.Infof("ℹ️  Decide: order_id=%d %v", id, err)
			return nil, err
		}
	}
	if err := workflow.TransitionOrder(order, to, s.now()); err != nil {
		logger.Log.Infof("ℹ️  Decide: order_id=%d %v", id, err)
		return nil, err
	}
	if err := s.repository.Save(ctx, order, from); err != nil {
		return nil, err
	}
	metric.OrderTransitionsTotal.WithLabelValues(string(to)).Inc()

	logger.Log.Infof("✅ Decide: order_id=%d %s -> %s", id, from, to)
	return s.response(order), nil
}

func (s *OrderService) ensureOfferLapsed(ctx context.Context, orderID int64) error {
	if s.offers == nil {
		return ErrCounterOfferOpen
	}
	offer, err := s.offers.GetLatestByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load counter-offer: %w", err)
	}
	counteroffer.Refresh(offer, s.now())
	if offer.Status != models.CounterOfferExpired {
		return fmt.Errorf("%w: offer %s is %s", ErrCounterOfferOpen, offer.ID, offer.Status)
	}
	return nil
}

func (s *OrderService) loadEditable(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.IsEditable(order.Status) {
		return nil, fmt.Errorf("order %d is %s: %w", id, order.Status, ErrOrderNotEditable)
	}
	return order, nil
}

func (s *OrderService) saveDraft(ctx context.Context, order *models.Order) (*models.OrderResponse, error) {
	order.TotalAmount = pricing.RecomputeTotals(order.LineItems).TotalAmount
	order.UpdatedAt = s.now()
	if err := s.repository.Save(ctx, order, models.OrderStatusDraft); err != nil {
		return nil, err
	}
	return s.response(order), nil
}

func (s *OrderService) response(order *models.Order) *models.OrderResponse {
	return &models.OrderResponse{
		Order:        *order,
		Totals:       pricing.RecomputeTotals(order.LineItems),
		DisplayTotal: s.engine.DisplayAmount(order.TotalAmount),
	}
}
