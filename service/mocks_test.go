package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"farmacia-compras/events"
	"farmacia-compras/models"
)

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *mockCatalogRepository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *mockCatalogRepository) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *mockCatalogRepository) UpsertSupplierOffers(ctx context.Context, sourceID string, rows []models.PriceListRow) (int, []string, error) {
	args := m.Called(ctx, sourceID, rows)
	skipped, _ := args.Get(1).([]string)
	return args.Int(0), skipped, args.Error(2)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, buyerID string) (*models.Order, error) {
	args := m.Called(ctx, buyerID)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.OrderListItem, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]models.OrderListItem)
	return orders, args.Error(1)
}

func (m *mockOrderRepository) Save(ctx context.Context, order *models.Order, expected models.OrderStatus) error {
	return m.Called(ctx, order, expected).Error(0)
}

type mockCounterOfferRepository struct {
	mock.Mock
}

func (m *mockCounterOfferRepository) Create(ctx context.Context, offer *models.CounterOffer, order *models.Order) error {
	return m.Called(ctx, offer, order).Error(0)
}

func (m *mockCounterOfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CounterOffer, error) {
	args := m.Called(ctx, id)
	offer, _ := args.Get(0).(*models.CounterOffer)
	return offer, args.Error(1)
}

func (m *mockCounterOfferRepository) GetLatestByOrderID(ctx context.Context, orderID int64) (*models.CounterOffer, error) {
	args := m.Called(ctx, orderID)
	offer, _ := args.Get(0).(*models.CounterOffer)
	return offer, args.Error(1)
}

func (m *mockCounterOfferRepository) Resolve(ctx context.Context, offer *models.CounterOffer, order *models.Order) error {
	return m.Called(ctx, offer, order).Error(0)
}

func (m *mockCounterOfferRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockDriveService struct {
	mock.Mock
}

func (m *mockDriveService) ListPriceLists(ctx context.Context, folderID string) ([]models.PriceListFile, error) {
	args := m.Called(ctx, folderID)
	files, _ := args.Get(0).([]models.PriceListFile)
	return files, args.Error(1)
}

func (m *mockDriveService) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	args := m.Called(ctx, fileID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// memoryCatalogCache is a CatalogCache for tests
type memoryCatalogCache struct {
	mu          sync.Mutex
	products    []models.Product
	ok          bool
	invalidated int
}

func (c *memoryCatalogCache) Get(context.Context) ([]models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products, c.ok
}

func (c *memoryCatalogCache) Set(_ context.Context, products []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products, c.ok = products, true
}

func (c *memoryCatalogCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products, c.ok = nil, false
	c.invalidated++
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CounterOfferEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.CounterOfferEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
