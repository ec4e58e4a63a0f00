package controller

import (
	"context"

	"github.com/stretchr/testify/mock"

	"farmacia-compras/models"
)

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) ListProducts(ctx context.Context, admin bool) (*models.ProductListResponse, error) {
	args := m.Called(ctx, admin)
	resp, _ := args.Get(0).(*models.ProductListResponse)
	return resp, args.Error(1)
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *mockCatalogService) ConsolidatedTiers(ctx context.Context, id int64, admin bool) ([]models.ConsolidatedTier, error) {
	args := m.Called(ctx, id, admin)
	tiers, _ := args.Get(0).([]models.ConsolidatedTier)
	return tiers, args.Error(1)
}

func (m *mockCatalogService) Quote(ctx context.Context, id int64, quantity int) (*models.QuoteResponse, error) {
	args := m.Called(ctx, id, quantity)
	quote, _ := args.Get(0).(*models.QuoteResponse)
	return quote, args.Error(1)
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *mockCatalogService) ProductImage(ctx context.Context, id int64, size string) ([]byte, error) {
	args := m.Called(ctx, id, size)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.OrderResponse)
	return resp, args.Error(1)
}

func (m *mockOrderService) Get(ctx context.Context, id int64) (*models.OrderResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*models.OrderResponse)
	return resp, args.Error(1)
}

func (m *mockOrderService) Load(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *mockOrderService) List(ctx context.Context, filter models.OrderFilter) (*models.OrderListResponse, error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*models.OrderListResponse)
	return resp, args.Error(1)
}

func (m *mockOrderService) SetQuantity(ctx context.Context, id int64, req *models.SetQuantityRequest) (*models.OrderResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*models.OrderResponse)
	return resp, args.Error(1)
}

func (m *mockOrderService) SelectLine(ctx context.Context, id int64, req *models.SelectLineRequest) (*models.OrderResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*models.OrderResponse)
	return resp, args.Error(1)
}

func (m *mockOrderService) Submit(ctx context.Context, id int64) (*models.OrderResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*models.OrderResponse)
	return resp, args.Error(1)
}

func (m *mockOrderService) Decide(ctx context.Context, id int64, to models.OrderStatus) (*models.OrderResponse, error) {
	args := m.Called(ctx, id, to)
	resp, _ := args.Get(0).(*models.OrderResponse)
	return resp, args.Error(1)
}

type mockCounterOfferService struct {
	mock.Mock
}

func (m *mockCounterOfferService) Propose(ctx context.Context, orderID int64, req *models.CreateCounterOfferRequest) (*models.CounterOfferResponse, error) {
	args := m.Called(ctx, orderID, req)
	resp, _ := args.Get(0).(*models.CounterOfferResponse)
	return resp, args.Error(1)
}

func (m *mockCounterOfferService) GetForOrder(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error) {
	args := m.Called(ctx, orderID)
	resp, _ := args.Get(0).(*models.CounterOfferResponse)
	return resp, args.Error(1)
}

func (m *mockCounterOfferService) Accept(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error) {
	args := m.Called(ctx, orderID)
	resp, _ := args.Get(0).(*models.CounterOfferResponse)
	return resp, args.Error(1)
}

func (m *mockCounterOfferService) Reject(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error) {
	args := m.Called(ctx, orderID)
	resp, _ := args.Get(0).(*models.CounterOfferResponse)
	return resp, args.Error(1)
}

type mockDocumentService struct {
	mock.Mock
}

func (m *mockDocumentService) RenderCounterOfferHTML(ctx context.Context, orderID int64) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func (m *mockDocumentService) GenerateCounterOfferPDF(ctx context.Context, orderID int64) ([]byte, error) {
	args := m.Called(ctx, orderID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockSyncService struct {
	mock.Mock
}

func (m *mockSyncService) SyncPriceLists(ctx context.Context, folderID string) (*models.PriceListSyncResult, error) {
	args := m.Called(ctx, folderID)
	result, _ := args.Get(0).(*models.PriceListSyncResult)
	return result, args.Error(1)
}
