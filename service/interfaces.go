package service

import (
	"context"

	"farmacia-compras/models"
)

// CatalogServiceInterface defines the catalog operations used by controllers
type CatalogServiceInterface interface {
	ListProducts(ctx context.Context, admin bool) (*models.ProductListResponse, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ConsolidatedTiers(ctx context.Context, id int64, admin bool) ([]models.ConsolidatedTier, error)
	Quote(ctx context.Context, id int64, quantity int) (*models.QuoteResponse, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	ProductImage(ctx context.Context, id int64, size string) ([]byte, error)
}

// ProductCatalog is the catalog lookup orders need to price their lines
type ProductCatalog interface {
	ProductsByID(ctx context.Context) (map[int64]models.Product, error)
}

// OrderServiceInterface defines the order operations used by controllers
type OrderServiceInterface interface {
	Create(ctx context.Context, req *models.CreateOrderRequest) (*models.OrderResponse, error)
	Get(ctx context.Context, id int64) (*models.OrderResponse, error)
	Load(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) (*models.OrderListResponse, error)
	SetQuantity(ctx context.Context, id int64, req *models.SetQuantityRequest) (*models.OrderResponse, error)
	SelectLine(ctx context.Context, id int64, req *models.SelectLineRequest) (*models.OrderResponse, error)
	Submit(ctx context.Context, id int64) (*models.OrderResponse, error)
	Decide(ctx context.Context, id int64, to models.OrderStatus) (*models.OrderResponse, error)
}

// CounterOfferServiceInterface defines the counter-offer operations used by controllers
type CounterOfferServiceInterface interface {
	Propose(ctx context.Context, orderID int64, req *models.CreateCounterOfferRequest) (*models.CounterOfferResponse, error)
	GetForOrder(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error)
	Accept(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error)
	Reject(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error)
}

// DocumentServiceInterface defines the counter-offer document operations used by controllers
type DocumentServiceInterface interface {
	RenderCounterOfferHTML(ctx context.Context, orderID int64) (string, error)
	GenerateCounterOfferPDF(ctx context.Context, orderID int64) ([]byte, error)
}
