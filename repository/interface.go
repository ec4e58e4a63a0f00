package repository

import (
	"context"

	"github.com/google/uuid"

	"farmacia-compras/models"
)

// CatalogRepositoryInterface defines the contract for product and supplier offer storage
type CatalogRepositoryInterface interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpsertSupplierOffers(ctx context.Context, sourceID string, rows []models.PriceListRow) (int, []string, error)
}

// OrderRepositoryInterface defines the contract for order storage
type OrderRepositoryInterface interface {
	Create(ctx context.Context, buyerID string) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.OrderListItem, error)
	Save(ctx context.Context, order *models.Order, expected models.OrderStatus) error
}

// CounterOfferRepositoryInterface defines the contract for counter-offer storage
type CounterOfferRepositoryInterface interface {
	Create(ctx context.Context, offer *models.CounterOffer, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CounterOffer, error)
	GetLatestByOrderID(ctx context.Context, orderID int64) (*models.CounterOffer, error)
	Resolve(ctx context.Context, offer *models.CounterOffer, order *models.Order) error
	MarkExpired(ctx context.Context, id uuid.UUID) error
}
