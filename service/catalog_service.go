package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmacia-compras/logger"
	"farmacia-compras/metric"
	"farmacia-compras/models"
	"farmacia-compras/pricing"
	"farmacia-compras/repository"
)

// ErrInvalidProduct is returned when a product request carries impossible values
var ErrInvalidProduct = errors.New("invalid product")

// CatalogService serves the product catalog with its supplier tiers
type CatalogService struct {
	repository   repository.CatalogRepositoryInterface
	cache        CatalogCache
	engine       *pricing.Engine
	driveService DriveServiceInterface
	images       *ImageCache
	baseURL      string // Base URL for image endpoints (e.g., "http://localhost:8080")
}

// NewCatalogService creates a new CatalogService.
// driveService may be nil, in which case product images are unavailable.
func NewCatalogService(
	repo repository.CatalogRepositoryInterface,
	cache CatalogCache,
	engine *pricing.Engine,
	driveService DriveServiceInterface,
	images *ImageCache,
	baseURL string,
) *CatalogService {
	if cache == nil {
		cache = NoopCatalogCache{}
	}
	return &CatalogService{
		repository:   repo,
		cache:        cache,
		engine:       engine,
		driveService: driveService,
		images:       images,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// Ensure CatalogService implements CatalogServiceInterface
var _ CatalogServiceInterface = (*CatalogService)(nil)

// Products returns the whole catalog, reading through the cache
func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	if products, ok := s.cache.Get(ctx); ok {
		return products, nil
	}

	products, err := s.repository.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	s.cache.Set(ctx, products)
	return products, nil
}

// ProductsByID returns the catalog indexed by product ID
func (s *CatalogService) ProductsByID(ctx context.Context) (map[int64]models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// GetProduct returns one catalog product
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	byID, err := s.ProductsByID(ctx)
	if err != nil {
		return nil, err
	}
	product, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
	}
	return &product, nil
}

// ListProducts builds the catalog listing. Buyers only see consolidated prices
// and stock; admins also see which suppliers back each price.
func (s *CatalogService) ListProducts(ctx context.Context, admin bool) (*models.ProductListResponse, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	resp := &models.ProductListResponse{Products: make([]models.ProductListItem, 0, len(products))}
	for _, p := range products {
		resp.Products = append(resp.Products, s.listItem(p, admin))
	}

	logger.Log.Debugf("✅ ListProducts: %d products (admin=%t)", len(resp.Products), admin)
	return resp, nil
}

func (s *CatalogService) listItem(p models.Product, admin bool) models.ProductListItem {
	tiers := pricing.Consolidate(p.Tiers)
	if !admin {
		tiers = pricing.BuyerView(tiers)
	}

	best, ok := pricing.CheapestAvailablePrice(p.Tiers)
	if !ok {
		best = p.PublicPrice
	}

	item := models.ProductListItem{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		PublicPrice: p.PublicPrice,
		VATRate:     p.VATRate,
		BestPrice:   best,
		TotalStock:  pricing.TotalStock(p.Tiers),
		Tiers:       tiers,
	}
	item.PublicPrice = s.engine.DisplayPrice(item.PublicPrice, p.VATRate)
	item.BestPrice = s.engine.DisplayPrice(item.BestPrice, p.VATRate)
	if p.ImageFileID != "" {
		item.ImageURL = fmt.Sprintf("%s/catalog/products/%d/image?size=thumb", s.baseURL, p.ID)
	}
	return item
}

// ConsolidatedTiers returns the consolidated tier view of one product
func (s *CatalogService) ConsolidatedTiers(ctx context.Context, id int64, admin bool) ([]models.ConsolidatedTier, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	tiers := pricing.Consolidate(product.Tiers)
	if !admin {
		tiers = pricing.BuyerView(tiers)
	}
	return tiers, nil
}

// Quote allocates quantity units of a product across its tiers
func (s *CatalogService) Quote(ctx context.Context, id int64, quantity int) (*models.QuoteResponse, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	quote := s.engine.Quote(*product, quantity)
	metric.ObserveQuote(quote.Quantity, publicUnits(quote.Allocation))

	logger.Log.Debugf("💰 Quote: product=%d qty=%d avg=%s total=%s", id, quantity, quote.AverageUnitPrice, quote.LineTotal)
	return &quote, nil
}

func publicUnits(result models.AllocationResult) int {
	for _, entry := range result.Breakdown {
		if entry.SourceID == models.PublicSourceID {
			return entry.QuantityTaken
		}
	}
	return 0
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if req.PublicPrice.IsNegative() {
		return nil, fmt.Errorf("%w: publicPrice cannot be negative", ErrInvalidProduct)
	}
	product, err := s.repository.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return product, nil
}

// ProductImage returns a resized JPEG of the product image, from disk cache when possible
func (s *CatalogService) ProductImage(ctx context.Context, id int64, size string) ([]byte, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.ImageFileID == "" || s.driveService == nil || s.images == nil {
		return nil, fmt.Errorf("image for product %d: %w", id, repository.ErrNotFound)
	}

	cachePath := s.images.Path(id, size)
	if data, ok := s.images.Get(cachePath); ok {
		return data, nil
	}

	raw, err := s.driveService.DownloadFile(ctx, product.ImageFileID)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	optimized, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, err
	}
	if err := s.images.Put(cachePath, optimized); err != nil {
		logger.Log.Warnf("⚠️  ProductImage: %v", err)
	}
	return optimized, nil
}
