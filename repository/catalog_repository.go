package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"farmacia-compras/logger"
	"farmacia-compras/models"
)

const productOffersQuery = `
		SELECT
			p.id,
			p.sku,
			p.name,
			p.public_price,
			p.vat_rate,
			COALESCE(p.image_file_id, '') AS image_file_id,
			o.source_id,
			o.unit_price,
			o.available_stock
		FROM products p
		LEFT JOIN supplier_offers o ON o.product_id = p.id
	`

// CatalogRepository handles database operations for products and their supplier offers
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// ListProducts retrieves every product with its supplier tiers
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	logger.Log.Debugf("🔍 ListProducts: Fetching catalog")

	rows, err := r.db.QueryContext(ctx, productOffersQuery+` ORDER BY p.id, o.unit_price, o.source_id`)
	if err != nil {
		logger.Log.Errorf("❌ ListProducts: Error querying catalog: %v", err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	logger.Log.Debugf("✅ ListProducts: Found %d products", len(products))
	return products, nil
}

// GetProduct retrieves a single product with its supplier tiers
func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, productOffersQuery+` WHERE p.id = $1 ORDER BY o.unit_price, o.source_id`, id)
	if err != nil {
		logger.Log.Errorf("❌ GetProduct: Error querying product id=%d: %v", id, err)
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &products[0], nil
}

// scanProducts folds the product/offer join into products, one tier per offer row
func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	products := make([]models.Product, 0)
	index := make(map[int64]int)

	for rows.Next() {
		var p models.Product
		var sourceID sql.NullString
		var unitPrice decimal.NullDecimal
		var stock sql.NullInt64

		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.PublicPrice, &p.VATRate, &p.ImageFileID,
			&sourceID, &unitPrice, &stock); err != nil {
			logger.Log.Errorf("❌ scanProducts: Error scanning row: %v", err)
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		i, ok := index[p.ID]
		if !ok {
			p.Tiers = []models.PriceTier{}
			products = append(products, p)
			i = len(products) - 1
			index[p.ID] = i
		}
		if sourceID.Valid && unitPrice.Valid {
			products[i].Tiers = append(products[i].Tiers, models.PriceTier{
				SourceID:       sourceID.String,
				UnitPrice:      unitPrice.Decimal,
				AvailableStock: int(stock.Int64),
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// CreateProduct inserts a catalog product without supplier offers
func (r *CatalogRepository) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	logger.Log.Infof("📦 CreateProduct: Creating product sku=%s", req.SKU)

	query := `
		INSERT INTO products (sku, name, public_price, vat_rate, image_file_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	product := models.Product{
		SKU:         strings.ToUpper(strings.TrimSpace(req.SKU)),
		Name:        strings.TrimSpace(req.Name),
		PublicPrice: req.PublicPrice,
		VATRate:     req.VATRate,
		ImageFileID: req.ImageFileID,
		Tiers:       []models.PriceTier{},
	}

	err := r.db.QueryRowContext(ctx, query,
		product.SKU,
		product.Name,
		product.PublicPrice,
		product.VATRate,
		sql.NullString{String: product.ImageFileID, Valid: product.ImageFileID != ""},
	).Scan(&product.ID)
	if err != nil {
		logger.Log.Errorf("❌ CreateProduct: Error inserting product: %v", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Log.Infof("✅ CreateProduct: Created product id=%d", product.ID)
	return &product, nil
}

// UpsertSupplierOffers replaces the offers of one supplier for the listed SKUs.
// Unknown SKUs are skipped and returned. Everything runs in one transaction.
func (r *CatalogRepository) UpsertSupplierOffers(ctx context.Context, sourceID string, rows []models.PriceListRow) (int, []string, error) {
	logger.Log.Infof("📦 UpsertSupplierOffers: source=%s rows=%d", sourceID, len(rows))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Log.Errorf("❌ UpsertSupplierOffers: Error starting transaction: %v", err)
		return 0, nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO supplier_offers (product_id, source_id, unit_price, available_stock, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, source_id)
		DO UPDATE SET unit_price = EXCLUDED.unit_price,
		              available_stock = EXCLUDED.available_stock,
		              updated_at = now()
	`

	upserted := 0
	skipped := make([]string, 0)
	for _, row := range rows {
		var productID int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE sku = $1`, row.SKU).Scan(&productID)
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.Warnf("⚠️  UpsertSupplierOffers: Unknown sku=%s, skipping", row.SKU)
			skipped = append(skipped, row.SKU)
			continue
		}
		if err != nil {
			return 0, nil, fmt.Errorf("failed to look up sku %s: %w", row.SKU, err)
		}

		if _, err := tx.ExecContext(ctx, upsert, productID, sourceID, row.UnitPrice, row.AvailableStock); err != nil {
			logger.Log.Errorf("❌ UpsertSupplierOffers: Error upserting sku=%s: %v", row.SKU, err)
			return 0, nil, fmt.Errorf("failed to upsert offer for sku %s: %w", row.SKU, err)
		}
		upserted++
	}

	if err := tx.Commit(); err != nil {
		logger.Log.Errorf("❌ UpsertSupplierOffers: Error committing transaction: %v", err)
		return 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Infof("✅ UpsertSupplierOffers: source=%s upserted=%d skipped=%d", sourceID, upserted, len(skipped))
	return upserted, skipped, nil
}
