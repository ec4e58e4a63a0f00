package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"farmacia-compras/logger"
	"farmacia-compras/models"
)

// OrderRepository handles database operations for buyer orders and their lines
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

// Create inserts an empty draft order
func (r *OrderRepository) Create(ctx context.Context, buyerID string) (*models.Order, error) {
	logger.Log.Infof("📦 Create: Creating draft order for buyer=%s", buyerID)

	if strings.TrimSpace(buyerID) == "" {
		return nil, fmt.Errorf("buyer_id cannot be empty")
	}

	query := `
		INSERT INTO orders (buyer_id, status, total_amount)
		VALUES ($1, $2, 0)
		RETURNING id, buyer_id, status, total_amount, created_at, updated_at
	`

	var order models.Order
	err := r.db.QueryRowContext(ctx, query, buyerID, models.OrderStatusDraft).Scan(
		&order.ID,
		&order.BuyerID,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		logger.Log.Errorf("❌ Create: Error creating order: %v", err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.LineItems = []models.OrderLineItem{}

	logger.Log.Infof("✅ Create: Successfully created order id=%d", order.ID)
	return &order, nil
}

// GetByID retrieves an order with its persisted lines.
// Line tiers and public prices are not stored here and must be hydrated from the catalog.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, buyer_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID,
		&order.BuyerID,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		logger.Log.Errorf("❌ GetByID: Error fetching order id=%d: %v", id, err)
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT l.product_id, p.name, l.quantity, l.selected, l.allocation
		FROM order_lines l
		INNER JOIN products p ON p.id = l.product_id
		WHERE l.order_id = $1
		ORDER BY l.created_at, l.product_id
	`, id)
	if err != nil {
		logger.Log.Errorf("❌ GetByID: Error fetching lines for order id=%d: %v", id, err)
		return nil, fmt.Errorf("failed to fetch order lines: %w", err)
	}
	defer rows.Close()

	order.LineItems = []models.OrderLineItem{}
	for rows.Next() {
		var line models.OrderLineItem
		var allocation []byte
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Quantity, &line.Selected, &allocation); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		if len(allocation) > 0 && string(allocation) != "null" {
			var result models.AllocationResult
			if err := json.Unmarshal(allocation, &result); err != nil {
				return nil, fmt.Errorf("failed to decode allocation for product %d: %w", line.ProductID, err)
			}
			line.Allocation = &result
		}
		order.LineItems = append(order.LineItems, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return &order, nil
}

// List retrieves order summaries, newest first
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.OrderListItem, error) {
	query := `
		SELECT o.id, o.buyer_id, o.status, o.total_amount, o.created_at, o.updated_at,
		       COUNT(l.product_id) AS line_count
		FROM orders o
		LEFT JOIN order_lines l ON l.order_id = o.id
		WHERE ($1 = '' OR o.buyer_id = $1)
		  AND ($2 = '' OR o.status = $2)
		GROUP BY o.id
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, filter.BuyerID, string(filter.Status))
	if err != nil {
		logger.Log.Errorf("❌ List: Error listing orders: %v", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.OrderListItem, 0)
	for rows.Next() {
		var item models.OrderListItem
		if err := rows.Scan(&item.ID, &item.BuyerID, &item.Status, &item.TotalAmount,
			&item.CreatedAt, &item.UpdatedAt, &item.LineCount); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// Save writes the order header and every line in one transaction.
// The header update only applies while the stored status still equals expected,
// otherwise ErrConflict is returned and nothing is written.
func (r *OrderRepository) Save(ctx context.Context, order *models.Order, expected models.OrderStatus) error {
	logger.Log.Infof("📦 Save: Saving order id=%d status=%s lines=%d", order.ID, order.Status, len(order.LineItems))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Log.Errorf("❌ Save: Error starting transaction: %v", err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateOrderHeader(ctx, tx, order, expected); err != nil {
		return err
	}

	upsertLine := `
		INSERT INTO order_lines (order_id, product_id, quantity, selected, allocation, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              selected = EXCLUDED.selected,
		              allocation = EXCLUDED.allocation,
		              updated_at = EXCLUDED.updated_at
	`
	for _, line := range order.LineItems {
		allocation, err := json.Marshal(line.Allocation)
		if err != nil {
			return fmt.Errorf("failed to encode allocation for product %d: %w", line.ProductID, err)
		}
		if _, err := tx.ExecContext(ctx, upsertLine, order.ID, line.ProductID, line.Quantity, line.Selected, allocation, order.UpdatedAt); err != nil {
			logger.Log.Errorf("❌ Save: Error upserting line product=%d: %v", line.ProductID, err)
			return fmt.Errorf("failed to save order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Log.Errorf("❌ Save: Error committing transaction: %v", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Infof("✅ Save: Saved order id=%d", order.ID)
	return nil
}

// updateOrderHeader writes status and total guarded by the expected current status
func updateOrderHeader(ctx context.Context, tx *sql.Tx, order *models.Order, expected models.OrderStatus) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, total_amount = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`, order.Status, order.TotalAmount, order.UpdatedAt, order.ID, expected)
	if err != nil {
		logger.Log.Errorf("❌ updateOrderHeader: Error updating order id=%d: %v", order.ID, err)
		return fmt.Errorf("failed to update order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		logger.Log.Warnf("⚠️  updateOrderHeader: order id=%d is no longer %s", order.ID, expected)
		return fmt.Errorf("order %d: %w", order.ID, ErrConflict)
	}
	return nil
}
