package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"farmacia-compras/logger"
	"farmacia-compras/models"
)

const counterOfferColumns = `id, order_id, original_amount, proposed_amount, product_changes, status, expiry_date, created_at, responded_at`

// CounterOfferRepository handles database operations for counter-offers
type CounterOfferRepository struct {
	db *sql.DB
}

// NewCounterOfferRepository creates a new CounterOfferRepository
func NewCounterOfferRepository(db *sql.DB) *CounterOfferRepository {
	return &CounterOfferRepository{db: db}
}

// Ensure CounterOfferRepository implements CounterOfferRepositoryInterface
var _ CounterOfferRepositoryInterface = (*CounterOfferRepository)(nil)

// Create stores a new offer and moves its order out of pending approval in one transaction
func (r *CounterOfferRepository) Create(ctx context.Context, offer *models.CounterOffer, order *models.Order) error {
	logger.Log.Infof("📦 Create: Creating counter-offer id=%s for order_id=%d", offer.ID, offer.OrderID)

	changes, err := json.Marshal(offer.ProductChanges)
	if err != nil {
		return fmt.Errorf("failed to encode product changes: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Log.Errorf("❌ Create: Error starting transaction: %v", err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO counter_offers (`+counterOfferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		offer.ID,
		offer.OrderID,
		offer.OriginalAmount,
		offer.ProposedAmount,
		changes,
		offer.Status,
		offer.ExpiryDate,
		offer.CreatedAt,
		offer.RespondedAt,
	)
	if err != nil {
		logger.Log.Errorf("❌ Create: Error inserting counter-offer: %v", err)
		return fmt.Errorf("failed to insert counter-offer: %w", err)
	}

	if err := updateOrderHeader(ctx, tx, order, models.OrderStatusPendingApproval); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Log.Errorf("❌ Create: Error committing transaction: %v", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Infof("✅ Create: Counter-offer id=%s stored, order_id=%d is %s", offer.ID, order.ID, order.Status)
	return nil
}

// GetByID retrieves a counter-offer
func (r *CounterOfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CounterOffer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+counterOfferColumns+` FROM counter_offers WHERE id = $1`, id)
	offer, err := scanCounterOffer(row)
	if err != nil {
		return nil, fmt.Errorf("counter-offer %s: %w", id, err)
	}
	return offer, nil
}

// GetLatestByOrderID retrieves the most recent counter-offer of an order
func (r *CounterOfferRepository) GetLatestByOrderID(ctx context.Context, orderID int64) (*models.CounterOffer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+counterOfferColumns+`
		FROM counter_offers
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, orderID)
	offer, err := scanCounterOffer(row)
	if err != nil {
		return nil, fmt.Errorf("counter-offer for order %d: %w", orderID, err)
	}
	return offer, nil
}

func scanCounterOffer(row *sql.Row) (*models.CounterOffer, error) {
	var offer models.CounterOffer
	var changes []byte
	var respondedAt sql.NullTime

	err := row.Scan(
		&offer.ID,
		&offer.OrderID,
		&offer.OriginalAmount,
		&offer.ProposedAmount,
		&changes,
		&offer.Status,
		&offer.ExpiryDate,
		&offer.CreatedAt,
		&respondedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan counter-offer: %w", err)
	}

	if err := json.Unmarshal(changes, &offer.ProductChanges); err != nil {
		return nil, fmt.Errorf("failed to decode product changes: %w", err)
	}
	if respondedAt.Valid {
		offer.RespondedAt = &respondedAt.Time
	}
	return &offer, nil
}

// Resolve stores an accepted or rejected offer together with its order.
// Both rows must still be in their pending states or ErrConflict is returned.
func (r *CounterOfferRepository) Resolve(ctx context.Context, offer *models.CounterOffer, order *models.Order) error {
	logger.Log.Infof("📦 Resolve: counter-offer id=%s -> %s, order_id=%d -> %s", offer.ID, offer.Status, order.ID, order.Status)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Log.Errorf("❌ Resolve: Error starting transaction: %v", err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE counter_offers
		SET status = $1, responded_at = $2
		WHERE id = $3 AND status = $4
	`, offer.Status, offer.RespondedAt, offer.ID, models.CounterOfferPending)
	if err != nil {
		logger.Log.Errorf("❌ Resolve: Error updating counter-offer: %v", err)
		return fmt.Errorf("failed to update counter-offer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("counter-offer %s: %w", offer.ID, ErrConflict)
	}

	if err := updateOrderHeader(ctx, tx, order, models.OrderStatusCounterOfferSent); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Log.Errorf("❌ Resolve: Error committing transaction: %v", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Infof("✅ Resolve: counter-offer id=%s is %s", offer.ID, offer.Status)
	return nil
}

// MarkExpired persists a lazily detected expiry. Offers no longer pending are left alone.
func (r *CounterOfferRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE counter_offers SET status = $1 WHERE id = $2 AND status = $3
	`, models.CounterOfferExpired, id, models.CounterOfferPending)
	if err != nil {
		logger.Log.Errorf("❌ MarkExpired: Error expiring counter-offer id=%s: %v", id, err)
		return fmt.Errorf("failed to expire counter-offer: %w", err)
	}
	logger.Log.Infof("⌛ MarkExpired: counter-offer id=%s expired", id)
	return nil
}
