package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmacia-compras/models"
	"farmacia-compras/repository"
)

type counterOfferReaderFunc func(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error)

func (f counterOfferReaderFunc) GetForOrder(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error) {
	return f(ctx, orderID)
}

func TestDocumentService_RenderCounterOfferHTML(t *testing.T) {
	offer := &models.CounterOfferResponse{CounterOffer: models.CounterOffer{
		OrderID:        7,
		OriginalAmount: d("990"),
		ProposedAmount: d("800"),
		Status:         models.CounterOfferPending,
		ExpiryDate:     fixedNow.Add(72 * time.Hour),
		ProductChanges: []models.ProductDelta{{
			ProductID:          1,
			OriginalQuantity:   120,
			ProposedQuantity:   100,
			OriginalUnitPrice:  d("8.25"),
			ProposedUnitPrice:  d("8"),
			OriginalTotalPrice: d("990"),
			ProposedTotalPrice: d("800"),
			Difference:         d("190"),
			Reason:             "stock ajustado",
		}},
	}}
	reader := counterOfferReaderFunc(func(context.Context, int64) (*models.CounterOfferResponse, error) { return offer, nil })
	svc := NewDocumentService(reader, loaderOf(submittedOrder()), testEngine(), "http://localhost:8080/", "")

	html, err := svc.RenderCounterOfferHTML(context.Background(), 7)

	require.NoError(t, err)
	assert.Contains(t, html, "Contraoferta pedido #7")
	assert.Contains(t, html, "Acetaminofén 500mg")
	assert.Contains(t, html, "stock ajustado")
	assert.Contains(t, html, "$8,2500")
	assert.Contains(t, html, "$990,00")
	assert.Contains(t, html, "$800,00")
	assert.Contains(t, html, "$190,00 (19,19%)")
	assert.Contains(t, html, `class="saving"`)
}

func TestDocumentService_NoOffer(t *testing.T) {
	reader := counterOfferReaderFunc(func(context.Context, int64) (*models.CounterOfferResponse, error) {
		return nil, repository.ErrNotFound
	})
	svc := NewDocumentService(reader, loaderOf(submittedOrder()), testEngine(), "http://localhost:8080", "")

	_, err := svc.RenderCounterOfferHTML(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.GenerateCounterOfferPDF(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDetectChromePath_PrefersConfigured(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, detectChromePath(dir))
}
