package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmacia-compras/models"
)

func TestTransitionOrder_ValidPath(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &models.Order{Status: models.OrderStatusDraft}

	steps := []models.OrderStatus{
		models.OrderStatusPendingApproval,
		models.OrderStatusCounterOfferSent,
		models.OrderStatusApproved,
		models.OrderStatusProcessing,
	}
	for _, next := range steps {
		require.NoError(t, TransitionOrder(order, next, now))
		assert.Equal(t, next, order.Status)
	}
	assert.Equal(t, now, order.UpdatedAt)
}

func TestTransitionOrder_Invalid(t *testing.T) {
	cases := []struct {
		from models.OrderStatus
		to   models.OrderStatus
	}{
		{models.OrderStatusDraft, models.OrderStatusApproved},
		{models.OrderStatusRejected, models.OrderStatusApproved},
		{models.OrderStatusCounterOfferSent, models.OrderStatusCounterOfferSent},
		{models.OrderStatusProcessing, models.OrderStatusDraft},
		{models.OrderStatusApproved, models.OrderStatusRejected},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			order := &models.Order{Status: tc.from}

			err := TransitionOrder(order, tc.to, time.Now())

			assert.ErrorIs(t, err, ErrInvalidTransition)
			var transitionErr *TransitionError
			require.True(t, errors.As(err, &transitionErr))
			assert.Equal(t, tc.from, transitionErr.From)
			assert.Equal(t, tc.from, order.Status)
		})
	}
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.OrderStatusApproved, models.OrderStatusRejected, models.OrderStatusCounterOfferSent},
		AllowedTransitions(models.OrderStatusPendingApproval))
	assert.Empty(t, AllowedTransitions(models.OrderStatusRejected))
	assert.True(t, IsEditable(models.OrderStatusDraft))
	assert.False(t, IsEditable(models.OrderStatusPendingApproval))
}
