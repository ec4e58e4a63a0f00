package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmacia-compras/models"
)

func testOffer() *models.CounterOffer {
	return &models.CounterOffer{
		ID:             uuid.New(),
		OrderID:        7,
		OriginalAmount: decimal.RequireFromString("1125"),
		ProposedAmount: decimal.RequireFromString("945"),
		Status:         models.CounterOfferPending,
		ExpiryDate:     time.Date(2025, 5, 13, 9, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	offer := testOffer()
	event := NewCounterOfferEvent(CounterOfferSent, offer, time.Now())

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "counter-offers", msg.Topic)
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "7", string(key))

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var decoded CounterOfferEvent
		require.NoError(t, json.Unmarshal(value, &decoded))
		assert.Equal(t, CounterOfferSent, decoded.Type)
		assert.Equal(t, offer.ID, decoded.CounterOfferID)
		assert.True(t, offer.ProposedAmount.Equal(decoded.ProposedAmount))
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer, "counter-offers")
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisherWithProducer(producer, "counter-offers")
	err := publisher.Publish(context.Background(), NewCounterOfferEvent(CounterOfferAccepted, testOffer(), time.Now()))

	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaPublisherWithProducer(producer, "counter-offers")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := publisher.Publish(ctx, NewCounterOfferEvent(CounterOfferExpired, testOffer(), time.Now()))

	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, publisher.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewCounterOfferEvent(CounterOfferSent, testOffer(), time.Now())))
	assert.NoError(t, p.Close())
}
