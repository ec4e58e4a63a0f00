// Package events publishes counter-offer notifications to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"farmacia-compras/logger"
	"farmacia-compras/models"
)

// EventType names a counter-offer notification
type EventType string

const (
	CounterOfferSent     EventType = "counter_offer.sent"
	CounterOfferAccepted EventType = "counter_offer.accepted"
	CounterOfferRejected EventType = "counter_offer.rejected"
	CounterOfferExpired  EventType = "counter_offer.expired"
)

// CounterOfferEvent is the message body sent for each counter-offer change
type CounterOfferEvent struct {
	Type           EventType                 `json:"type"`
	CounterOfferID uuid.UUID                 `json:"counterOfferId"`
	OrderID        int64                     `json:"orderId"`
	Status         models.CounterOfferStatus `json:"status"`
	OriginalAmount decimal.Decimal           `json:"originalAmount"`
	ProposedAmount decimal.Decimal           `json:"proposedAmount"`
	ExpiryDate     time.Time                 `json:"expiryDate"`
	OccurredAt     time.Time                 `json:"occurredAt"`
}

// NewCounterOfferEvent builds the event for offer
func NewCounterOfferEvent(t EventType, offer *models.CounterOffer, at time.Time) CounterOfferEvent {
	return CounterOfferEvent{
		Type:           t,
		CounterOfferID: offer.ID,
		OrderID:        offer.OrderID,
		Status:         offer.Status,
		OriginalAmount: offer.OriginalAmount,
		ProposedAmount: offer.ProposedAmount,
		ExpiryDate:     offer.ExpiryDate,
		OccurredAt:     at,
	}
}

// Publisher sends counter-offer events
type Publisher interface {
	Publish(ctx context.Context, event CounterOfferEvent) error
	Close() error
}

// KafkaPublisher writes events to a topic keyed by order ID
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// Ensure KafkaPublisher implements Publisher
var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher connects a synchronous producer to brokers
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends one event and waits for the broker acknowledgement
func (p *KafkaPublisher) Publish(ctx context.Context, event CounterOfferEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", event.OrderID)),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		logger.Log.Errorf("❌ Publish: Error sending %s for order_id=%d: %v", event.Type, event.OrderID, err)
		return fmt.Errorf("failed to send event to kafka: %w", err)
	}

	logger.Log.Infof("📨 Publish: %s order_id=%d partition=%d offset=%d", event.Type, event.OrderID, partition, offset)
	return nil
}

// Close closes the underlying producer
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event; used when no brokers are configured
type NopPublisher struct{}

// Ensure NopPublisher implements Publisher
var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(_ context.Context, event CounterOfferEvent) error {
	logger.Log.Debugf("📭 Publish: no broker configured, dropping %s for order_id=%d", event.Type, event.OrderID)
	return nil
}

func (NopPublisher) Close() error { return nil }
