package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits payout lifecycle events to a Kafka topic. Messages are keyed
// by payout id so all events for one payout land on the same partition in
// order.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher creates a new Kafka event publisher
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	return &Publisher{writer: writer, logger: logger}
}

// Publish sends one payout event
func (p *Publisher) Publish(ctx context.Context, event models.PayoutEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payout event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.PayoutID),
		Value: value,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write payout event: %w", err)
	}

	p.logger.Debug("payout event published",
		zap.String("event_id", event.EventID),
		zap.String("type", string(event.Type)),
		zap.String("payout_id", event.PayoutID),
	)
	return nil
}

// Close flushes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ ports.EventPublisher = (*Publisher)(nil)
