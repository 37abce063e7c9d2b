// Package events publishes order lifecycle notifications to a message broker.
// Publishing is fire-and-forget from the caller's point of view: a committed
// order stays committed whatever the broker does.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// TypeOrderCreated is the envelope type of order creation events.
const TypeOrderCreated = "order.created"

// Publisher delivers order events.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event model.OrderCreatedEvent) error
	Close() error
}

// Envelope wraps every event on the wire.
type Envelope struct {
	Type       string                  `json:"type"`
	OccurredAt time.Time               `json:"occurred_at"`
	Data       model.OrderCreatedEvent `json:"data"`
}

func encodeOrderCreated(event model.OrderCreatedEvent) ([]byte, error) {
	body, err := json.Marshal(Envelope{
		Type:       TypeOrderCreated,
		OccurredAt: time.Now().UTC(),
		Data:       event,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}
	return body, nil
}

// NewPublisher builds the publisher selected by cfg.Driver. Broker-backed
// publishers deliver in the background.
func NewPublisher(cfg config.EventsConfig, logger zerolog.Logger) (Publisher, error) {
	var (
		broker Publisher
		err    error
	)

	switch cfg.Driver {
	case "", "none":
		return NewNoopPublisher(logger), nil
	case "amqp":
		broker, err = NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue, logger)
	case "kafka":
		broker, err = NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	default:
		return nil, fmt.Errorf("unknown events driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return NewAsyncPublisher(broker, DefaultPublishTimeout, DefaultMaxInFlight, logger), nil
}

// noopPublisher drops events after logging them at debug level.
type noopPublisher struct {
	logger zerolog.Logger
}

// NewNoopPublisher creates a publisher that discards events.
func NewNoopPublisher(logger zerolog.Logger) Publisher {
	return &noopPublisher{logger: logger.With().Str("publisher", "noop").Logger()}
}

func (p *noopPublisher) PublishOrderCreated(_ context.Context, event model.OrderCreatedEvent) error {
	p.logger.Debug().Int64("order_id", event.OrderID).Msg("order event discarded")
	return nil
}

func (p *noopPublisher) Close() error { return nil }
