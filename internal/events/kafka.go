package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/model"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// KafkaPublisher sends events to a Kafka topic keyed by order id, so all
// events of one order land on the same partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewKafkaProducerConfig returns the producer settings used for order events.
func NewKafkaProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second
	cfg.ClientID = "storefront"
	return cfg
}

// NewKafkaPublisher connects a synchronous producer to brokers.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to start Sarama producer: %w", err)
	}

	p := NewKafkaPublisherWithProducer(producer, topic, logger)
	p.logger.Info().Strs("brokers", brokers).Msg("Kafka publisher connected")
	return p, nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With().Str("publisher", "kafka").Str("topic", topic).Logger(),
	}
}

// PublishOrderCreated sends the event and waits for the broker ack or the
// end of ctx, whichever comes first.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, event model.OrderCreatedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := encodeOrderCreated(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.OrderID, 10)),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(TypeOrderCreated)},
		},
	}

	var partition int32
	var offset int64
	err = sendWithContext(ctx, func() error {
		var sendErr error
		partition, offset, sendErr = p.producer.SendMessage(msg)
		return sendErr
	})
	if err != nil {
		return fmt.Errorf("failed to send order event: %w", err)
	}

	p.logger.Debug().
		Int64("order_id", event.OrderID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("order event published")
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
