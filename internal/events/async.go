package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultPublishTimeout bounds a single background delivery.
	DefaultPublishTimeout = 5 * time.Second
	// DefaultMaxInFlight bounds concurrent background deliveries.
	DefaultMaxInFlight = 64
)

// ErrPublisherBusy is returned when every delivery slot is taken. The event
// is dropped.
var ErrPublisherBusy = errors.New("event publisher busy, event dropped")

// AsyncPublisher hands events to a wrapped publisher on background
// goroutines, so callers never wait on the broker.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	slots   *semaphore.Weighted
	wg      sync.WaitGroup
	logger  zerolog.Logger
}

// NewAsyncPublisher wraps next. Each delivery gets its own timeout and at
// most maxInFlight deliveries run at once.
func NewAsyncPublisher(next Publisher, timeout time.Duration, maxInFlight int, logger zerolog.Logger) *AsyncPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &AsyncPublisher{
		next:    next,
		timeout: timeout,
		slots:   semaphore.NewWeighted(int64(maxInFlight)),
		logger:  logger.With().Str("publisher", "async").Logger(),
	}
}

// PublishOrderCreated schedules delivery and returns immediately. The
// caller's cancellation does not reach the delivery; only the timeout does.
func (p *AsyncPublisher) PublishOrderCreated(ctx context.Context, event model.OrderCreatedEvent) error {
	if !p.slots.TryAcquire(1) {
		return ErrPublisherBusy
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.slots.Release(1)

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		if err := p.next.PublishOrderCreated(ctx, event); err != nil {
			p.logger.Warn().Err(err).Int64("order_id", event.OrderID).Msg("failed to deliver order event")
		}
	}()
	return nil
}

// Close waits for in-flight deliveries, then closes the wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.wg.Wait()
	return p.next.Close()
}

// sendWithContext runs send and gives up when ctx ends first. send keeps
// running in the background until the client library returns.
func sendWithContext(ctx context.Context, send func() error) error {
	done := make(chan error, 1)
	go func() { done <- send() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
