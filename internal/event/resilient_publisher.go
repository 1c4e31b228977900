package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/osse101/SpinWheel_Go/internal/logger"
)

type retryEntry struct {
	event   Event
	lastErr error
}

// ResilientPublisher wraps an event Bus with retry and dead-letter handling.
// Failed publishes are queued and retried with exponential backoff on a single worker.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}
	rp.wg.Add(1)
	go rp.retryWorker()
	return rp, nil
}

// Publish attempts delivery once and queues the event for retry on failure.
// It always returns nil so callers are decoupled from downstream handlers.
func (rp *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	rp.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the wrapped bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) Subscription {
	return rp.bus.Subscribe(eventType, handler)
}

// PublishWithRetry publishes the event, queuing it for retry if the first attempt fails
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := rp.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)

	select {
	case <-rp.shutdown:
		rp.writeDeadLetter(event, 1, err)
		return
	default:
	}

	select {
	case rp.retryQueue <- retryEntry{event: event, lastErr: err}:
	default:
		logger.FromContext(ctx).Error(LogMsgRetryQueueFull, "event_type", event.Type)
		rp.writeDeadLetter(event, 1, err)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case entry := <-rp.retryQueue:
			rp.retry(entry)
		case <-rp.shutdown:
			rp.drain()
			return
		}
	}
}

// retry runs up to maxRetries further attempts with delays retryDelay, 2x, 4x...
func (rp *ResilientPublisher) retry(entry retryEntry) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = rp.retryDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = rp.retryDelay * time.Duration(1<<maxShift(rp.maxRetries))
	policy.MaxElapsedTime = 0
	policy.Reset()

	attempts := 1
	lastErr := entry.lastErr
	for i := 0; i < rp.maxRetries; i++ {
		delay := policy.NextBackOff()
		select {
		case <-time.After(delay):
		case <-rp.shutdown:
			// Shutdown gets one last attempt in drain.
			rp.finalAttempt(entry.event, attempts)
			return
		}

		attempts++
		err := rp.bus.Publish(context.Background(), entry.event)
		if err == nil {
			logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", attempts)
			return
		}
		lastErr = err
		logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", attempts, "error", err)
	}

	logger.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", attempts)
	rp.writeDeadLetter(entry.event, attempts, lastErr)
}

func (rp *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			rp.finalAttempt(entry.event, 1)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) finalAttempt(event Event, attempts int) {
	if err := rp.bus.Publish(context.Background(), event); err != nil {
		rp.writeDeadLetter(event, attempts+1, err)
	}
}

func (rp *ResilientPublisher) writeDeadLetter(event Event, attempts int, lastErr error) {
	if err := rp.deadLetter.Write(event, attempts, lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", event.Type, "error", err)
	}
}

// Shutdown stops accepting retries, drains the queue and waits for the worker
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.closeOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return errors.Join(ctx.Err(), rp.deadLetter.Close())
	}
}

func maxShift(n int) int {
	if n < 1 {
		return 0
	}
	if n > 16 {
		return 16
	}
	return n
}
