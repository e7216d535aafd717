package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/casevault/backend/internal/logger"
)

type retryItem struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps a Bus so callers never block on delivery.
// A failed publish is queued and retried with exponential backoff in a
// background worker; events that exhaust their retries are appended to
// a dead-letter file for manual replay.
type ResilientPublisher struct {
	inner       Bus
	maxAttempts int
	baseDelay   time.Duration
	deadLetter  *DeadLetterWriter

	queue chan retryItem
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewResilientPublisher creates a ResilientPublisher and starts its
// retry worker.
func NewResilientPublisher(inner Bus, maxAttempts int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		inner:       inner,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		deadLetter:  dlw,
		queue:       make(chan retryItem, RetryQueueBufferSize),
		done:        make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// PublishWithRetry attempts one synchronous publish and hands failures
// to the retry worker. It never returns an error: the caller's work is
// already durable and must not fail because a broadcast did.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err)

	select {
	case p.queue <- retryItem{event: event, attempts: 1, lastErr: err}:
	default:
		logger.FromContext(ctx).Error(LogMsgRetryQueueFull, "event_type", event.Type)
		if werr := p.deadLetter.Write(event, 1, err); werr != nil {
			logger.FromContext(ctx).Error(LogMsgDeadLetterWriteFailed, "error", werr)
		}
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	// Detached context: request contexts are long gone by retry time.
	ctx := context.Background()

	for {
		select {
		case <-p.done:
			p.drainQueue()
			return
		case item := <-p.queue:
			p.retry(ctx, item)
		}
	}
}

func (p *ResilientPublisher) retry(ctx context.Context, item retryItem) {
	for item.attempts < p.maxAttempts {
		delay := CalculateRetryDelay(p.baseDelay, item.attempts)

		select {
		case <-p.done:
			p.writeDeadLetter(item)
			return
		case <-time.After(delay):
		}

		item.attempts++
		if err := p.inner.Publish(ctx, item.event); err == nil {
			logger.Info(LogMsgEventRetrySucceeded,
				"event_type", item.event.Type,
				"attempt", item.attempts)
			return
		} else {
			item.lastErr = err
			logger.Warn(LogMsgEventRetryFailed,
				"event_type", item.event.Type,
				"attempt", item.attempts,
				"error", err)
		}
	}

	logger.Error(LogMsgEventRetryExhausted,
		"event_type", item.event.Type,
		"attempts", item.attempts)
	p.writeDeadLetter(item)
}

func (p *ResilientPublisher) drainQueue() {
	drained := 0
	for {
		select {
		case item := <-p.queue:
			p.writeDeadLetter(item)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(item retryItem) {
	if item.lastErr == nil {
		item.lastErr = errors.New("unknown publish failure")
	}
	if err := p.deadLetter.Write(item.event, item.attempts, item.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the retry worker, spills any queued events to the
// dead-letter file, and closes it.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	close(p.done)

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
	}

	return p.deadLetter.Close()
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}
