// Package events delivers outbound saga events to the broker. Events are
// queued in memory and handed to a single worker that retries each one until
// the broker acknowledges it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"onboarding/internal/platform/metrics"
	"onboarding/internal/registration/models"
	"onboarding/pkg/platform/sentinel"
)

// Producer writes one record and returns once it is acknowledged.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

const (
	defaultQueueSize      = 1024
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 30 * time.Second
)

// Publisher is a bounded, at-least-once outbound queue for UserCreated.
type Publisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
	metrics  *metrics.Metrics

	queueSize      int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan models.UserCreated

	runCtx context.Context
	stop   context.CancelFunc
	done   chan struct{}

	abandoned atomic.Int64
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithQueueSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithBackoff sets the first retry delay and the cap it doubles up to.
func WithBackoff(initial, limit time.Duration) Option {
	return func(p *Publisher) {
		if initial > 0 {
			p.initialBackoff = initial
		}
		if limit > 0 {
			p.maxBackoff = limit
		}
	}
}

// New creates a publisher for topic and starts its delivery worker.
func New(producer Producer, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		producer:       producer,
		topic:          topic,
		logger:         slog.Default(),
		queueSize:      defaultQueueSize,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.queue = make(chan models.UserCreated, p.queueSize)
	p.runCtx, p.stop = context.WithCancel(context.Background())
	go p.run()
	return p
}

// PublishUserCreated enqueues evt without blocking. A full or closed queue
// returns sentinel.ErrUnavailable.
func (p *Publisher) PublishUserCreated(ctx context.Context, evt models.UserCreated) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("publisher closed: %w", sentinel.ErrUnavailable)
	}
	select {
	case p.queue <- evt:
		p.observeDepth()
		return nil
	default:
		p.logger.WarnContext(ctx, "user created queue full, dropping event",
			"subject_id", evt.SubjectID,
			"queue_size", p.queueSize,
		)
		if p.metrics != nil {
			p.metrics.IncEventsDropped("queue_full")
		}
		return fmt.Errorf("user created queue full: %w", sentinel.ErrUnavailable)
	}
}

// Close stops accepting events and waits for queued ones to be delivered. If
// ctx ends first, delivery is abandoned and the undelivered count reported.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	select {
	case <-p.done:
		p.stop()
		return nil
	case <-ctx.Done():
		p.stop()
		<-p.done
		return fmt.Errorf("%d user created events undelivered: %w", p.abandoned.Load(), ctx.Err())
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for evt := range p.queue {
		p.observeDepth()
		p.deliver(evt)
	}
}

func (p *Publisher) deliver(evt models.UserCreated) {
	value, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("CRITICAL: failed to marshal user created event",
			"subject_id", evt.SubjectID,
			"error", err,
		)
		if p.metrics != nil {
			p.metrics.IncEventsDropped("marshal")
		}
		return
	}

	backoff := p.initialBackoff
	for attempt := 1; ; attempt++ {
		err := p.producer.Produce(p.runCtx, p.topic, []byte(evt.SubjectID), value)
		if err == nil {
			if p.metrics != nil {
				p.metrics.IncEventsPublished()
			}
			return
		}
		if p.runCtx.Err() != nil {
			p.abandon(evt, err)
			return
		}
		p.logger.Warn("user created delivery failed, retrying",
			"subject_id", evt.SubjectID,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-p.runCtx.Done():
			timer.Stop()
			p.abandon(evt, p.runCtx.Err())
			return
		}
		backoff = min(backoff*2, p.maxBackoff)
	}
}

func (p *Publisher) abandon(evt models.UserCreated, err error) {
	p.abandoned.Add(1)
	p.logger.Error("user created event undelivered at shutdown",
		"subject_id", evt.SubjectID,
		"error", err,
	)
	if p.metrics != nil {
		p.metrics.IncEventsDropped("shutdown")
	}
}

func (p *Publisher) observeDepth() {
	if p.metrics != nil {
		p.metrics.SetEventQueueDepth(len(p.queue))
	}
}
