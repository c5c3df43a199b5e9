package consumer

import (
	"context"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a broker record detached from the client library.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Handler processes a single message. A returned error is logged by the
// consumer; it never stops consumption.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Poller is the subset of *kgo.Client the consumer needs.
type Poller interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitUncommittedOffsets(ctx context.Context) error
}

// ErrorObserver is notified when a handler fails.
type ErrorObserver func(topic string, err error)

// Consumer polls a consumer group and dispatches every record to a Handler,
// committing offsets after each polled batch.
type Consumer struct {
	client   Poller
	handler  Handler
	logger   *slog.Logger
	observer ErrorObserver
}

type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

func WithErrorObserver(fn ErrorObserver) Option {
	return func(c *Consumer) {
		c.observer = fn
	}
}

func New(client Poller, handler Handler, opts ...Option) *Consumer {
	c := &Consumer{
		client:  client,
		handler: handler,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, fe := range fetches.Errors() {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", fe.Topic,
				"partition", fe.Partition,
				"error", fe.Err,
			)
		}

		fetches.EachRecord(func(r *kgo.Record) {
			c.dispatch(ctx, &Message{
				Topic:     r.Topic,
				Partition: r.Partition,
				Offset:    r.Offset,
				Key:       r.Key,
				Value:     r.Value,
				Timestamp: r.Timestamp,
			})
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil && ctx.Err() == nil {
			c.logger.ErrorContext(ctx, "kafka offset commit failed", "error", err)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "handler panicked",
				"topic", msg.Topic,
				"offset", msg.Offset,
				"panic", r,
			)
		}
	}()
	if err := c.handler.Handle(ctx, msg); err != nil {
		c.logger.ErrorContext(ctx, "failed to handle message",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		if c.observer != nil {
			c.observer(msg.Topic, err)
		}
	}
}
