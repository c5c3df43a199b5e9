package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/platform/metrics"
	"onboarding/internal/registration/models"
	"onboarding/pkg/platform/sentinel"
)

const topic = "registration.user-created"

type record struct {
	topic string
	key   string
	value []byte
}

// fakeProducer fails the first failures calls, then acknowledges.
type fakeProducer struct {
	mu       sync.Mutex
	failures int
	calls    int
	records  []record
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeProducer) Produce(ctx context.Context, topic string, key, value []byte) error {
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("broker unavailable")
	}
	f.records = append(f.records, record{topic: topic, key: string(key), value: value})
	return nil
}

func (f *fakeProducer) delivered() []record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]record(nil), f.records...)
}

func newTestPublisher(p Producer, opts ...Option) *Publisher {
	opts = append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithBackoff(time.Millisecond, 4*time.Millisecond),
	}, opts...)
	return New(p, topic, opts...)
}

func TestPublisherRetriesUntilAcknowledged(t *testing.T) {
	producer := &fakeProducer{failures: 3}
	m := metrics.New(prometheus.NewRegistry())
	pub := newTestPublisher(producer, WithMetrics(m))

	evt := models.UserCreated{SubjectID: "subject-1", Email: "ada@example.com", Channel: models.ChannelWeb}
	require.NoError(t, pub.PublishUserCreated(context.Background(), evt))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, pub.Close(ctx))

	got := producer.delivered()
	require.Len(t, got, 1)
	assert.Equal(t, topic, got[0].topic)
	assert.Equal(t, "subject-1", got[0].key)

	var decoded models.UserCreated
	require.NoError(t, json.Unmarshal(got[0].value, &decoded))
	assert.Equal(t, evt, decoded)
	assert.Equal(t, 4, producer.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished))
}

func TestPublisherQueueFull(t *testing.T) {
	producer := &fakeProducer{started: make(chan struct{}, 1), release: make(chan struct{})}
	pub := newTestPublisher(producer, WithQueueSize(1))
	ctx := context.Background()

	require.NoError(t, pub.PublishUserCreated(ctx, models.UserCreated{SubjectID: "in-flight"}))
	<-producer.started
	require.NoError(t, pub.PublishUserCreated(ctx, models.UserCreated{SubjectID: "queued"}))

	err := pub.PublishUserCreated(ctx, models.UserCreated{SubjectID: "overflow"})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	close(producer.release)
	closeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, pub.Close(closeCtx))
	assert.Len(t, producer.delivered(), 2)
}

func TestPublisherCloseReportsUndelivered(t *testing.T) {
	producer := &fakeProducer{failures: 1 << 30}
	pub := newTestPublisher(producer)

	require.NoError(t, pub.PublishUserCreated(context.Background(), models.UserCreated{SubjectID: "a"}))
	require.NoError(t, pub.PublishUserCreated(context.Background(), models.UserCreated{SubjectID: "b"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pub.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "2 user created events undelivered")

	err = pub.PublishUserCreated(context.Background(), models.UserCreated{SubjectID: "late"})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.NoError(t, pub.Close(context.Background()))
}
