package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/pkg/requestcontext"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
}

func exerciseSlidingWindow(t *testing.T, l Limiter, clock *fakeClock) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "otp:203.0.113.7", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 2-i, res.Remaining)
		clock.advance(10 * time.Second)
	}

	res, err := l.Allow(ctx, "otp:203.0.113.7", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	other, err := l.Allow(ctx, "otp:198.51.100.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")

	// The first request falls out of the window.
	clock.advance(31 * time.Second)
	res, err = l.Allow(ctx, "otp:203.0.113.7", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemorySlidingWindow(t *testing.T) {
	clock := newClock()
	m := NewMemory()
	m.now = clock.now
	exerciseSlidingWindow(t, m, clock)
}

func TestRedisSlidingWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := newClock()
	r := NewRedis(client, "ratelimit:")
	r.now = clock.now
	exerciseSlidingWindow(t, r, clock)

	assert.True(t, mr.Exists("ratelimit:otp:203.0.113.7"))
}

func TestPerClientIP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	calls := 0
	h := PerClientIP(NewMemory(), "otp", 1, time.Minute, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sms/registration", nil)
		req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), "203.0.113.7", "test"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := send()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "too many requests")
	assert.Equal(t, 1, calls)
}
