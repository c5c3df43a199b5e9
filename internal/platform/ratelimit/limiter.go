// Package ratelimit provides sliding-window request limiting keyed by an
// arbitrary string, with an in-process and a Redis backed store.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter admits at most limit requests per key inside any window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// Memory is a single-process sliding window limiter.
type Memory struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{windows: make(map[string][]time.Time), now: time.Now}
}

func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stamps := trim(m.windows[key], now.Add(-window))
	if len(stamps) >= limit {
		m.windows[key] = stamps
		return &Result{Allowed: false, Limit: limit, ResetAt: stamps[0].Add(window)}, nil
	}
	stamps = append(stamps, now)
	m.windows[key] = stamps
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(stamps),
		ResetAt:   stamps[0].Add(window),
	}, nil
}

// trim drops timestamps at or before cutoff. Stamps are kept in order.
func trim(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}

// slidingWindowScript trims the sorted set, admits the request when there is
// room and returns {allowed, count, oldest score}.
var slidingWindowScript = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
local count = redis.call("ZCARD", key)
local allowed = 0
if count < limit then
	redis.call("ZADD", key, now, member)
	count = count + 1
	allowed = 1
end
redis.call("PEXPIRE", key, window)
local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
local first = now
if oldest[2] then
	first = tonumber(oldest[2])
end
return {allowed, count, first}
`)

// Redis is a sliding window limiter shared across instances.
type Redis struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedis(client redis.Scripter, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := r.now().UnixMilli()
	res, err := slidingWindowScript.Run(ctx, r.client,
		[]string{r.prefix + key},
		now, window.Milliseconds(), limit, strconv.FormatInt(now, 10)+"-"+uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit %s: unexpected script reply %v", key, res)
	}
	remaining := limit - int(res[1])
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   res[0] == 1,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.UnixMilli(res[2]).Add(window),
	}, nil
}
