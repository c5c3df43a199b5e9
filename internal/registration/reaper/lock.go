package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"onboarding/pkg/platform/sentinel"
)

const leaseKey = "registration:reaper:lease"

// releaseScript deletes the lease only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLease is a single-holder lease kept in Redis with SET NX PX.
type RedisLease struct {
	client leaseClient
	ttl    time.Duration
	logger *slog.Logger
}

type leaseClient interface {
	redis.Scripter
	redis.StringCmdable
}

func NewRedisLease(client leaseClient, ttl time.Duration, logger *slog.Logger) *RedisLease {
	return &RedisLease{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the lease or returns sentinel.ErrLeaseHeld.
func (l *RedisLease) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, leaseKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("set lease: %w", err)
	}
	if !ok {
		return nil, sentinel.ErrLeaseHeld
	}
	return func() {
		ctx := context.WithoutCancel(ctx)
		if err := releaseScript.Run(ctx, l.client, []string{leaseKey}, token).Err(); err != nil {
			l.logger.WarnContext(ctx, "failed to release reaper lease", "error", err)
		}
	}, nil
}
