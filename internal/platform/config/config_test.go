package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, 48*time.Hour, cfg.Store.Retention)
	assert.Equal(t, 5*time.Second, cfg.Peers.LookupTimeout)
	assert.Equal(t, 60*time.Second, cfg.Reaper.InitialDelay)
	assert.Equal(t, 24*time.Hour, cfg.Reaper.Horizon)
	assert.False(t, cfg.Reaper.Lock)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("REAPER_HORIZON", "36h")
	t.Setenv("REAPER_LOCK", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("EVENTS_QUEUE_SIZE", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, 36*time.Hour, cfg.Reaper.Horizon)
	assert.True(t, cfg.Reaper.Lock)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 1024, cfg.Events.QueueSize, "unparseable values fall back to defaults")
}
