package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_StartsClosed(t *testing.T) {
	b := New("kyc")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "kyc", b.Name())
	assert.True(t, b.Allow())
}

func TestBreaker_OpensOnConsecutiveFailures(t *testing.T) {
	b := New("kyc", WithFailureThreshold(2))

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())

	// already open: no second transition
	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
}

func TestBreaker_SuccessClearsFailureStreak(t *testing.T) {
	b := New("kyc", WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.False(t, b.IsOpen())
}

func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	b := New("kyc", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	b.RecordFailure()
	b.RecordSuccess()
	assert.True(t, b.IsOpen(), "failure while open restarts the success streak")

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_AllowProbesAfterCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New("wallet",
		WithFailureThreshold(1),
		WithCooldown(10*time.Second),
		WithClock(func() time.Time { return now }),
	)
	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow())
	assert.False(t, b.Allow(), "only one probe per cooldown window")

	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("kyc", WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}
