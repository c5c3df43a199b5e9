package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"onboarding/internal/registration/models"
	"onboarding/internal/registration/store/storetest"
)

func TestMemoryStoreContract(t *testing.T) {
	suite.Run(t, &storetest.ContractSuite{
		NewStore: func() storetest.Store { return New() },
	})
}

func TestExpiredAttemptsAreInvisible(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := New(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	attempt := models.NewAttempt("a1", "s1", "a@b.io", "44", "7700900123", models.ChannelWeb, now, 48*time.Hour)
	require.NoError(t, store.CreateAttempt(ctx, attempt, models.StepIdentityRecordCreated))

	now = now.Add(49 * time.Hour)
	_, err := store.FindAttempt(ctx, "s1")
	assert.Error(t, err)

	found, err := store.FindIncomplete(ctx, now, models.TotalStepKinds)
	require.NoError(t, err)
	assert.Empty(t, found)
}
