//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"onboarding/internal/registration/models"
	"onboarding/internal/registration/store/storetest"
	"onboarding/pkg/testutil/containers"
)

func TestPostgresStoreContract(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	require.NoError(t, Migrate(context.Background(), pg.DB))
	require.NoError(t, Migrate(context.Background(), pg.DB), "migration is idempotent")

	suite.Run(t, &storetest.ContractSuite{
		NewStore: func() storetest.Store {
			require.NoError(t, pg.Truncate(context.Background(), "completion_records", "registration_attempts"))
			return New(pg.DB)
		},
	})
}

func TestPostgresRejectsUnknownStepKinds(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, pg.DB))

	store := New(pg.DB)
	attempt := models.NewAttempt("8f14e45f-ceea-467a-9575-1f3e6f1c0a11", "subject-1", "a@b.io", "44", "7700900123",
		models.ChannelWeb, time.Now(), 48*time.Hour)
	require.NoError(t, store.CreateAttempt(ctx, attempt, models.StepIdentityRecordCreated))

	require.Error(t, store.AppendRecords(ctx, attempt.ID, models.StepKind("legacy_step")))

	records, err := store.ListRecords(ctx, attempt.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
}
