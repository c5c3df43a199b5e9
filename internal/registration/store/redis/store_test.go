package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"onboarding/internal/platform/metrics"
	"onboarding/internal/registration/models"
	"onboarding/internal/registration/store/storetest"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStoreContract(t *testing.T) {
	_, client := newMiniredis(t)
	suite.Run(t, &storetest.ContractSuite{
		NewStore: func() storetest.Store {
			require.NoError(t, client.FlushAll(context.Background()).Err())
			return New(client)
		},
	})
}

func TestDocumentsAreTypedAndExpire(t *testing.T) {
	mr, client := newMiniredis(t)
	store := New(client, WithRetention(48*time.Hour))
	ctx := context.Background()

	now := time.Now()
	attempt := models.NewAttempt("a1", "s1", "a@b.io", "44", "7700900123", models.ChannelMobile, now, 48*time.Hour)
	require.NoError(t, store.CreateAttempt(ctx, attempt, models.StepIdentityRecordCreated))

	raw, err := mr.Get(attemptKey("a1"))
	require.NoError(t, err)
	assert.Contains(t, raw, `"type":"attempt"`)

	records, err := mr.List(recordsKey("a1"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0], `"type":"completion_record"`)

	for _, key := range []string{attemptKey("a1"), subjectKey("s1"), recordsKey("a1")} {
		assert.Greater(t, mr.TTL(key), 47*time.Hour, key)
	}

	mr.FastForward(49 * time.Hour)
	_, err = store.FindAttempt(ctx, "s1")
	assert.Error(t, err)
}

func TestFindIncompletePrunesExpiredIndexEntries(t *testing.T) {
	mr, client := newMiniredis(t)
	store := New(client)
	ctx := context.Background()

	old := time.Now().Add(-72 * time.Hour)
	attempt := models.NewAttempt("a1", "s1", "a@b.io", "44", "7700900123", models.ChannelWeb, old, 96*time.Hour)
	require.NoError(t, store.CreateAttempt(ctx, attempt, models.StepIdentityRecordCreated))

	// retention elapsed: document gone, index entry left behind
	mr.Del(attemptKey("a1"))

	found, err := store.FindIncomplete(ctx, time.Now().Add(-24*time.Hour), models.TotalStepKinds)
	require.NoError(t, err)
	assert.Empty(t, found)

	members, err := mr.ZMembers(watermarkKey)
	if err == nil {
		assert.NotContains(t, members, "a1")
	}
}

func TestUndecodableDocumentsAreSkipped(t *testing.T) {
	mr, client := newMiniredis(t)
	m := metrics.New(prometheus.NewRegistry())
	store := New(client,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(m),
	)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	for _, id := range []string{"healthy", "legacy", "garbled"} {
		attempt := models.NewAttempt(id, "subject-"+id, id+"@b.io", "44", "7700900123", models.ChannelWeb, old, 96*time.Hour)
		require.NoError(t, store.CreateAttempt(ctx, attempt, models.StepIdentityRecordCreated))
	}
	_, err := mr.RPush(recordsKey("legacy"), `{"type":"legacy"}`)
	require.NoError(t, err)
	require.NoError(t, mr.Set(attemptKey("garbled"), "{not json"))

	found, err := store.FindIncomplete(ctx, time.Now().Add(-24*time.Hour), models.TotalStepKinds)
	require.NoError(t, err)
	ids := make([]string, 0, len(found))
	for _, a := range found {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"healthy", "legacy"}, ids)
	for _, a := range found {
		assert.Equal(t, []models.StepKind{models.StepIdentityRecordCreated}, a.RecordedSteps, a.ID)
	}

	records, err := store.ListRecords(ctx, "legacy")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StepIdentityRecordCreated, records[0].Kind)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsSkipped.WithLabelValues(typeAttempt)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsSkipped.WithLabelValues(typeCompletionRecord)))
}

func TestAppendAfterDeleteLeavesNoRecordList(t *testing.T) {
	mr, client := newMiniredis(t)
	store := New(client)
	ctx := context.Background()

	attempt := models.NewAttempt("a1", "s1", "a@b.io", "44", "7700900123", models.ChannelWeb, time.Now(), 48*time.Hour)
	require.NoError(t, store.CreateAttempt(ctx, attempt, models.StepIdentityRecordCreated))
	require.NoError(t, store.DeleteRecords(ctx, "a1"))
	require.NoError(t, store.DeleteAttempt(ctx, "a1"))

	err := store.AppendRecords(ctx, "a1", models.StepKycUserCreated)
	require.Error(t, err)
	assert.False(t, mr.Exists(recordsKey("a1")))
}

func TestAppendKeepsRecordsWithinAttemptLifetime(t *testing.T) {
	mr, client := newMiniredis(t)
	store := New(client, WithRetention(48*time.Hour))
	ctx := context.Background()

	attempt := models.NewAttempt("a1", "s1", "a@b.io", "44", "7700900123", models.ChannelWeb, time.Now(), 48*time.Hour)
	require.NoError(t, store.CreateAttempt(ctx, attempt, models.StepIdentityRecordCreated))

	mr.FastForward(40 * time.Hour)
	require.NoError(t, store.AppendRecords(ctx, "a1", models.StepKycUserCreated, models.StepWalletCreated))

	attemptTTL := mr.TTL(attemptKey("a1"))
	recordsTTL := mr.TTL(recordsKey("a1"))
	assert.Greater(t, recordsTTL, time.Duration(0))
	assert.LessOrEqual(t, recordsTTL, attemptTTL)
	assert.Less(t, recordsTTL, 9*time.Hour)

	records, err := store.ListRecords(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
