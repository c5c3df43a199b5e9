// Package storetest holds the behavioural contract every saga state store
// backend must satisfy. Backend packages run it from their own tests.
package storetest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"onboarding/internal/registration/models"
	"onboarding/pkg/platform/sentinel"
)

// Store is the full saga state store surface.
type Store interface {
	CreateAttempt(ctx context.Context, attempt *models.Attempt, first models.StepKind) error
	AppendRecords(ctx context.Context, attemptID string, kinds ...models.StepKind) error
	FindAttempt(ctx context.Context, subjectID string) (*models.Attempt, error)
	ListRecords(ctx context.Context, attemptID string) ([]models.CompletionRecord, error)
	FindIncomplete(ctx context.Context, olderThan time.Time, totalStepCount int) ([]*models.Attempt, error)
	DeleteRecords(ctx context.Context, attemptID string) error
	DeleteAttempt(ctx context.Context, attemptID string) error
}

// ContractSuite exercises a Store built by NewStore before each test.
type ContractSuite struct {
	suite.Suite
	NewStore func() Store

	store Store
	ctx   context.Context
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
}

// attemptAged builds an attempt whose watermark lies age in the past and
// whose retention keeps it alive for another day.
func attemptAged(age time.Duration, channel models.Channel) *models.Attempt {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return models.NewAttempt(
		uuid.NewString(), uuid.NewString(),
		"user-"+uuid.NewString()[:8]+"@example.com", "44", "7700900123",
		channel, now.Add(-age), age+24*time.Hour,
	)
}

func (s *ContractSuite) TestCreateAndFind() {
	attempt := attemptAged(time.Minute, models.ChannelMobile)
	s.Require().NoError(s.store.CreateAttempt(s.ctx, attempt, models.StepIdentityRecordCreated))

	found, err := s.store.FindAttempt(s.ctx, attempt.SubjectID)
	s.Require().NoError(err)
	s.Equal(attempt.ID, found.ID)
	s.Equal(attempt.Email, found.Email)
	s.Equal(models.ChannelMobile, found.Channel)
	s.Equal(int64(1), found.Version)
	s.WithinDuration(attempt.LastModifiedAt, found.LastModifiedAt, time.Millisecond)

	records, err := s.store.ListRecords(s.ctx, attempt.ID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(models.StepIdentityRecordCreated, records[0].Kind)
	s.Equal(attempt.ID, records[0].AttemptID)
}

func (s *ContractSuite) TestCreateRejectsDuplicateSubject() {
	first := attemptAged(time.Minute, models.ChannelWeb)
	s.Require().NoError(s.store.CreateAttempt(s.ctx, first, models.StepIdentityRecordCreated))

	second := attemptAged(time.Minute, models.ChannelWeb)
	second.SubjectID = first.SubjectID
	err := s.store.CreateAttempt(s.ctx, second, models.StepIdentityRecordCreated)
	s.True(errors.Is(err, sentinel.ErrConflict), "got %v", err)
}

func (s *ContractSuite) TestMissingAttempt() {
	_, err := s.store.FindAttempt(s.ctx, uuid.NewString())
	s.True(errors.Is(err, sentinel.ErrNotFound), "got %v", err)

	err = s.store.AppendRecords(s.ctx, uuid.NewString(), models.StepKycUserCreated)
	s.True(errors.Is(err, sentinel.ErrNotFound), "got %v", err)
}

func (s *ContractSuite) TestAppendKeepsDuplicates() {
	attempt := attemptAged(time.Minute, models.ChannelMobile)
	s.Require().NoError(s.store.CreateAttempt(s.ctx, attempt, models.StepIdentityRecordCreated))

	s.Require().NoError(s.store.AppendRecords(s.ctx, attempt.ID, models.StepKycUserCreated, models.StepKycWalletLinked))
	s.Require().NoError(s.store.AppendRecords(s.ctx, attempt.ID, models.StepKycUserCreated, models.StepKycWalletLinked))

	records, err := s.store.ListRecords(s.ctx, attempt.ID)
	s.Require().NoError(err)
	s.Len(records, 5)
}

func (s *ContractSuite) TestFindIncompleteCountsDistinctKinds() {
	// 6/6 kinds with redelivered duplicates: complete, never selected
	complete := attemptAged(48*time.Hour, models.ChannelMobile)
	s.Require().NoError(s.store.CreateAttempt(s.ctx, complete, models.StepIdentityRecordCreated))
	s.Require().NoError(s.store.AppendRecords(s.ctx, complete.ID, models.AllSteps...))
	s.Require().NoError(s.store.AppendRecords(s.ctx, complete.ID, models.StepReferralBountyGranted))

	// 5/6 kinds padded with duplicates: still incomplete
	padded := attemptAged(48*time.Hour, models.ChannelMobile)
	s.Require().NoError(s.store.CreateAttempt(s.ctx, padded, models.StepIdentityRecordCreated))
	s.Require().NoError(s.store.AppendRecords(s.ctx, padded.ID,
		models.StepKycUserCreated, models.StepKycWalletLinked, models.StepWalletCreated,
		models.StepReferralBountyGranted, models.StepReferralBountyGranted, models.StepIdentityRecordCreated,
	))

	// recent and incomplete: inside the horizon
	recent := attemptAged(time.Hour, models.ChannelWeb)
	s.Require().NoError(s.store.CreateAttempt(s.ctx, recent, models.StepIdentityRecordCreated))

	found, err := s.store.FindIncomplete(s.ctx, time.Now().Add(-24*time.Hour), models.TotalStepKinds)
	s.Require().NoError(err)

	ids := map[string]*models.Attempt{}
	for _, a := range found {
		ids[a.ID] = a
	}
	s.NotContains(ids, complete.ID)
	s.NotContains(ids, recent.ID)
	s.Require().Contains(ids, padded.ID)
	s.Len(ids[padded.ID].RecordedSteps, 5)
	s.LessOrEqual(len(ids[padded.ID].RecordedSteps), models.TotalStepKinds)
}

func (s *ContractSuite) TestDeletesAreIdempotent() {
	attempt := attemptAged(48*time.Hour, models.ChannelWeb)
	s.Require().NoError(s.store.CreateAttempt(s.ctx, attempt, models.StepIdentityRecordCreated))
	s.Require().NoError(s.store.AppendRecords(s.ctx, attempt.ID, models.StepReferralBountyGranted))

	for i := 0; i < 2; i++ {
		s.Require().NoError(s.store.DeleteRecords(s.ctx, attempt.ID))
		s.Require().NoError(s.store.DeleteAttempt(s.ctx, attempt.ID))
	}

	_, err := s.store.FindAttempt(s.ctx, attempt.SubjectID)
	s.True(errors.Is(err, sentinel.ErrNotFound))

	records, err := s.store.ListRecords(s.ctx, attempt.ID)
	s.Require().NoError(err)
	s.Empty(records)

	found, err := s.store.FindIncomplete(s.ctx, time.Now(), models.TotalStepKinds)
	s.Require().NoError(err)
	for _, a := range found {
		s.NotEqual(attempt.ID, a.ID)
	}
}
