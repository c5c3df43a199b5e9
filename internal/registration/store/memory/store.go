package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"onboarding/internal/registration/models"
	"onboarding/pkg/platform/sentinel"
)

// Store is an in-process saga state store for tests and local development.
type Store struct {
	mu        sync.RWMutex
	attempts  map[string]*models.Attempt
	bySubject map[string]string
	records   map[string][]models.CompletionRecord
	retention time.Duration
	now       func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for record timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithRetention sets the expiry horizon applied to completion records.
func WithRetention(d time.Duration) Option {
	return func(s *Store) {
		s.retention = d
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		attempts:  make(map[string]*models.Attempt),
		bySubject: make(map[string]string),
		records:   make(map[string][]models.CompletionRecord),
		retention: 48 * time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CreateAttempt(_ context.Context, attempt *models.Attempt, first models.StepKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bySubject[attempt.SubjectID]; ok {
		return fmt.Errorf("attempt for subject %s: %w", attempt.SubjectID, sentinel.ErrConflict)
	}
	stored := *attempt
	stored.RecordedSteps = nil
	s.attempts[attempt.ID] = &stored
	s.bySubject[attempt.SubjectID] = attempt.ID
	s.records[attempt.ID] = []models.CompletionRecord{s.newRecord(attempt.ID, first)}
	return nil
}

func (s *Store) AppendRecords(_ context.Context, attemptID string, kinds ...models.StepKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.attempts[attemptID]; !ok {
		return fmt.Errorf("attempt %s: %w", attemptID, sentinel.ErrNotFound)
	}
	for _, k := range kinds {
		s.records[attemptID] = append(s.records[attemptID], s.newRecord(attemptID, k))
	}
	return nil
}

func (s *Store) FindAttempt(_ context.Context, subjectID string) (*models.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySubject[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	attempt, ok := s.attempts[id]
	if !ok || attempt.IsExpired(s.now()) {
		return nil, sentinel.ErrNotFound
	}
	out := *attempt
	return &out, nil
}

func (s *Store) ListRecords(_ context.Context, attemptID string) ([]models.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[attemptID]
	out := make([]models.CompletionRecord, len(records))
	copy(out, records)
	return out, nil
}

func (s *Store) FindIncomplete(_ context.Context, olderThan time.Time, totalStepCount int) ([]*models.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var out []*models.Attempt
	for id, attempt := range s.attempts {
		if attempt.IsExpired(now) || !attempt.LastModifiedAt.Before(olderThan) {
			continue
		}
		kinds := make([]models.StepKind, 0, len(s.records[id]))
		for _, r := range s.records[id] {
			kinds = append(kinds, r.Kind)
		}
		distinct := models.DistinctSteps(kinds)
		if len(distinct) >= totalStepCount {
			continue
		}
		a := *attempt
		a.RecordedSteps = distinct
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastModifiedAt.Before(out[j].LastModifiedAt)
	})
	return out, nil
}

func (s *Store) DeleteRecords(_ context.Context, attemptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, attemptID)
	return nil
}

func (s *Store) DeleteAttempt(_ context.Context, attemptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if attempt, ok := s.attempts[attemptID]; ok {
		delete(s.bySubject, attempt.SubjectID)
		delete(s.attempts, attemptID)
	}
	return nil
}

func (s *Store) newRecord(attemptID string, kind models.StepKind) models.CompletionRecord {
	now := s.now()
	return models.CompletionRecord{
		ID:        uuid.NewString(),
		AttemptID: attemptID,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(s.retention),
	}
}
