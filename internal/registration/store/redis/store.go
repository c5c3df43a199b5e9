// Package redis persists the saga state in Redis.
//
// Attempts and completion records are JSON documents tagged with their type
// and share the "registration:" keyspace:
//
//	registration:attempt:{attemptID}   attempt document
//	registration:subject:{subjectID}   attempt id (lookup by subject)
//	registration:records:{attemptID}   list of completion record documents
//	registration:attempts:watermark    sorted set of attempt ids by watermark
//
// Every document key carries the attempt's remaining retention as a backstop.
// Documents that fail to decode are logged and skipped so one corrupt entry
// never hides the rest of the keyspace from the reaper.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"onboarding/internal/platform/metrics"
	"onboarding/internal/registration/models"
	"onboarding/pkg/platform/sentinel"
)

const (
	keyPrefix    = "registration:"
	watermarkKey = keyPrefix + "attempts:watermark"

	typeAttempt          = "attempt"
	typeCompletionRecord = "completion_record"

	scanBatch = 100
)

func attemptKey(id string) string        { return keyPrefix + "attempt:" + id }
func subjectKey(subjectID string) string { return keyPrefix + "subject:" + subjectID }
func recordsKey(attemptID string) string { return keyPrefix + "records:" + attemptID }

type attemptDoc struct {
	Type           string    `json:"type"`
	ID             string    `json:"id"`
	SubjectID      string    `json:"subjectId"`
	Email          string    `json:"email"`
	CountryCode    string    `json:"countryCode"`
	MobileNo       string    `json:"mobileNo"`
	Channel        string    `json:"channel"`
	CreatedAt      time.Time `json:"createdAt"`
	LastModifiedAt time.Time `json:"lastModifiedAt"`
	Version        int64     `json:"version"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

type recordDoc struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	AttemptID string    `json:"attemptId"`
	Kind      string    `json:"stepKind"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store implements the saga state store on go-redis.
type Store struct {
	client    redis.UniversalClient
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Store)

func WithRetention(d time.Duration) Option {
	return func(s *Store) {
		s.retention = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:    client,
		retention: 48 * time.Hour,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ttlFor is the remaining life of an attempt, falling back to the full
// retention when its expiry is unset or already behind the store clock.
func (s *Store) ttlFor(attempt *models.Attempt) time.Duration {
	if d := attempt.ExpiresAt.Sub(s.now()); d > 0 {
		return d
	}
	return s.retention
}

func (s *Store) CreateAttempt(ctx context.Context, attempt *models.Attempt, first models.StepKind) error {
	ttl := s.ttlFor(attempt)

	claimed, err := s.client.SetNX(ctx, subjectKey(attempt.SubjectID), attempt.ID, ttl).Result()
	if err != nil {
		return fmt.Errorf("claim subject %s: %w", attempt.SubjectID, err)
	}
	if !claimed {
		return fmt.Errorf("attempt for subject %s: %w", attempt.SubjectID, sentinel.ErrConflict)
	}

	attemptJSON, err := json.Marshal(toAttemptDoc(attempt))
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	recordJSON, err := json.Marshal(s.newRecord(attempt.ID, first))
	if err != nil {
		return fmt.Errorf("marshal completion record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, attemptKey(attempt.ID), attemptJSON, ttl)
		pipe.RPush(ctx, recordsKey(attempt.ID), recordJSON)
		pipe.Expire(ctx, recordsKey(attempt.ID), ttl)
		pipe.ZAdd(ctx, watermarkKey, redis.Z{
			Score:  float64(attempt.LastModifiedAt.UnixMilli()),
			Member: attempt.ID,
		})
		return nil
	})
	if err != nil {
		_ = s.client.Del(ctx, subjectKey(attempt.SubjectID)).Err()
		return fmt.Errorf("create attempt %s: %w", attempt.ID, err)
	}
	return nil
}

// appendScript pushes records onto an attempt's list only while the attempt
// document exists, and gives the list the attempt's remaining TTL.
//
// KEYS[1] attempt key, KEYS[2] records key; ARGV are the record documents.
var appendScript = redis.NewScript(`
local ttl = redis.call('PTTL', KEYS[1])
if ttl == -2 then
  return 0
end
redis.call('RPUSH', KEYS[2], unpack(ARGV))
if ttl > 0 then
  redis.call('PEXPIRE', KEYS[2], ttl)
end
return 1
`)

func (s *Store) AppendRecords(ctx context.Context, attemptID string, kinds ...models.StepKind) error {
	if len(kinds) == 0 {
		return nil
	}

	docs := make([]any, 0, len(kinds))
	for _, k := range kinds {
		b, err := json.Marshal(s.newRecord(attemptID, k))
		if err != nil {
			return fmt.Errorf("marshal completion record: %w", err)
		}
		docs = append(docs, b)
	}

	ok, err := appendScript.Run(ctx, s.client, []string{attemptKey(attemptID), recordsKey(attemptID)}, docs...).Int()
	if err != nil {
		return fmt.Errorf("append records to %s: %w", attemptID, err)
	}
	if ok == 0 {
		return fmt.Errorf("attempt %s: %w", attemptID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Store) FindAttempt(ctx context.Context, subjectID string) (*models.Attempt, error) {
	id, err := s.client.Get(ctx, subjectKey(subjectID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup subject %s: %w", subjectID, err)
	}
	return s.getAttempt(ctx, id)
}

func (s *Store) getAttempt(ctx context.Context, id string) (*models.Attempt, error) {
	raw, err := s.client.Get(ctx, attemptKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt %s: %w", id, err)
	}
	return decodeAttempt(raw)
}

func (s *Store) ListRecords(ctx context.Context, attemptID string) ([]models.CompletionRecord, error) {
	raw, err := s.client.LRange(ctx, recordsKey(attemptID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list records of %s: %w", attemptID, err)
	}
	return s.decodeRecords(ctx, attemptID, raw), nil
}

// decodeRecords decodes an attempt's record list, skipping documents that
// are not completion records.
func (s *Store) decodeRecords(ctx context.Context, attemptID string, raw []string) []models.CompletionRecord {
	out := make([]models.CompletionRecord, 0, len(raw))
	for _, r := range raw {
		rec, err := decodeRecord([]byte(r))
		if err != nil {
			s.skipped(ctx, typeCompletionRecord, attemptID, err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (s *Store) skipped(ctx context.Context, document, attemptID string, err error) {
	if s.metrics != nil {
		s.metrics.IncDocumentSkipped(document)
	}
	s.logger.WarnContext(ctx, "skipping undecodable document",
		"document", document,
		"attempt_id", attemptID,
		"error", err,
	)
}

// FindIncomplete walks the watermark index up to olderThan and keeps attempts
// with fewer than totalStepCount distinct kinds. Index entries whose attempt
// document has expired are pruned along the way.
func (s *Store) FindIncomplete(ctx context.Context, olderThan time.Time, totalStepCount int) ([]*models.Attempt, error) {
	ids, err := s.client.ZRangeByScore(ctx, watermarkKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(olderThan.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("scan watermark index: %w", err)
	}

	var out []*models.Attempt
	var stale []any
	for start := 0; start < len(ids); start += scanBatch {
		end := min(start+scanBatch, len(ids))
		batch := ids[start:end]

		attemptCmds := make([]*redis.StringCmd, len(batch))
		recordCmds := make([]*redis.StringSliceCmd, len(batch))
		_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range batch {
				attemptCmds[i] = pipe.Get(ctx, attemptKey(id))
				recordCmds[i] = pipe.LRange(ctx, recordsKey(id), 0, -1)
			}
			return nil
		})
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("load incomplete batch: %w", err)
		}

		for i, id := range batch {
			raw, err := attemptCmds[i].Bytes()
			if errors.Is(err, redis.Nil) {
				stale = append(stale, id)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("get attempt %s: %w", id, err)
			}
			attempt, err := decodeAttempt(raw)
			if err != nil {
				s.skipped(ctx, typeAttempt, id, err)
				continue
			}

			records := s.decodeRecords(ctx, id, recordCmds[i].Val())
			kinds := make([]models.StepKind, 0, len(records))
			for _, rec := range records {
				kinds = append(kinds, rec.Kind)
			}
			distinct := models.DistinctSteps(kinds)
			if len(distinct) >= totalStepCount {
				continue
			}
			attempt.RecordedSteps = distinct
			out = append(out, attempt)
		}
	}

	if len(stale) > 0 {
		_ = s.client.ZRem(ctx, watermarkKey, stale...).Err()
	}
	return out, nil
}

func (s *Store) DeleteRecords(ctx context.Context, attemptID string) error {
	if err := s.client.Del(ctx, recordsKey(attemptID)).Err(); err != nil {
		return fmt.Errorf("delete records of %s: %w", attemptID, err)
	}
	return nil
}

func (s *Store) DeleteAttempt(ctx context.Context, attemptID string) error {
	attempt, err := s.getAttempt(ctx, attemptID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, attemptKey(attemptID))
		pipe.ZRem(ctx, watermarkKey, attemptID)
		if attempt != nil {
			pipe.Del(ctx, subjectKey(attempt.SubjectID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete attempt %s: %w", attemptID, err)
	}
	return nil
}

func (s *Store) newRecord(attemptID string, kind models.StepKind) recordDoc {
	now := s.now().UTC()
	return recordDoc{
		Type:      typeCompletionRecord,
		ID:        uuid.NewString(),
		AttemptID: attemptID,
		Kind:      string(kind),
		CreatedAt: now,
		ExpiresAt: now.Add(s.retention),
	}
}

func toAttemptDoc(a *models.Attempt) attemptDoc {
	return attemptDoc{
		Type:           typeAttempt,
		ID:             a.ID,
		SubjectID:      a.SubjectID,
		Email:          a.Email,
		CountryCode:    a.CountryCode,
		MobileNo:       a.MobileNo,
		Channel:        string(a.Channel),
		CreatedAt:      a.CreatedAt,
		LastModifiedAt: a.LastModifiedAt,
		Version:        a.Version,
		ExpiresAt:      a.ExpiresAt,
	}
}

func decodeAttempt(raw []byte) (*models.Attempt, error) {
	var doc attemptDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode attempt: %w", err)
	}
	if doc.Type != typeAttempt {
		return nil, fmt.Errorf("decode attempt: unexpected document type %q", doc.Type)
	}
	return &models.Attempt{
		ID:             doc.ID,
		SubjectID:      doc.SubjectID,
		Email:          doc.Email,
		CountryCode:    doc.CountryCode,
		MobileNo:       doc.MobileNo,
		Channel:        models.Channel(doc.Channel),
		CreatedAt:      doc.CreatedAt,
		LastModifiedAt: doc.LastModifiedAt,
		Version:        doc.Version,
		ExpiresAt:      doc.ExpiresAt,
	}, nil
}

func decodeRecord(raw []byte) (models.CompletionRecord, error) {
	var doc recordDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.CompletionRecord{}, fmt.Errorf("decode completion record: %w", err)
	}
	if doc.Type != typeCompletionRecord {
		return models.CompletionRecord{}, fmt.Errorf("decode completion record: unexpected document type %q", doc.Type)
	}
	return models.CompletionRecord{
		ID:        doc.ID,
		AttemptID: doc.AttemptID,
		Kind:      models.StepKind(doc.Kind),
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}
