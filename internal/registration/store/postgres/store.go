// Package postgres persists the saga state in PostgreSQL through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"onboarding/internal/registration/models"
	"onboarding/pkg/platform/sentinel"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Store implements the saga state store on two tables: registration_attempts
// and completion_records.
type Store struct {
	db        *sql.DB
	retention time.Duration
	now       func() time.Time
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

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:        db,
		retention: 48 * time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const insertRecordColumns = `INSERT INTO completion_records (id, attempt_id, step_kind, created_at, expires_at) VALUES `

func (s *Store) CreateAttempt(ctx context.Context, attempt *models.Attempt, first models.StepKind) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create attempt: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO registration_attempts (
			id, subject_id, email, country_code, mobile_no, channel,
			created_at, last_modified_at, version, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		attempt.ID,
		attempt.SubjectID,
		attempt.Email,
		attempt.CountryCode,
		attempt.MobileNo,
		string(attempt.Channel),
		attempt.CreatedAt,
		attempt.LastModifiedAt,
		attempt.Version,
		attempt.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", translate(err, sentinel.ErrNotFound))
	}

	now := s.now()
	_, err = tx.ExecContext(ctx, insertRecordColumns+`($1, $2, $3, $4, $5)`,
		uuid.NewString(), attempt.ID, string(first), now, now.Add(s.retention),
	)
	if err != nil {
		return fmt.Errorf("insert first record: %w", translate(err, sentinel.ErrNotFound))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create attempt: %w", err)
	}
	return nil
}

// AppendRecords writes all kinds in one multi-row insert.
func (s *Store) AppendRecords(ctx context.Context, attemptID string, kinds ...models.StepKind) error {
	if len(kinds) == 0 {
		return nil
	}
	now := s.now()
	expires := now.Add(s.retention)

	var sb strings.Builder
	sb.WriteString(insertRecordColumns)
	args := make([]any, 0, len(kinds)*5)
	for i, k := range kinds {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, uuid.NewString(), attemptID, string(k), now, expires)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("append records to %s: %w", attemptID, translate(err, sentinel.ErrNotFound))
	}
	return nil
}

const attemptColumns = `id, subject_id, email, country_code, mobile_no, channel,
	created_at, last_modified_at, version, expires_at`

func (s *Store) FindAttempt(ctx context.Context, subjectID string) (*models.Attempt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+attemptColumns+`
		FROM registration_attempts
		WHERE subject_id = $1 AND expires_at > $2
	`, subjectID, s.now())

	attempt, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find attempt for %s: %w", subjectID, err)
	}
	return attempt, nil
}

func (s *Store) ListRecords(ctx context.Context, attemptID string) ([]models.CompletionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, attempt_id, step_kind, created_at, expires_at
		FROM completion_records
		WHERE attempt_id = $1
		ORDER BY created_at
	`, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list records of %s: %w", attemptID, err)
	}
	defer rows.Close()

	out := []models.CompletionRecord{}
	for rows.Next() {
		var rec models.CompletionRecord
		var kind string
		if err := rows.Scan(&rec.ID, &rec.AttemptID, &kind, &rec.CreatedAt, &rec.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Kind = models.StepKind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FindIncomplete joins attempts with their records and keeps those whose
// distinct step count is below totalStepCount.
func (s *Store) FindIncomplete(ctx context.Context, olderThan time.Time, totalStepCount int) ([]*models.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.subject_id, a.email, a.country_code, a.mobile_no, a.channel,
			a.created_at, a.last_modified_at, a.version, a.expires_at,
			COALESCE(array_agg(DISTINCT r.step_kind) FILTER (WHERE r.step_kind IS NOT NULL), '{}')
		FROM registration_attempts a
		LEFT JOIN completion_records r ON r.attempt_id = a.id
		WHERE a.last_modified_at < $1 AND a.expires_at > $2
		GROUP BY a.id
		HAVING COUNT(DISTINCT r.step_kind) < $3
		ORDER BY a.last_modified_at
	`, olderThan, s.now(), totalStepCount)
	if err != nil {
		return nil, fmt.Errorf("query incomplete attempts: %w", err)
	}
	defer rows.Close()

	var out []*models.Attempt
	for rows.Next() {
		var a models.Attempt
		var channel string
		var steps []string
		if err := rows.Scan(
			&a.ID, &a.SubjectID, &a.Email, &a.CountryCode, &a.MobileNo, &channel,
			&a.CreatedAt, &a.LastModifiedAt, &a.Version, &a.ExpiresAt,
			pq.Array(&steps),
		); err != nil {
			return nil, fmt.Errorf("scan incomplete attempt: %w", err)
		}
		a.Channel = models.Channel(channel)
		kinds := make([]models.StepKind, 0, len(steps))
		for _, k := range steps {
			kinds = append(kinds, models.StepKind(k))
		}
		a.RecordedSteps = models.DistinctSteps(kinds)
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *Store) DeleteRecords(ctx context.Context, attemptID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM completion_records WHERE attempt_id = $1`, attemptID); err != nil {
		return fmt.Errorf("delete records of %s: %w", attemptID, err)
	}
	return nil
}

// DeleteAttempt fails with sentinel.ErrConflict if records were appended
// after DeleteRecords; the reaper retries on its next cycle.
func (s *Store) DeleteAttempt(ctx context.Context, attemptID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM registration_attempts WHERE id = $1`, attemptID); err != nil {
		return fmt.Errorf("delete attempt %s: %w", attemptID, translate(err, sentinel.ErrConflict))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*models.Attempt, error) {
	var a models.Attempt
	var channel string
	if err := row.Scan(
		&a.ID, &a.SubjectID, &a.Email, &a.CountryCode, &a.MobileNo, &channel,
		&a.CreatedAt, &a.LastModifiedAt, &a.Version, &a.ExpiresAt,
	); err != nil {
		return nil, err
	}
	a.Channel = models.Channel(channel)
	return &a, nil
}

// translate maps constraint violations onto sentinel errors. A foreign key
// violation means a missing attempt when inserting records and leftover
// records when deleting the attempt, so the caller names which it is.
func translate(err error, foreignKey error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return fmt.Errorf("%s: %w", pqErr.Constraint, sentinel.ErrConflict)
	case pqForeignKeyViolation:
		return fmt.Errorf("%s: %w", pqErr.Constraint, foreignKey)
	}
	return err
}
