package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"onboarding/internal/registration/models"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS registration_attempts (
		id               UUID PRIMARY KEY,
		subject_id       TEXT NOT NULL UNIQUE,
		email            TEXT NOT NULL,
		country_code     TEXT NOT NULL,
		mobile_no        TEXT NOT NULL,
		channel          TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		last_modified_at TIMESTAMPTZ NOT NULL,
		version          BIGINT NOT NULL DEFAULT 1,
		expires_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_registration_attempts_watermark
		ON registration_attempts (last_modified_at)`,
	`CREATE TABLE IF NOT EXISTS completion_records (
		id         UUID PRIMARY KEY,
		attempt_id UUID NOT NULL REFERENCES registration_attempts (id),
		step_kind  TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_completion_records_attempt_kind
		ON completion_records (attempt_id, step_kind)`,
	`ALTER TABLE completion_records DROP CONSTRAINT IF EXISTS completion_records_step_kind_check`,
	`ALTER TABLE completion_records ADD CONSTRAINT completion_records_step_kind_check
		CHECK (step_kind IN (` + stepKindList() + `))`,
}

// stepKindList renders the closed step set as a SQL literal list, keeping
// the distinct count in FindIncomplete within the same set the other
// backends count.
func stepKindList() string {
	quoted := make([]string, len(models.AllSteps))
	for i, k := range models.AllSteps {
		quoted[i] = "'" + string(k) + "'"
	}
	return strings.Join(quoted, ", ")
}

// Migrate applies the saga schema inside one transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// PurgeExpired removes rows past their retention horizon, records first.
func PurgeExpired(ctx context.Context, db *sql.DB) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purge: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	for _, stmt := range []string{
		`DELETE FROM completion_records WHERE expires_at <= now()
			OR attempt_id IN (SELECT id FROM registration_attempts WHERE expires_at <= now())`,
		`DELETE FROM registration_attempts WHERE expires_at <= now()`,
	} {
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return 0, fmt.Errorf("purge expired: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purge: %w", err)
	}
	return total, nil
}
