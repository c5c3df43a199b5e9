package models

import (
	"time"
)

// Attempt is one onboarding transaction for one subject. It is created once
// the identity provider accepts the user and is never updated afterwards.
type Attempt struct {
	ID             string
	SubjectID      string
	Email          string
	CountryCode    string
	MobileNo       string
	Channel        Channel
	CreatedAt      time.Time
	LastModifiedAt time.Time
	Version        int64
	ExpiresAt      time.Time

	// RecordedSteps is filled by read paths that aggregate completion records.
	RecordedSteps []StepKind
}

// NewAttempt builds an attempt whose watermark and expiry derive from now.
func NewAttempt(id, subjectID, email, countryCode, mobileNo string, channel Channel, now time.Time, retention time.Duration) *Attempt {
	return &Attempt{
		ID:             id,
		SubjectID:      subjectID,
		Email:          email,
		CountryCode:    countryCode,
		MobileNo:       mobileNo,
		Channel:        channel,
		CreatedAt:      now,
		LastModifiedAt: now,
		Version:        1,
		ExpiresAt:      now.Add(retention),
	}
}

// IsExpired reports whether the retention backstop has passed.
func (a *Attempt) IsExpired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

// CompletionRecord is an immutable fact that one step finished for an attempt.
type CompletionRecord struct {
	ID        string
	AttemptID string
	Kind      StepKind
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Progress summarises how far an attempt has come.
type Progress struct {
	Attempt  *Attempt
	Recorded []StepKind
	Missing  []StepKind
	Complete bool
}

// NewProgress derives progress from the raw records of an attempt.
func NewProgress(attempt *Attempt, records []CompletionRecord) *Progress {
	kinds := make([]StepKind, 0, len(records))
	for _, r := range records {
		kinds = append(kinds, r.Kind)
	}
	recorded := DistinctSteps(kinds)
	missing := MissingSteps(attempt.Channel, recorded)
	return &Progress{
		Attempt:  attempt,
		Recorded: recorded,
		Missing:  missing,
		Complete: len(missing) == 0,
	}
}
