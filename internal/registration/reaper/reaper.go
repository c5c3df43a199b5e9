// Package reaper compensates registration attempts that never completed.
//
// An attempt is abandoned once its watermark is older than the horizon and
// it still lacks a required step. Every participant is asked to undo its part
// and the attempt itself is deleted only after all of them succeeded, so a
// partially compensated attempt is picked up again on the next cycle.
package reaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"onboarding/internal/platform/metrics"
	"onboarding/internal/registration/models"
	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/sentinel"
)

// Store is the part of the saga state store the reaper needs.
type Store interface {
	FindIncomplete(ctx context.Context, olderThan time.Time, totalStepCount int) ([]*models.Attempt, error)
	DeleteRecords(ctx context.Context, attemptID string) error
	DeleteAttempt(ctx context.Context, attemptID string) error
}

// Locker serialises cycles across instances.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Participants are the services that hold state for an abandoned subject.
type Participants struct {
	Identity       ports.IdentityProvider
	KYC            ports.KYC
	BiometricID    ports.BiometricID
	ReferralBounty ports.ReferralBounty
	Notification   ports.Notification
}

// CycleSummary reports what one cycle did.
type CycleSummary struct {
	Selected int
	Skipped  int
	Reaped   int
	Failed   int
}

type Reaper struct {
	store   Store
	p       Participants
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	lock    Locker
	now     func() time.Time

	horizon            time.Duration
	attemptConcurrency int
	calls              *semaphore.Weighted
}

type Option func(*Reaper)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reaper) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reaper) {
		r.metrics = m
	}
}

// WithLocker makes each cycle hold a lease for its duration.
func WithLocker(l Locker) Option {
	return func(r *Reaper) {
		r.lock = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Reaper) {
		r.now = now
	}
}

// WithHorizon sets how old a watermark must be before the attempt counts as
// abandoned.
func WithHorizon(d time.Duration) Option {
	return func(r *Reaper) {
		if d > 0 {
			r.horizon = d
		}
	}
}

// WithConcurrency bounds attempts reaped in parallel and outbound
// compensation calls in flight across all of them.
func WithConcurrency(attempts int, calls int64) Option {
	return func(r *Reaper) {
		if attempts > 0 {
			r.attemptConcurrency = attempts
		}
		if calls > 0 {
			r.calls = semaphore.NewWeighted(calls)
		}
	}
}

func New(store Store, participants Participants, opts ...Option) (*Reaper, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if participants.Identity == nil || participants.KYC == nil || participants.BiometricID == nil ||
		participants.ReferralBounty == nil || participants.Notification == nil {
		return nil, errors.New("all compensation participants are required")
	}
	r := &Reaper{
		store:              store,
		p:                  participants,
		logger:             slog.Default(),
		tracer:             otel.Tracer("onboarding/reaper"),
		now:                time.Now,
		horizon:            24 * time.Hour,
		attemptConcurrency: 4,
		calls:              semaphore.NewWeighted(16),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunCycle reaps every abandoned attempt once. Per-attempt failures are
// logged and counted; only failures to select work are returned.
func (r *Reaper) RunCycle(ctx context.Context) (summary CycleSummary, err error) {
	ctx, span := r.tracer.Start(ctx, "reaper.RunCycle")
	start := time.Now()
	defer func() {
		span.SetAttributes(
			attribute.Int("reaper.selected", summary.Selected),
			attribute.Int("reaper.reaped", summary.Reaped),
			attribute.Int("reaper.failed", summary.Failed),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if r.metrics != nil {
			r.metrics.ObserveReaperCycle(time.Since(start))
		}
		span.End()
	}()

	if r.lock != nil {
		release, err := r.lock.Acquire(ctx)
		if errors.Is(err, sentinel.ErrLeaseHeld) {
			r.logger.InfoContext(ctx, "reaper lease held elsewhere, skipping cycle")
			return summary, nil
		}
		if err != nil {
			return summary, fmt.Errorf("acquire reaper lease: %w", err)
		}
		defer release()
	}

	cutoff := r.now().Add(-r.horizon)
	attempts, err := r.store.FindIncomplete(ctx, cutoff, models.TotalStepKinds)
	if err != nil {
		return summary, fmt.Errorf("select abandoned attempts: %w", err)
	}
	summary.Selected = len(attempts)

	var reaped, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(r.attemptConcurrency)
	for _, attempt := range attempts {
		if models.IsComplete(attempt.Channel, attempt.RecordedSteps) {
			summary.Skipped++
			continue
		}
		g.Go(func() error {
			if err := r.reap(ctx, attempt); err != nil {
				failed.Add(1)
				r.observe("failed")
				r.logger.WarnContext(ctx, "abandoned attempt not reaped, retrying next cycle",
					"attempt_id", attempt.ID,
					"subject_id", attempt.SubjectID,
					"error", err,
				)
				return nil
			}
			reaped.Add(1)
			r.observe("reaped")
			return nil
		})
	}
	_ = g.Wait()

	summary.Reaped = int(reaped.Load())
	summary.Failed = int(failed.Load())
	r.logger.InfoContext(ctx, "reaper cycle finished",
		"cutoff", cutoff,
		"selected", summary.Selected,
		"skipped", summary.Skipped,
		"reaped", summary.Reaped,
		"failed", summary.Failed,
	)
	return summary, nil
}

type compensation struct {
	participant string
	run         func(ctx context.Context) error
}

func (r *Reaper) compensations(a *models.Attempt) []compensation {
	return []compensation{
		{"identity_provider", func(ctx context.Context) error { return r.p.Identity.DeleteUser(ctx, a.Email) }},
		{"kyc", func(ctx context.Context) error { return r.p.KYC.DeleteUser(ctx, a.SubjectID) }},
		{"biometric_id", func(ctx context.Context) error { return r.p.BiometricID.DeleteRecord(ctx, a.SubjectID) }},
		{"referral_bounty", func(ctx context.Context) error { return r.p.ReferralBounty.DeleteBounty(ctx, a.SubjectID) }},
		{"notification", func(ctx context.Context) error { return r.p.Notification.DeleteTokens(ctx, a.SubjectID) }},
	}
}

// reap runs every participant compensation for a. Only when all of them
// succeeded are the attempt's own records and then the attempt deleted, so a
// failed compensation leaves the saga state untouched for the next cycle.
func (r *Reaper) reap(ctx context.Context, a *models.Attempt) error {
	var g errgroup.Group
	for _, c := range r.compensations(a) {
		g.Go(func() error {
			if err := r.calls.Acquire(ctx, 1); err != nil {
				return err
			}
			defer r.calls.Release(1)

			err := c.run(ctx)
			if err == nil || dErrors.HasCode(err, dErrors.CodeNotFound) {
				return nil
			}
			if r.metrics != nil {
				r.metrics.IncCompensationFailure(c.participant)
			}
			r.logger.WarnContext(ctx, "compensation failed",
				"participant", c.participant,
				"attempt_id", a.ID,
				"subject_id", a.SubjectID,
				"error", err,
			)
			return fmt.Errorf("%s: %w", c.participant, err)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := r.store.DeleteRecords(ctx, a.ID); err != nil {
		if r.metrics != nil {
			r.metrics.IncCompensationFailure("completion_records")
		}
		return fmt.Errorf("delete completion records: %w", err)
	}
	if err := r.store.DeleteAttempt(ctx, a.ID); err != nil {
		return fmt.Errorf("delete attempt: %w", err)
	}
	r.logger.InfoContext(ctx, "abandoned attempt reaped",
		"attempt_id", a.ID,
		"subject_id", a.SubjectID,
		"recorded_steps", len(a.RecordedSteps),
	)
	return nil
}

func (r *Reaper) observe(result string) {
	if r.metrics != nil {
		r.metrics.IncReaperAttempt(result)
	}
}
