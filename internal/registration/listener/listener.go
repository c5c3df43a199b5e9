// Package listener records completion steps reported asynchronously by
// saga participants over Kafka.
package listener

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"onboarding/internal/platform/kafka/consumer"
	"onboarding/internal/platform/metrics"
	"onboarding/internal/registration/models"
	"onboarding/pkg/platform/sentinel"
)

// Store is the part of the saga state store the listener needs.
type Store interface {
	FindAttempt(ctx context.Context, subjectID string) (*models.Attempt, error)
	AppendRecords(ctx context.Context, attemptID string, kinds ...models.StepKind) error
}

// Topics names the inbound topics, one per participant event.
type Topics struct {
	KycUserProvisioned    string
	ReferralBountyGranted string
	BiometricIDEncrypted  string
}

const (
	eventKycUserProvisioned    = "kyc_user_provisioned"
	eventReferralBountyGranted = "referral_bounty_granted"
	eventBiometricIDEncrypted  = "biometric_id_encrypted"
)

// Listener turns participant events into completion records.
type Listener struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	retryAttempts int
	retryBackoff  time.Duration
}

type Option func(*Listener)

// WithRetry bounds how often a store write is tried before the error is
// handed back to the consumer, and the backoff before the first retry.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(l *Listener) {
		if attempts > 0 {
			l.retryAttempts = attempts
		}
		if backoff > 0 {
			l.retryBackoff = backoff
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Listener) {
		l.metrics = m
	}
}

func New(store Store, logger *slog.Logger, opts ...Option) *Listener {
	l := &Listener{
		store:         store,
		logger:        logger,
		retryAttempts: 3,
		retryBackoff:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register binds the three participant topics on router.
func (l *Listener) Register(router *consumer.Router, topics Topics) {
	router.Register(topics.KycUserProvisioned, consumer.HandlerFunc(l.HandleKycUserProvisioned))
	router.Register(topics.ReferralBountyGranted, consumer.HandlerFunc(l.HandleReferralBountyGranted))
	router.Register(topics.BiometricIDEncrypted, consumer.HandlerFunc(l.HandleBiometricIDEncrypted))
}

// HandleKycUserProvisioned records the KYC user. Mobile attempts also get the
// wallet link since their wallet already exists.
func (l *Listener) HandleKycUserProvisioned(ctx context.Context, msg *consumer.Message) error {
	var evt models.KycUserProvisioned
	if !l.decode(ctx, eventKycUserProvisioned, msg, &evt, func() string { return evt.SubjectID }) {
		return nil
	}
	return l.record(ctx, eventKycUserProvisioned, evt.SubjectID, func(a *models.Attempt) []models.StepKind {
		if a.Channel == models.ChannelMobile {
			return []models.StepKind{models.StepKycUserCreated, models.StepKycWalletLinked}
		}
		return []models.StepKind{models.StepKycUserCreated}
	})
}

func (l *Listener) HandleReferralBountyGranted(ctx context.Context, msg *consumer.Message) error {
	var evt models.ReferralBountyGranted
	if !l.decode(ctx, eventReferralBountyGranted, msg, &evt, func() string { return evt.SubjectID }) {
		return nil
	}
	return l.record(ctx, eventReferralBountyGranted, evt.SubjectID, constant(models.StepReferralBountyGranted))
}

func (l *Listener) HandleBiometricIDEncrypted(ctx context.Context, msg *consumer.Message) error {
	var evt models.BiometricIDEncrypted
	if !l.decode(ctx, eventBiometricIDEncrypted, msg, &evt, func() string { return evt.SubjectID }) {
		return nil
	}
	return l.record(ctx, eventBiometricIDEncrypted, evt.SubjectID, constant(models.StepBiometricIDEncrypted))
}

func constant(kind models.StepKind) func(*models.Attempt) []models.StepKind {
	return func(*models.Attempt) []models.StepKind {
		return []models.StepKind{kind}
	}
}

// decode unmarshals the payload and reports whether it is usable. Malformed
// payloads are logged and committed.
func (l *Listener) decode(ctx context.Context, event string, msg *consumer.Message, dst any, subject func() string) bool {
	if err := json.Unmarshal(msg.Value, dst); err != nil {
		l.logger.ErrorContext(ctx, "CRITICAL: failed to unmarshal registration event",
			"event", event,
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		l.observe(event, "malformed")
		return false
	}
	if strings.TrimSpace(subject()) == "" {
		l.logger.ErrorContext(ctx, "CRITICAL: registration event missing subjectId",
			"event", event,
			"topic", msg.Topic,
			"offset", msg.Offset,
		)
		l.observe(event, "malformed")
		return false
	}
	return true
}

// record appends the steps for subjectID's attempt. Store errors are retried
// with exponential backoff; an event is only given up on once the retries are
// spent, since the consumer commits its offset either way.
func (l *Listener) record(ctx context.Context, event, subjectID string, kinds func(*models.Attempt) []models.StepKind) error {
	backoff := l.retryBackoff
	for try := 1; ; try++ {
		attempt, steps, err := l.append(ctx, subjectID, kinds)
		if err == nil {
			l.recorded(ctx, event, subjectID, attempt, steps)
			return nil
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			l.logger.DebugContext(ctx, "no registration attempt for event, dropping",
				"event", event,
				"subject_id", subjectID,
			)
			l.observe(event, "dropped")
			return nil
		}
		if try >= l.retryAttempts || ctx.Err() != nil {
			l.observe(event, "error")
			return err
		}

		l.logger.WarnContext(ctx, "recording registration step failed, retrying",
			"event", event,
			"subject_id", subjectID,
			"attempt", try,
			"backoff", backoff,
			"error", err,
		)
		l.observe(event, "retried")
		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			l.observe(event, "error")
			return err
		}
		backoff *= 2
	}
}

func (l *Listener) append(ctx context.Context, subjectID string, kinds func(*models.Attempt) []models.StepKind) (*models.Attempt, []models.StepKind, error) {
	attempt, err := l.store.FindAttempt(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}
	steps := kinds(attempt)
	if err := l.store.AppendRecords(ctx, attempt.ID, steps...); err != nil {
		return nil, nil, err
	}
	return attempt, steps, nil
}

func (l *Listener) recorded(ctx context.Context, event, subjectID string, attempt *models.Attempt, steps []models.StepKind) {
	l.observe(event, "recorded")
	if l.metrics != nil {
		names := make([]string, len(steps))
		for i, k := range steps {
			names[i] = string(k)
		}
		l.metrics.IncRecordsAppended("listener", names...)
	}
	l.logger.InfoContext(ctx, "registration step recorded",
		"event", event,
		"subject_id", subjectID,
		"attempt_id", attempt.ID,
	)
}

func (l *Listener) observe(event, result string) {
	if l.metrics != nil {
		l.metrics.IncListenerEvent(event, result)
	}
}
