package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"onboarding/internal/platform/metrics"
	"onboarding/internal/registration/models"
	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
)

// Store is the part of the saga state store the orchestrator writes to.
type Store interface {
	CreateAttempt(ctx context.Context, attempt *models.Attempt, first models.StepKind) error
	AppendRecords(ctx context.Context, attemptID string, kinds ...models.StepKind) error
	FindAttempt(ctx context.Context, subjectID string) (*models.Attempt, error)
	ListRecords(ctx context.Context, attemptID string) ([]models.CompletionRecord, error)
}

// Participants groups the ports the orchestrator calls synchronously.
type Participants struct {
	Identity      ports.IdentityProvider
	EmailOTP      ports.OTPVerifier
	MobileOTP     ports.OTPVerifier
	KYC           ports.KYC
	Wallet        ports.Wallet
	BiometricID   ports.BiometricID
	BusinessVault ports.BusinessVault
}

func (p Participants) validate() error {
	switch {
	case p.Identity == nil:
		return errors.New("identity provider port is required")
	case p.EmailOTP == nil, p.MobileOTP == nil:
		return errors.New("email and mobile OTP ports are required")
	case p.KYC == nil:
		return errors.New("kyc port is required")
	case p.Wallet == nil:
		return errors.New("wallet port is required")
	case p.BiometricID == nil:
		return errors.New("biometric-id port is required")
	case p.BusinessVault == nil:
		return errors.New("business-vault port is required")
	}
	return nil
}

const sourceOrchestrator = "orchestrator"

// Service drives the synchronous half of the registration saga.
type Service struct {
	store     Store
	p         Participants
	events    ports.EventSink
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	retention time.Duration
	now       func() time.Time
	newID     func() string

	detached sync.WaitGroup
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithRetention sets the expiry horizon stamped on new attempts.
func WithRetention(d time.Duration) Option {
	return func(s *Service) {
		s.retention = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides uuid minting for subject and attempt ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// New constructs a Service.
func New(store Store, participants Participants, events ports.EventSink, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if events == nil {
		return nil, errors.New("event sink is required")
	}
	if err := participants.validate(); err != nil {
		return nil, err
	}
	s := &Service{
		store:     store,
		p:         participants,
		events:    events,
		logger:    slog.Default(),
		tracer:    otel.Tracer("onboarding/registration"),
		retention: 48 * time.Hour,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Wait blocks until every detached effect started so far has finished.
func (s *Service) Wait() {
	s.detached.Wait()
}

// detach runs fn after the response decision, on a context that outlives
// the request. Failures are logged only.
func (s *Service) detach(ctx context.Context, effect string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	s.detached.Add(1)
	go func() {
		defer s.detached.Done()
		if err := fn(ctx); err != nil {
			s.logger.WarnContext(ctx, "detached effect failed",
				"effect", effect,
				"error", err,
			)
		}
	}()
}

func (s *Service) recordAppended(source string, kinds ...models.StepKind) {
	if s.metrics == nil {
		return
	}
	steps := make([]string, len(kinds))
	for i, k := range kinds {
		steps[i] = string(k)
	}
	s.metrics.IncRecordsAppended(source, steps...)
}

// dependencyError keeps coded port errors and codes anything else as an
// unavailable dependency.
func dependencyError(err error, participant string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeDependencyUnavailable, participant+" is unavailable")
}
