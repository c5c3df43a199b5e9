package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"onboarding/internal/registration/models"
	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
)

// Onboard runs the synchronous half of the registration saga. It returns once
// the identity exists and the attempt is persisted; everything after that
// completes asynchronously.
func (s *Service) Onboard(ctx context.Context, req models.OnboardRequest, clientIP string) (_ *models.Outcome, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.Onboard")
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = string(dErrors.CodeOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		if s.metrics != nil {
			s.metrics.ObserveOnboarding(outcome, time.Since(start))
		}
		span.End()
	}()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	channel := req.Channel()
	span.SetAttributes(attribute.String("registration.channel", string(channel)))

	if err := s.ensureNotRegistered(ctx, req.Email); err != nil {
		return nil, err
	}
	if err := s.ensureVerified(ctx, req.Email, models.MobileContact(req.CountryCode, req.MobileNo)); err != nil {
		return nil, err
	}

	subjectID := s.newID()
	span.SetAttributes(attribute.String("registration.subject_id", subjectID))
	err = s.p.Identity.CreateUser(ctx, ports.Profile{
		SubjectID:   subjectID,
		Email:       req.Email,
		Password:    req.Password,
		CountryCode: req.CountryCode,
		MobileNo:    req.MobileNo,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, errRegistered
		}
		return nil, dependencyError(err, "identity provider")
	}

	attempt := models.NewAttempt(s.newID(), subjectID, req.Email, req.CountryCode, req.MobileNo, channel, s.now(), s.retention)
	if err := s.store.CreateAttempt(ctx, attempt, models.StepIdentityRecordCreated); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist registration attempt",
			"subject_id", subjectID,
			"error", err,
		)
		s.detach(ctx, "identity_rollback", func(ctx context.Context) error {
			return s.p.Identity.DeleteUser(ctx, req.Email)
		})
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyUnavailable, "registration could not be persisted")
	}
	s.recordAppended(sourceOrchestrator, models.StepIdentityRecordCreated)

	evt := models.UserCreated{
		SubjectID:          subjectID,
		Email:              req.Email,
		CountryCode:        req.CountryCode,
		MobileNo:           req.MobileNo,
		Channel:            channel,
		AuthorizationBytes: req.AuthorizationBytes,
		CreatedAt:          attempt.CreatedAt,
	}
	if channel == models.ChannelMobile {
		evt.MainnetWalletID = req.MainnetWalletID
		evt.TestnetWalletID = req.TestnetWalletID
		s.encryptClientWallet(ctx, attempt, req, &evt)
	}

	ip := clientIP
	if ip == "" {
		ip = req.IPAddress
	}
	access := ports.DeviceAccess{
		SubjectID: subjectID,
		DeviceID:  req.DeviceID,
		IPAddress: ip,
		Location:  req.Location.String(),
	}
	s.detach(ctx, "device_access", func(ctx context.Context) error {
		return s.p.Wallet.RegisterDeviceAccess(ctx, access)
	})
	s.detach(ctx, "user_created", func(ctx context.Context) error {
		return s.events.PublishUserCreated(ctx, evt)
	})

	s.logger.InfoContext(ctx, "registration accepted",
		"subject_id", subjectID,
		"attempt_id", attempt.ID,
		"channel", channel,
	)
	return &models.Outcome{SubjectID: subjectID, Email: req.Email, Channel: channel}, nil
}

// encryptClientWallet wraps the client-generated wallet and records that the
// wallet exists. The record is appended even when encryption fails since the
// wallet already lives on the device.
func (s *Service) encryptClientWallet(ctx context.Context, attempt *models.Attempt, req models.OnboardRequest, evt *models.UserCreated) {
	enc, err := s.p.BiometricID.Encrypt(ctx, req.WalletBytes, req.Passphrase)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encrypt client wallet",
			"subject_id", attempt.SubjectID,
			"error", err,
		)
	} else {
		evt.EncryptedWalletBytes = enc.WalletBytes
		evt.EncryptedPassphrase = enc.Passphrase
	}
	if err := s.store.AppendRecords(ctx, attempt.ID, models.StepWalletCreated); err != nil {
		s.logger.ErrorContext(ctx, "failed to record wallet creation",
			"attempt_id", attempt.ID,
			"error", err,
		)
		return
	}
	s.recordAppended(sourceOrchestrator, models.StepWalletCreated)
}

// ensureNotRegistered fails with CodeAlreadyRegistered when the identity
// provider or the business vault already knows the email.
func (s *Service) ensureNotRegistered(ctx context.Context, email string) error {
	registered, err := s.isRegistered(ctx, email)
	if err != nil {
		return err
	}
	if registered {
		return errRegistered
	}
	return nil
}

var errRegistered = dErrors.New(dErrors.CodeAlreadyRegistered, "user is already registered")

func (s *Service) isRegistered(ctx context.Context, email string) (bool, error) {
	err := firstFailure(ctx,
		func(ctx context.Context) error {
			found, err := s.p.Identity.SearchByIdentifier(ctx, email)
			if err != nil {
				return dependencyError(err, "identity provider")
			}
			if found {
				return errRegistered
			}
			return nil
		},
		func(ctx context.Context) error {
			found, err := s.p.BusinessVault.IsEmailRegistered(ctx, email)
			if err != nil {
				return dependencyError(err, "business vault")
			}
			if found {
				return errRegistered
			}
			return nil
		},
	)
	if errors.Is(err, errRegistered) {
		return true, nil
	}
	return false, err
}

// ensureVerified requires both OTP channels to report a verified contact.
func (s *Service) ensureVerified(ctx context.Context, email, mobile string) error {
	return firstFailure(ctx,
		s.verifiedBranch(s.p.EmailOTP, email, "email is not verified"),
		s.verifiedBranch(s.p.MobileOTP, mobile, "mobile number is not verified"),
	)
}

func (s *Service) verifiedBranch(otp ports.OTPVerifier, contact, msg string) func(context.Context) error {
	return func(ctx context.Context) error {
		ok, err := otp.IsVerified(ctx, contact, models.VerificationFlow)
		if err != nil {
			err = dependencyError(err, "verification service")
			switch dErrors.CodeOf(err) {
			case dErrors.CodeDependencyUnavailable, dErrors.CodeTimeout:
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeNotVerified, dErrors.MessageOf(err))
		}
		if !ok {
			return dErrors.New(dErrors.CodeNotVerified, msg)
		}
		return nil
	}
}
