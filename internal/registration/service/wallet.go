package service

import (
	"context"
	"errors"
	"strings"

	"onboarding/internal/registration/models"
	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/sentinel"
)

// CreateWallet generates a server-side wallet for a subject that registered
// without one, and records the wallet and its KYC link on the attempt.
func (s *Service) CreateWallet(ctx context.Context, subjectID, authBytes string) (*ports.WalletMaterial, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "subject is required")
	}
	if strings.TrimSpace(authBytes) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "authorizationBytes is required")
	}

	exists, err := s.p.KYC.WalletExists(ctx, subjectID)
	if err != nil {
		return nil, dependencyError(err, "kyc")
	}
	if exists {
		return nil, dErrors.New(dErrors.CodeConflict, "wallet already exists")
	}

	passphrase, err := s.p.Wallet.GeneratePassphrase(ctx)
	if err != nil {
		return nil, dependencyError(err, "wallet")
	}
	material, err := s.p.Wallet.CreateWallet(ctx, subjectID, authBytes, passphrase)
	if err != nil {
		return nil, dependencyError(err, "wallet")
	}

	attempt, err := s.store.FindAttempt(ctx, subjectID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		s.logger.WarnContext(ctx, "wallet created without registration attempt", "subject_id", subjectID)
	case err != nil:
		s.logger.ErrorContext(ctx, "failed to load registration attempt", "subject_id", subjectID, "error", err)
	default:
		kinds := []models.StepKind{models.StepWalletCreated, models.StepKycWalletLinked}
		if err := s.store.AppendRecords(ctx, attempt.ID, kinds...); err != nil {
			s.logger.ErrorContext(ctx, "failed to record wallet creation", "attempt_id", attempt.ID, "error", err)
		} else {
			s.recordAppended(sourceOrchestrator, kinds...)
		}
	}
	return material, nil
}
