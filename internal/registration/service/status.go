package service

import (
	"context"
	"errors"
	"strings"

	"onboarding/internal/registration/models"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/sentinel"
)

// RegistrationStatus reports whether an email is already registered with the
// identity provider or the business vault.
func (s *Service) RegistrationStatus(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return s.isRegistered(ctx, email)
}

// Progress returns the saga progress of the subject's attempt.
func (s *Service) Progress(ctx context.Context, subjectID string) (*models.Progress, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "subject id is required")
	}
	attempt, err := s.store.FindAttempt(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	records, err := s.store.ListRecords(ctx, attempt.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration steps")
	}
	return models.NewProgress(attempt, records), nil
}
