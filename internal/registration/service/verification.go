package service

import (
	"context"
	"net/mail"
	"strings"

	"onboarding/internal/registration/models"
	dErrors "onboarding/pkg/domain-errors"
)

// SendEmailOTP sends a registration code to an email that is not yet
// registered.
func (s *Service) SendEmailOTP(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := s.ensureNotRegistered(ctx, email); err != nil {
		return err
	}
	return s.p.EmailOTP.SendOTP(ctx, email, models.VerificationFlow)
}

func (s *Service) ConfirmEmailOTP(ctx context.Context, email, code string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	return s.p.EmailOTP.VerifyOTP(ctx, email, strings.TrimSpace(code), models.VerificationFlow)
}

func (s *Service) SendMobileOTP(ctx context.Context, countryCode, mobileNo string) error {
	contact, err := mobileContact(countryCode, mobileNo)
	if err != nil {
		return err
	}
	return s.p.MobileOTP.SendOTP(ctx, contact, models.VerificationFlow)
}

func (s *Service) ConfirmMobileOTP(ctx context.Context, countryCode, mobileNo, code string) error {
	contact, err := mobileContact(countryCode, mobileNo)
	if err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	return s.p.MobileOTP.VerifyOTP(ctx, contact, strings.TrimSpace(code), models.VerificationFlow)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", dErrors.New(dErrors.CodeValidation, "email is not valid")
	}
	return email, nil
}

func mobileContact(countryCode, mobileNo string) (string, error) {
	countryCode = strings.TrimSpace(countryCode)
	mobileNo = strings.TrimSpace(mobileNo)
	if countryCode == "" || mobileNo == "" {
		return "", dErrors.New(dErrors.CodeValidation, "countryCode and mobileNo are required")
	}
	return models.MobileContact(countryCode, mobileNo), nil
}
