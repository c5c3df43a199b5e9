package handler

import (
	"time"

	"onboarding/internal/registration/models"
)

type emailOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code,omitempty"`
}

type mobileOTPRequest struct {
	CountryCode string `json:"countryCode"`
	MobileNo    string `json:"mobileNo"`
	Code        string `json:"code,omitempty"`
}

type createWalletRequest struct {
	AuthorizationBytes string `json:"authorizationBytes"`
}

type registrationStatusResponse struct {
	Registered bool `json:"registered"`
}

type progressResponse struct {
	SubjectID string            `json:"subjectId"`
	Channel   models.Channel    `json:"channel"`
	Recorded  []models.StepKind `json:"recorded"`
	Missing   []models.StepKind `json:"missing"`
	Complete  bool              `json:"complete"`
	CreatedAt time.Time         `json:"createdAt"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

func toProgressResponse(p *models.Progress) progressResponse {
	return progressResponse{
		SubjectID: p.Attempt.SubjectID,
		Channel:   p.Attempt.Channel,
		Recorded:  nonNil(p.Recorded),
		Missing:   nonNil(p.Missing),
		Complete:  p.Complete,
		CreatedAt: p.Attempt.CreatedAt,
		ExpiresAt: p.Attempt.ExpiresAt,
	}
}

func nonNil(kinds []models.StepKind) []models.StepKind {
	if kinds == nil {
		return []models.StepKind{}
	}
	return kinds
}
