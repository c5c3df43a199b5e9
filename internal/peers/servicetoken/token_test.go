package servicetoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onboarding/pkg/domain-errors"
)

func TestIssueAndValidate(t *testing.T) {
	svc := New("secret", "onboarding", "participants")

	token, err := svc.Issue("onboarding", "registration")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "onboarding", claims.Subject)
	assert.Equal(t, "registration", claims.Scope)
	assert.Equal(t, jwt.ClaimStrings{"participants"}, claims.Audience)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateRejects(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	issuer := New("secret", "onboarding", "participants", WithClock(func() time.Time { return now }))
	token, err := issuer.Issue("subject-1", "")
	require.NoError(t, err)

	tests := []struct {
		name      string
		validator *Service
		token     string
	}{
		{name: "wrong key", validator: New("other", "onboarding", "participants", WithClock(func() time.Time { return now })), token: token},
		{name: "wrong audience", validator: New("secret", "onboarding", "wallet", WithClock(func() time.Time { return now })), token: token},
		{name: "expired", validator: New("secret", "onboarding", "participants", WithClock(func() time.Time { return now.Add(time.Hour) })), token: token},
		{name: "garbage", validator: issuer, token: "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.validator.Validate(tt.token)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})
	}
}

func TestValidateRequiresSubject(t *testing.T) {
	svc := New("secret", "onboarding", "participants")
	token, err := svc.Issue("", "")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
