package peers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onboarding/pkg/domain-errors"
)

func TestOTPIsVerified(t *testing.T) {
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/otp/inquire", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		respond(http.StatusOK, `{"code":200,"payload":{"status":"verified"}}`)(w, r)
	})
	otp := NewOTP(c, OTPEmail)

	ok, err := otp.IsVerified(context.Background(), "ada@example.com", "registration")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"email": "ada@example.com", "requestedFlow": "registration"}, body)
}

func TestOTPIsVerifiedPending(t *testing.T) {
	c := newTestClient(t, respond(http.StatusOK, `{"code":200,"payload":{"status":"PENDING"}}`))

	ok, err := NewOTP(c, OTPSMS).IsVerified(context.Background(), "+447700900123", "registration")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		kind   OTPKind
		send   bool
		status int
		body   string
		code   dErrors.Code
	}{
		{name: "locked", kind: OTPEmail, status: http.StatusLocked, code: dErrors.CodeLocked},
		{name: "rate limited in body", kind: OTPSMS, status: http.StatusOK, body: `{"code":429}`, code: dErrors.CodeRateLimited},
		{name: "invalid code", kind: OTPSMS, status: http.StatusForbidden, code: dErrors.CodeInvalidCode},
		{name: "not acceptable on verify", kind: OTPEmail, status: http.StatusNotAcceptable, code: dErrors.CodeInvalidCode},
		{name: "expired", kind: OTPEmail, status: http.StatusGone, code: dErrors.CodeExpired},
		{name: "not found", kind: OTPSMS, status: http.StatusNotFound, code: dErrors.CodeNotFound},
		{name: "disposable email on send", kind: OTPEmail, send: true, status: http.StatusNotAcceptable, code: dErrors.CodeDependencyRejected},
		{name: "server error", kind: OTPEmail, status: http.StatusInternalServerError, body: `{"code":200}`, code: dErrors.CodeDependencyUnavailable},
		{name: "other rejection", kind: OTPEmail, status: http.StatusBadRequest, body: `{"message":"bad flow"}`, code: dErrors.CodeDependencyRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, respond(tt.status, tt.body))
			otp := NewOTP(c, tt.kind)

			var err error
			if tt.send {
				err = otp.SendOTP(context.Background(), "ada@example.com", "registration")
			} else {
				err = otp.VerifyOTP(context.Background(), "ada@example.com", "123456", "registration")
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, dErrors.CodeOf(err))
		})
	}
}

func TestOTPSendAndVerify(t *testing.T) {
	var paths []string
	var last map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &last))
		respond(http.StatusOK, `{"code":200}`)(w, r)
	})
	otp := NewOTP(c, OTPSMS)

	require.NoError(t, otp.SendOTP(context.Background(), "+447700900123", "registration"))
	require.NoError(t, otp.VerifyOTP(context.Background(), "+447700900123", "123456", "registration"))
	assert.Equal(t, []string{"/otp/request", "/otp/verify"}, paths)
	assert.Equal(t, "123456", last["otp"])
	assert.Equal(t, "+447700900123", last["mobileNo"])
}
