package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"onboarding/internal/platform/ratelimit"
	"onboarding/internal/registration/handler/mocks"
	"onboarding/internal/registration/models"
	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/httputil"
	"onboarding/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/service.go -package=mocks Service

type tokenStub map[string]string

func (t tokenStub) ValidateSubject(token string) (string, error) {
	if sub, ok := t[token]; ok {
		return sub, nil
	}
	return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
}

type HandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	svc    *mocks.MockService
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svc = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.svc, tokenStub{"good-token": "sub-1"}, logger,
		WithTimeout(time.Second),
		WithOTPLimit(ratelimit.PerClientIP(ratelimit.NewMemory(), "otp", 2, time.Minute, logger)),
	).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, target, body string, header ...string) (*httptest.ResponseRecorder, httputil.Response) {
	req := testutil.NewJSONRequest(s.T(), method, target, body)
	req.RemoteAddr = "192.0.2.10:5555"
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := testutil.DoRequest(s.router, req)
	return rec, testutil.DecodeEnvelope(s.T(), rec)
}

func (s *HandlerSuite) TestOnboard() {
	s.Run("passes the client address and returns the outcome", func() {
		s.svc.EXPECT().Onboard(gomock.Any(), gomock.Any(), "192.0.2.10").
			DoAndReturn(func(_ any, req models.OnboardRequest, _ string) (*models.Outcome, error) {
				s.Equal("ada@example.com", req.Email)
				s.Equal("dev-1", req.DeviceID)
				return &models.Outcome{SubjectID: "sub-1", Email: req.Email, Channel: models.ChannelWeb}, nil
			})

		rec, resp := s.do(http.MethodPost, "/users", `{"email":"ada@example.com","deviceId":"dev-1"}`)

		s.Equal(http.StatusCreated, rec.Code)
		s.True(resp.Success)
		data := resp.Data.(map[string]any)
		s.Equal("sub-1", data["subjectId"])
		s.NotEmpty(rec.Header().Get("X-Request-ID"))
	})

	s.Run("already registered echoes its message", func() {
		s.svc.EXPECT().Onboard(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeAlreadyRegistered, "user is already registered"))

		rec, resp := s.do(http.MethodPost, "/users", `{"email":"ada@example.com"}`)

		s.Equal(http.StatusConflict, rec.Code)
		s.False(resp.Success)
		s.Equal("user is already registered", resp.Message)
	})

	s.Run("dependency failures are masked", func() {
		s.svc.EXPECT().Onboard(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeDependencyUnavailable, "kyc down"))

		rec, resp := s.do(http.MethodPost, "/users", `{"email":"ada@example.com"}`)

		s.Equal(http.StatusServiceUnavailable, rec.Code)
		s.Equal(httputil.TryAgainLater, resp.Message)
	})

	s.Run("malformed body never reaches the service", func() {
		rec, resp := s.do(http.MethodPost, "/users", `{"email":`)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("invalid JSON request body", resp.Message)
	})
}

func (s *HandlerSuite) TestRegistrationStatus() {
	s.svc.EXPECT().RegistrationStatus(gomock.Any(), "ada@example.com").Return(true, nil)

	rec, resp := s.do(http.MethodGet, "/users/status?email=ada@example.com", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(map[string]any{"registered": true}, resp.Data)
}

func (s *HandlerSuite) TestProgress() {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	attempt := models.NewAttempt("a-1", "sub-1", "ada@example.com", "44", "7700900123", models.ChannelWeb, created, 48*time.Hour)

	s.Run("found", func() {
		s.svc.EXPECT().Progress(gomock.Any(), "sub-1").Return(models.NewProgress(attempt, []models.CompletionRecord{
			{AttemptID: "a-1", Kind: models.StepIdentityRecordCreated},
		}), nil)

		rec, resp := s.do(http.MethodGet, "/users/sub-1/registration", "")

		s.Equal(http.StatusOK, rec.Code)
		data := resp.Data.(map[string]any)
		s.Equal("sub-1", data["subjectId"])
		s.Equal(false, data["complete"])
		s.Len(data["recorded"], 1)
		s.Len(data["missing"], 5)
	})

	s.Run("unknown subject", func() {
		s.svc.EXPECT().Progress(gomock.Any(), "nobody").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "registration not found"))

		rec, resp := s.do(http.MethodGet, "/users/nobody/registration", "")

		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("registration not found", resp.Message)
	})
}

func (s *HandlerSuite) TestOTPRoutes() {
	s.svc.EXPECT().SendEmailOTP(gomock.Any(), "ada@example.com").Return(nil)
	s.svc.EXPECT().ConfirmEmailOTP(gomock.Any(), "ada@example.com", "123456").Return(nil)
	s.svc.EXPECT().SendMobileOTP(gomock.Any(), "44", "7700900123").Return(nil)
	s.svc.EXPECT().ConfirmMobileOTP(gomock.Any(), "44", "7700900123", "654321").
		Return(dErrors.New(dErrors.CodeInvalidCode, "invalid otp"))

	rec, _ := s.do(http.MethodPost, "/email/registration", `{"email":"ada@example.com"}`)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/email/registration/confirm", `{"email":"ada@example.com","code":"123456"}`)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/sms/registration", `{"countryCode":"44","mobileNo":"7700900123"}`)
	s.Equal(http.StatusOK, rec.Code)

	rec, resp := s.do(http.MethodPost, "/sms/registration/confirm", `{"countryCode":"44","mobileNo":"7700900123","code":"654321"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid otp", resp.Message)

	rec, resp = s.do(http.MethodPost, "/email/registration/confirm", `{"email":"ada@example.com"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("code is required", resp.Message)
}

func (s *HandlerSuite) TestCreateWallet() {
	s.Run("uses the token subject", func() {
		s.svc.EXPECT().CreateWallet(gomock.Any(), "sub-1", "auth-bytes").
			Return(&ports.WalletMaterial{MainnetWalletID: "main-1", TestnetWalletID: "test-1"}, nil)

		rec, resp := s.do(http.MethodPost, "/wallet", `{"authorizationBytes":"auth-bytes"}`, "Authorization", "Bearer good-token")

		s.Equal(http.StatusCreated, rec.Code)
		s.Equal("main-1", resp.Data.(map[string]any)["mainnetWalletId"])
	})

	s.Run("rejects a bad token", func() {
		rec, resp := s.do(http.MethodPost, "/wallet", `{"authorizationBytes":"auth-bytes"}`, "Authorization", "Bearer forged")

		s.Equal(http.StatusUnauthorized, rec.Code)
		s.False(resp.Success)
	})

	s.Run("conflict when a wallet exists", func() {
		s.svc.EXPECT().CreateWallet(gomock.Any(), "sub-1", "auth-bytes").
			Return(nil, dErrors.New(dErrors.CodeConflict, "wallet already exists"))

		rec, resp := s.do(http.MethodPost, "/wallet", `{"authorizationBytes":"auth-bytes"}`, "Authorization", "Bearer good-token")

		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("wallet already exists", resp.Message)
	})
}

func (s *HandlerSuite) TestRecoversFromPanics() {
	s.svc.EXPECT().RegistrationStatus(gomock.Any(), gomock.Any()).DoAndReturn(func(any, string) (bool, error) {
		panic(errors.New("boom"))
	})

	rec, resp := s.do(http.MethodGet, "/users/status?email=x@example.com", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(httputil.TryAgainLater, resp.Message)
}

func (s *HandlerSuite) TestOTPSendIsRateLimited() {
	s.svc.EXPECT().SendMobileOTP(gomock.Any(), "44", "7700900123").Return(nil).Times(2)

	for i := 0; i < 2; i++ {
		rec, _ := s.do(http.MethodPost, "/sms/registration", `{"countryCode":"44","mobileNo":"7700900123"}`)
		s.Equal(http.StatusOK, rec.Code)
	}
	rec, resp := s.do(http.MethodPost, "/sms/registration", `{"countryCode":"44","mobileNo":"7700900123"}`)

	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("too many requests, please try again later", resp.Message)
}
