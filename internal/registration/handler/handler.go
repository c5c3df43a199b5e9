package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/platform/middleware"
	"onboarding/internal/registration/models"
	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/httputil"
	"onboarding/pkg/requestcontext"
)

// Service defines the registration operations exposed over HTTP.
type Service interface {
	Onboard(ctx context.Context, req models.OnboardRequest, clientIP string) (*models.Outcome, error)
	RegistrationStatus(ctx context.Context, email string) (bool, error)
	Progress(ctx context.Context, subjectID string) (*models.Progress, error)
	SendEmailOTP(ctx context.Context, email string) error
	ConfirmEmailOTP(ctx context.Context, email, code string) error
	SendMobileOTP(ctx context.Context, countryCode, mobileNo string) error
	ConfirmMobileOTP(ctx context.Context, countryCode, mobileNo, code string) error
	CreateWallet(ctx context.Context, subjectID, authBytes string) (*ports.WalletMaterial, error)
}

// Handler serves the registration endpoints.
type Handler struct {
	svc       Service
	validator middleware.TokenValidator
	logger    *slog.Logger
	timeout   time.Duration
	otpLimit  func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithOTPLimit guards the OTP send endpoints, which cost money per call.
func WithOTPLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.otpLimit = mw
	}
}

// New creates a registration Handler.
func New(svc Service, validator middleware.TokenValidator, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		svc:       svc,
		validator: validator,
		logger:    logger,
		timeout:   30 * time.Second,
		otpLimit:  func(next http.Handler) http.Handler { return next },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the registration routes on r.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.ClientMetadata)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(h.timeout))
	router.Use(middleware.ContentTypeJSON)

	router.Post("/users", h.handleOnboard)
	router.Get("/users/status", h.handleRegistrationStatus)
	router.Get("/users/{subjectID}/registration", h.handleProgress)
	router.With(h.otpLimit).Post("/email/registration", h.handleSendEmailOTP)
	router.Post("/email/registration/confirm", h.handleConfirmEmailOTP)
	router.With(h.otpLimit).Post("/sms/registration", h.handleSendMobileOTP)
	router.Post("/sms/registration/confirm", h.handleConfirmMobileOTP)
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth(h.validator, h.logger))
		authed.Post("/wallet", h.handleCreateWallet)
	})

	r.Mount("/", router)
}

func (h *Handler) handleOnboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.OnboardRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid onboarding request", "error", err)
		httputil.WriteError(w, err)
		return
	}

	outcome, err := h.svc.Onboard(ctx, req, requestcontext.ClientIP(ctx))
	if err != nil {
		h.fail(ctx, w, "onboarding failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "User has been created successfully", outcome)
}

func (h *Handler) handleRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registered, err := h.svc.RegistrationStatus(ctx, r.URL.Query().Get("email"))
	if err != nil {
		h.fail(ctx, w, "registration status lookup failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", registrationStatusResponse{Registered: registered})
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	progress, err := h.svc.Progress(ctx, chi.URLParam(r, "subjectID"))
	if err != nil {
		h.fail(ctx, w, "registration progress lookup failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", toProgressResponse(progress))
}

func (h *Handler) handleSendEmailOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req emailOTPRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.SendEmailOTP(ctx, req.Email); err != nil {
		h.fail(ctx, w, "email otp request failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "OTP has been sent", nil)
}

func (h *Handler) handleConfirmEmailOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req emailOTPRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "code is required"))
		return
	}
	if err := h.svc.ConfirmEmailOTP(ctx, req.Email, req.Code); err != nil {
		h.fail(ctx, w, "email otp confirmation failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Email has been verified", nil)
}

func (h *Handler) handleSendMobileOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req mobileOTPRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.SendMobileOTP(ctx, req.CountryCode, req.MobileNo); err != nil {
		h.fail(ctx, w, "sms otp request failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "OTP has been sent", nil)
}

func (h *Handler) handleConfirmMobileOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req mobileOTPRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "code is required"))
		return
	}
	if err := h.svc.ConfirmMobileOTP(ctx, req.CountryCode, req.MobileNo, req.Code); err != nil {
		h.fail(ctx, w, "sms otp confirmation failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Mobile number has been verified", nil)
}

func (h *Handler) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := requestcontext.SubjectID(ctx)
	if subjectID == "" {
		h.logger.ErrorContext(ctx, "subject missing from context despite auth middleware")
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req createWalletRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	wallet, err := h.svc.CreateWallet(ctx, subjectID, req.AuthorizationBytes)
	if err != nil {
		h.fail(ctx, w, "wallet creation failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Wallet has been created successfully", wallet)
}

// fail logs at warn for caller mistakes and at error for everything else.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if httputil.StatusFor(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg, "error", err)
	} else {
		h.logger.ErrorContext(ctx, msg, "error", err)
	}
	httputil.WriteError(w, err)
}
