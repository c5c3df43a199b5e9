package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/httputil"
	"onboarding/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns its subject.
type TokenValidator interface {
	ValidateSubject(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token")
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			subject, err := validator.ValidateSubject(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token", "error", err)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithSubjectID(ctx, subject)))
		})
	}
}
