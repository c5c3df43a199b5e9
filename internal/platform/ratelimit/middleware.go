package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/httputil"
	"onboarding/pkg/requestcontext"
)

// PerClientIP limits requests per client address under the given scope. A
// limiter failure lets the request through.
func PerClientIP(limiter Limiter, scope string, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := limiter.Allow(ctx, scope+":"+ip, limit, window)
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			if !result.Allowed {
				retry := int(time.Until(result.ResetAt).Seconds()) + 1
				h.Set("Retry-After", strconv.Itoa(max(retry, 1)))
				logger.WarnContext(ctx, "rate limit exceeded", "scope", scope)
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
