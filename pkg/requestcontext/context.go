// Package requestcontext holds request-scoped values that services read
// without importing net/http.
//
// Middleware sets the values; services and loggers read them:
//
//	requestID := requestcontext.RequestID(ctx)
//	subjectID := requestcontext.SubjectID(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"
)

type (
	subjectIDKey   struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// -----------------------------------------------------------------------------
// Authenticated subject
// -----------------------------------------------------------------------------

// SubjectID returns the authenticated subject id, or "" if unauthenticated.
func SubjectID(ctx context.Context) string {
	if v, ok := ctx.Value(subjectIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithSubjectID(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectIDKey{}, subjectID)
}

// -----------------------------------------------------------------------------
// Client metadata
// -----------------------------------------------------------------------------

func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey{}).(string); ok {
		return v
	}
	return ""
}

func UserAgent(ctx context.Context) string {
	if v, ok := ctx.Value(userAgentKey{}).(string); ok {
		return v
	}
	return ""
}

func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// -----------------------------------------------------------------------------
// Request identity and time
// -----------------------------------------------------------------------------

func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-scoped time, falling back to the wall clock for
// background work that never passed through the HTTP middleware.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return v
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
