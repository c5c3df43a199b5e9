// Package httputil writes the service's JSON response envelope and maps
// domain error codes onto HTTP statuses.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "onboarding/pkg/domain-errors"
)

// TryAgainLater replaces the message of any error that is not safe to show.
const TryAgainLater = "An error has been occurred during the request processing , please try again later."

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// echoed lists the codes whose message is passed to the caller verbatim.
var echoed = map[dErrors.Code]bool{
	dErrors.CodeValidation:         true,
	dErrors.CodeBadRequest:         true,
	dErrors.CodeNotFound:           true,
	dErrors.CodeConflict:           true,
	dErrors.CodeAlreadyRegistered:  true,
	dErrors.CodeNotVerified:        true,
	dErrors.CodeDependencyRejected: true,
	dErrors.CodeUnauthorized:       true,
	dErrors.CodeLocked:             true,
	dErrors.CodeRateLimited:        true,
	dErrors.CodeInvalidCode:        true,
	dErrors.CodeExpired:            true,
}

// Echoed reports whether errors with code may surface their message.
func Echoed(code dErrors.Code) bool {
	return echoed[code]
}

// StatusFor maps a domain code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvalidCode:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotVerified:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeAlreadyRegistered:
		return http.StatusConflict
	case dErrors.CodeExpired:
		return http.StatusGone
	case dErrors.CodeLocked:
		return http.StatusLocked
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeDependencyRejected:
		return http.StatusUnprocessableEntity
	case dErrors.CodeDependencyUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a successful envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// WriteError writes a failed envelope for err. Only whitelisted codes echo
// their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	msg := TryAgainLater
	if Echoed(code) {
		if m := dErrors.MessageOf(err); m != "" {
			msg = m
		}
	}
	WriteJSON(w, StatusFor(code), Response{Success: false, Message: msg})
}

// DecodeJSON decodes a request body into v, returning a bad_request error on
// malformed input.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON request body")
	}
	return nil
}
