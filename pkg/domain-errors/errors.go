// Package domainerrors defines the coded error taxonomy shared by the
// registration service, its ports and its transport layer.
//
// Services and ports return *Error values so callers can branch on a
// discriminated Code instead of inspecting messages or upstream status codes.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain failure.
type Code string

const (
	CodeInternal   Code = "internal_error"
	CodeValidation Code = "validation_error"
	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"

	CodeAlreadyRegistered     Code = "already_registered"
	CodeNotVerified           Code = "not_verified"
	CodeDependencyUnavailable Code = "dependency_unavailable"
	CodeDependencyRejected    Code = "dependency_rejected"
	CodeTimeout               Code = "timeout"
	CodeUnauthorized          Code = "unauthorized"

	// OTP taxonomy
	CodeLocked      Code = "locked"
	CodeRateLimited Code = "rate_limited"
	CodeInvalidCode Code = "invalid_code"
	CodeExpired     Code = "expired"
)

// Error is a domain error carrying a Code, a caller-safe message and an
// optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code so errors.Is works against a template
// such as New(CodeUnauthorized, "").
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates a domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when err carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the message of the first *Error in err's chain.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}
