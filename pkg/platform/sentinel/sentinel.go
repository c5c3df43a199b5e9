// Package sentinel holds infrastructure facts returned by stores, queues and
// clients. Services translate them into domain errors at their boundary.
package sentinel

import "errors"

var (
	// ErrNotFound means the attempt, record or remote resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
	// ErrExpired means the resource outlived its retention horizon.
	ErrExpired = errors.New("expired")
	// ErrUnavailable means a backing resource cannot accept work right now,
	// for example a full outbound queue or an open circuit.
	ErrUnavailable = errors.New("unavailable")
	// ErrLeaseHeld means another instance currently holds a lease.
	ErrLeaseHeld = errors.New("lease held")
)
