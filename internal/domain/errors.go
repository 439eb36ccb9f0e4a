package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrTokenExpired is distinct from ErrUnauthorized so clients can tell an
	// expired access token (refresh and retry) from an invalid one (do not retry).
	ErrTokenExpired = errors.New("token expired")
)
