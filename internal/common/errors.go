// Package common defines shared constants and sentinel errors used across
// the gophauth server, repositories and admin tooling. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Session errors.
	ErrNoSession = errors.New("no session identifier")

	// Configuration errors. A missing secret key is fatal at construction.
	ErrMissingSecretKey = errors.New("secret key must be defined")
)
