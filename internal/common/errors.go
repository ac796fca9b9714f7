// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Session errors.
	ErrNoSession = errors.New("no active session")

	// Token errors (malformed or expired identity tokens).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Input validation.
	ErrEmptyInput = errors.New("empty input")
)
