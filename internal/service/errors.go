// Package service holds the business logic between the HTTP handlers
// and the repositories. All operations are scoped to the owning user.
package service

import "errors"

var (
	// ErrValidation marks a request rejected locally, before any
	// repository or model call.
	ErrValidation = errors.New("service: validation failed")
	// ErrEmailTaken is returned by Register for a duplicate email.
	ErrEmailTaken = errors.New("service: email already registered")
	// ErrInvalidCredentials covers both unknown email and bad password
	// so login failures do not leak which one was wrong.
	ErrInvalidCredentials = errors.New("service: invalid credentials")
)
