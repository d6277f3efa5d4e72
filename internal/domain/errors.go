// internal/domain/errors.go
package domain

import "errors"

var (
	// ErrInvalidRemoteURL is returned when a remote URL does not have a
	// recognised repository hosting shape.
	ErrInvalidRemoteURL = errors.New("invalid remote URL")

	// ErrUnknownStrategy is returned when a configured strategy name has no
	// builtin implementation.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrNoOrigin is returned when a checkout has no origin remote.
	ErrNoOrigin = errors.New("no origin remote found")

	// ErrRepositoryNotFound is returned by verifiers when the hosting service
	// does not know the repository.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrUnauthorized is returned by adapters when the API responds with HTTP 401.
	// Callers can check for it using errors.Is.
	ErrUnauthorized = errors.New("unauthorized")
)
