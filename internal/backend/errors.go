package backend

import "errors"

var (
	// ErrNotFound is returned when the API answers 404 for a by-id operation.
	ErrNotFound = errors.New("backend: resource not found")

	// ErrInternal is returned when the request could not be built or sent.
	ErrInternal = errors.New("backend: internal error")

	// ErrInvalidResponse is returned for unexpected status codes and undecodable bodies.
	ErrInvalidResponse = errors.New("backend: invalid response")
)
