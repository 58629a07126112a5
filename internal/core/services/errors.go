package services

import "errors"

// Service-level errors. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)
