package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist (or the caller is not a member of the owning trip).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. end date before start date, reorder id set mismatch,
// too few events for route optimization).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write collides with an existing resource,
// such as registering an email address that is already taken.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials are missing, invalid, or
// expired. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrOptimizer is returned when the external route-optimization provider is
// unreachable, responds with a non-success status, or returns a body that
// cannot be parsed. It is distinct from ErrValidation: the request was fine,
// the provider was not. Handlers should map this to HTTP 502.
var ErrOptimizer = errors.New("route optimizer failure")
