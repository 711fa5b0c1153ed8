package api

import "errors"

// Package-level errors for request validation.
var (
	errInvalidAllParam = errors.New("query parameter 'all' must be a boolean")
)
