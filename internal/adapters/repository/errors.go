package repository

import "errors"

// Sentinel kinds for slot store errors.
var (
	ErrNotFound = errors.New("slot not found")
)
