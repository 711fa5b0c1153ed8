package notify

import "errors"

// Package-level errors for notification delivery.
var (
	// ErrSendFailed indicates the downstream webhook rejected the request.
	ErrSendFailed = errors.New("notification send failed")
)
