package srcapi

import "errors"

// Sentinel kinds for source client errors.
var (
	ErrRetriesExhausted = errors.New("too many retries")
	ErrStatus           = errors.New("unexpected response status")
)
