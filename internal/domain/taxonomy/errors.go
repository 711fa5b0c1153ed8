package taxonomy

import "errors"

// Sentinel kinds for taxonomy errors.
var (
	ErrInvalidMetadata = errors.New("invalid game metadata")
)
