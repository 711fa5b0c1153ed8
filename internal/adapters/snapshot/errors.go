package snapshot

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrOpen = errors.New("snapshot open failed")
	ErrLoad = errors.New("snapshot load failed")
	ErrSave = errors.New("snapshot save failed")
)
