package classify

import "errors"

// Sentinel kinds for classification errors.
var (
	// ErrNoSlot means no slot matched the run; the run is skipped.
	ErrNoSlot = errors.New("no eligible slot")
	// ErrAmbiguous means several slots matched; the run is skipped rather
	// than guessed at.
	ErrAmbiguous = errors.New("ambiguous slot match")
)
