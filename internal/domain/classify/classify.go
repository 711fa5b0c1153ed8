// Package classify maps an incoming run to exactly one leaderboard slot.
package classify

import (
	"fmt"

	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/slots"
)

// Classify selects the single slot the run belongs to from the candidate
// slots of the run's taxonomy node.
//
// A candidate is eligible when, for every variant the run and the slot both
// specify, the chosen values agree. Variant ids present only in the run are
// non-separating noise and are ignored; variant ids fixed only by the slot
// are satisfied automatically. Zero eligible slots yields ErrNoSlot; more
// than one yields ErrAmbiguous. Neither outcome may mutate any state.
func Classify(run model.Run, candidates []*slots.Slot) (*slots.Slot, error) {
	var match *slots.Slot
	for _, s := range candidates {
		if !eligible(run, s) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, ErrAmbiguous)
		}
		match = s
	}
	if match == nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, ErrNoSlot)
	}
	return match, nil
}

func eligible(run model.Run, s *slots.Slot) bool {
	if s.CategoryID != run.CategoryID || s.LevelID != run.LevelID {
		return false
	}
	for _, c := range s.Choices {
		chosen, specified := run.Values[c.VariantID]
		if specified && chosen != c.ValueID {
			return false
		}
	}
	return true
}
