// Package slots defines leaderboard slots and the combinatorial expansion
// that derives every distinct slot from a taxonomy node's variants.
package slots

import (
	"sort"
	"strings"

	"github.com/okian/srcwatch/internal/domain/model"
)

// Record is a slot's current record state. A zero RunID means the slot has
// never been filled.
type Record struct {
	RunID   string
	Seconds float64
}

// Empty reports whether the slot has no record holder yet.
func (r Record) Empty() bool { return r.RunID == "" }

// Slot is one concrete leaderboard: a taxonomy node plus one fixed value for
// every separating variant, and the current record. Slots are created once
// during expansion and mutated in place by the record tracker only.
type Slot struct {
	CategoryID string
	LevelID    string // empty for full-game slots
	Choices    []model.VariantChoice
	Record     Record
}

// NodeKey identifies the taxonomy node a slot belongs to.
func NodeKey(categoryID, levelID string) string {
	return categoryID + "|" + levelID
}

// NodeKey returns the slot's taxonomy-node key.
func (s *Slot) NodeKey() string { return NodeKey(s.CategoryID, s.LevelID) }

// Key returns the slot's stable identity: node key plus the variant-choice
// combination as sorted id=value pairs. It is stable across restarts and is
// the snapshot persistence key.
func (s *Slot) Key() string {
	pairs := make([]string, 0, len(s.Choices))
	for _, c := range s.Choices {
		pairs = append(pairs, c.VariantID+"="+c.ValueID)
	}
	sort.Strings(pairs)
	return s.NodeKey() + "|" + strings.Join(pairs, "&")
}

// ChoiceFor returns the slot's fixed value id for a variant, if the variant
// is part of this slot's combination.
func (s *Slot) ChoiceFor(variantID string) (string, bool) {
	for _, c := range s.Choices {
		if c.VariantID == variantID {
			return c.ValueID, true
		}
	}
	return "", false
}
