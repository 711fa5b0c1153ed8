package slots

import (
	"sort"

	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/taxonomy"
)

// Expand enumerates every distinct slot for one taxonomy node: the cartesian
// product over the given variants, iterated in their insertion order. Zero
// variants yield exactly one slot with an empty choice sequence. A variant
// with no values contributes a single implicit unrestricted choice so the
// node never loses its leaderboard.
func Expand(categoryID, levelID string, variants []*taxonomy.Variant) []*Slot {
	combos := [][]model.VariantChoice{nil}
	for _, v := range variants {
		ids := v.ValueIDs()
		if len(ids) == 0 {
			ids = []string{""}
		}
		next := make([][]model.VariantChoice, 0, len(combos)*len(ids))
		for _, combo := range combos {
			for _, valueID := range ids {
				choice := model.VariantChoice{
					VariantID:   v.ID,
					VariantName: v.Name,
					ValueID:     valueID,
					ValueLabel:  v.Values[valueID],
				}
				extended := make([]model.VariantChoice, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, choice))
			}
		}
		combos = next
	}

	out := make([]*Slot, 0, len(combos))
	for _, combo := range combos {
		out = append(out, &Slot{CategoryID: categoryID, LevelID: levelID, Choices: combo})
	}
	return out
}

// ExpandAll produces the full slot keyset for a taxonomy: every full-game
// category node and every level-category pair, each expanded over its closed
// variant set merged with the applicable wide pool. Node iteration is sorted
// by id so the output order is deterministic.
func ExpandAll(t *taxonomy.Taxonomy) []*Slot {
	var out []*Slot
	for _, catID := range t.CategoryIDs() {
		set, _ := t.NodeVariants(catID, "")
		out = append(out, Expand(catID, "", set.List())...)
	}
	for _, lvlID := range t.LevelIDs() {
		lvl := t.Levels[lvlID]
		catIDs := make([]string, 0, len(lvl.Categories))
		for id := range lvl.Categories {
			catIDs = append(catIDs, id)
		}
		sort.Strings(catIDs)
		for _, catID := range catIDs {
			set, _ := t.NodeVariants(catID, lvlID)
			out = append(out, Expand(catID, lvlID, set.List())...)
		}
	}
	return out
}
