// Package taxonomy builds and holds the competition tree: full-game
// categories, levels with their own category copies, and the separating
// variants that apply to each node.
package taxonomy

import (
	"sort"

	"github.com/okian/srcwatch/internal/domain/model"
)

// Variant is a named option with a fixed set of selectable values.
// Immutable once built; value ids map to display labels.
type Variant struct {
	ID     string
	Name   string
	Values map[string]string
}

// ValueIDs returns the variant's value ids in sorted order. Sorting keeps
// slot expansion deterministic; value ordering carries no meaning otherwise.
func (v *Variant) ValueIDs() []string {
	ids := make([]string, 0, len(v.Values))
	for id := range v.Values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// VariantSet is an insertion-ordered set of variants keyed by variant id.
type VariantSet struct {
	list []*Variant
	byID map[string]*Variant
}

// NewVariantSet returns an empty set.
func NewVariantSet() *VariantSet {
	return &VariantSet{byID: make(map[string]*Variant)}
}

// Add inserts v unless a variant with the same id is already present.
func (s *VariantSet) Add(v *Variant) {
	if _, ok := s.byID[v.ID]; ok {
		return
	}
	s.byID[v.ID] = v
	s.list = append(s.list, v)
}

// Get returns the variant with the given id.
func (s *VariantSet) Get(id string) (*Variant, bool) {
	v, ok := s.byID[id]
	return v, ok
}

// List returns the variants in insertion order. Callers must not mutate it.
func (s *VariantSet) List() []*Variant { return s.list }

// Len returns the number of variants in the set.
func (s *VariantSet) Len() int { return len(s.list) }

// Clone returns an independent copy of the set. Variants themselves are
// immutable and shared; only the set structure is copied.
func (s *VariantSet) Clone() *VariantSet {
	c := NewVariantSet()
	for _, v := range s.list {
		c.Add(v)
	}
	return c
}

// Node is one scorable taxonomy node: a full-game category, or a category
// under a level. Its variant set is closed over every scope rule that
// resolves to it.
type Node struct {
	ID       string
	Name     string
	Variants *VariantSet
}

func newNode(id, name string) *Node {
	return &Node{ID: id, Name: name, Variants: NewVariantSet()}
}

// clone returns a deep copy; levels get independent copies of the per-level
// category templates so mutating one level's node never affects another's.
func (n *Node) clone() *Node {
	return &Node{ID: n.ID, Name: n.Name, Variants: n.Variants.Clone()}
}

// Level owns its own copies of the per-level category nodes.
type Level struct {
	ID         string
	Name       string
	Categories map[string]*Node
}

// Taxonomy is the full tree derived from game metadata, plus the two pools
// of variants that apply without narrowing to a single category.
type Taxonomy struct {
	GameID       string
	GameName     string
	Abbreviation string

	// Categories holds full-game category nodes by category id.
	Categories map[string]*Node
	// Levels holds levels by level id, each with its own category nodes.
	Levels map[string]*Level

	// FullGameVariants applies to every full-game category node.
	FullGameVariants *VariantSet
	// LevelVariants applies to every level-category node.
	LevelVariants *VariantSet
}

// Node returns the taxonomy node for (categoryID, levelID), where an empty
// levelID addresses a full-game category.
func (t *Taxonomy) Node(categoryID, levelID string) (*Node, bool) {
	if levelID == "" {
		n, ok := t.Categories[categoryID]
		return n, ok
	}
	lvl, ok := t.Levels[levelID]
	if !ok {
		return nil, false
	}
	n, ok := lvl.Categories[categoryID]
	return n, ok
}

// NodeVariants returns the node's closed variant set merged with the wide
// pool that applies to its kind (full-game or per-level). Node variants come
// first, preserving their insertion order.
func (t *Taxonomy) NodeVariants(categoryID, levelID string) (*VariantSet, bool) {
	n, ok := t.Node(categoryID, levelID)
	if !ok {
		return nil, false
	}
	merged := n.Variants.Clone()
	pool := t.FullGameVariants
	if levelID != "" {
		pool = t.LevelVariants
	}
	for _, v := range pool.List() {
		merged.Add(v)
	}
	return merged, true
}

// NodeNames resolves display names for (categoryID, levelID). The level name
// is empty for full-game nodes. ok is false when the node does not exist.
func (t *Taxonomy) NodeNames(categoryID, levelID string) (category, level string, ok bool) {
	if levelID == "" {
		n, found := t.Categories[categoryID]
		if !found {
			return "", "", false
		}
		return n.Name, "", true
	}
	lvl, found := t.Levels[levelID]
	if !found {
		return "", "", false
	}
	n, found := lvl.Categories[categoryID]
	if !found {
		return "", "", false
	}
	return n.Name, lvl.Name, true
}

// ResolveChoices turns a run's raw variant-id -> value-id selections into
// display-ready choices, keeping only variants known to the addressed node
// (merged with the applicable wide pool) in that node's variant order.
// Unknown nodes yield no choices.
func (t *Taxonomy) ResolveChoices(categoryID, levelID string, values map[string]string) []model.VariantChoice {
	set, ok := t.NodeVariants(categoryID, levelID)
	if !ok {
		return nil
	}
	var choices []model.VariantChoice
	for _, v := range set.List() {
		valueID, picked := values[v.ID]
		if !picked {
			continue
		}
		choices = append(choices, model.VariantChoice{
			VariantID:   v.ID,
			VariantName: v.Name,
			ValueID:     valueID,
			ValueLabel:  v.Values[valueID],
		})
	}
	return choices
}

// CategoryIDs returns the full-game category ids in sorted order.
func (t *Taxonomy) CategoryIDs() []string {
	ids := make([]string, 0, len(t.Categories))
	for id := range t.Categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LevelIDs returns the level ids in sorted order.
func (t *Taxonomy) LevelIDs() []string {
	ids := make([]string, 0, len(t.Levels))
	for id := range t.Levels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
