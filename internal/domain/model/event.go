// Package model contains domain models passed between layers.
package model

// Kind discriminates announcement events raised by the tracker.
type Kind int

const (
	// KindNewRun announces a newly verified run, record or not.
	KindNewRun Kind = iota
	// KindNewRecord announces a run that set a new record on its slot.
	KindNewRecord
)

// String returns the event kind name used in logs and metrics labels.
func (k Kind) String() string {
	if k == KindNewRecord {
		return "new_record"
	}
	return "new_run"
}

// Announcement is the fire-and-forget event payload handed to the
// notification side. It carries enough resolved display data to render a
// message without consulting the taxonomy again.
type Announcement struct {
	Kind Kind
	Run  Run

	GameName     string
	Abbreviation string
	CategoryName string
	LevelName    string // empty for full-game runs
	Choices      []VariantChoice

	SlotKey string // set for KindNewRecord only
}
