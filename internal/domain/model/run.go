// Package model contains domain models passed between layers.
package model

// VariantChoice is a resolved variant selection: which variant, and which of
// its values, with display labels for rendering.
type VariantChoice struct {
	VariantID   string
	VariantName string
	ValueID     string
	ValueLabel  string
}

// Run is one verified performance as delivered by the source. Runs are
// immutable inputs; the tracker consumes them and discards them.
type Run struct {
	ID         string
	PlayerID   string
	PlayerName string
	Seconds    float64 // elapsed time, may carry sub-second precision
	CategoryID string
	LevelID    string // empty for full-game runs

	// Values maps variant id -> chosen value id, exactly as submitted.
	// It may omit separating variants and may include irrelevant ones.
	Values map[string]string
}

// FullGame reports whether the run targets a full-game category.
func (r Run) FullGame() bool { return r.LevelID == "" }
