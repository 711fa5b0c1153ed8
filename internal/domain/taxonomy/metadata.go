package taxonomy

// Scope describes where a variable applies within the game.
type Scope string

// Variable scope kinds as delivered by the source.
const (
	ScopeGlobal      Scope = "global"
	ScopeFullGame    Scope = "full-game"
	ScopeAllLevels   Scope = "all-levels"
	ScopeSingleLevel Scope = "single-level"
)

// Metadata is the raw competition metadata the builder consumes. The source
// adapter converts its wire format into this shape so the domain stays free
// of transport concerns.
type Metadata struct {
	GameID       string
	GameName     string
	Abbreviation string
	Categories   []CategoryMeta
	Levels       []LevelMeta
	Variables    []VariableMeta
}

// CategoryMeta is one category definition.
type CategoryMeta struct {
	ID       string
	Name     string
	PerLevel bool // true for per-level categories, false for per-game
}

// LevelMeta is one level definition.
type LevelMeta struct {
	ID   string
	Name string
}

// VariableMeta is one variable definition with its scope rule.
type VariableMeta struct {
	ID           string
	Name         string
	CategoryID   string // owning category, empty when unscoped to a category
	Scope        Scope
	ScopeLevelID string // set for single-level scope
	Subcategory  bool   // true when distinct values separate leaderboards
	Values       map[string]string
}
