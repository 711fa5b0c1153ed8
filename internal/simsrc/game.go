package simsrc

// Fixed taxonomy served by the simulator. It covers the interesting shapes:
// a plain full-game category, a full-game category with a subcategory
// variable, a per-level category, a global variable, and an amiibo toggle.

type wireNames struct {
	International string `json:"international"`
}

type wireCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type wireLevel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireScope struct {
	Type  string `json:"type"`
	Level string `json:"level,omitempty"`
}

type wireValue struct {
	Label string `json:"label"`
}

type wireVariable struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Category      *string              `json:"category"`
	Scope         wireScope            `json:"scope"`
	IsSubcategory bool                 `json:"is-subcategory"`
	Values        map[string]wireValue `json:"values"`
}

// Category, level, variable and value ids used across the simulator.
const (
	catAnyPct   = "cat-any"
	cat100Pct   = "cat-100"
	catPerLevel = "cat-stars"

	levelCastle = "lvl-castle"
	levelDesert = "lvl-desert"

	varPlatform = "var-platform"
	varRoute    = "var-route"
	varAmiibo   = "var-amiibo"
	varStrat    = "var-strat"

	valN64      = "val-n64"
	valVC       = "val-vc"
	valGlitched = "val-glitched"
	valClean    = "val-clean"
	valAmiiboOn = "val-amiibo-on"
	valAmiiboNo = "val-amiibo-no"
	valSkipYes  = "val-skip"
	valSkipNo   = "val-noskip"
)

func gameCategories() []wireCategory {
	return []wireCategory{
		{ID: catAnyPct, Name: "Any%", Type: "per-game"},
		{ID: cat100Pct, Name: "100%", Type: "per-game"},
		{ID: catPerLevel, Name: "Star Rush", Type: "per-level"},
	}
}

func gameLevels() []wireLevel {
	return []wireLevel{
		{ID: levelCastle, Name: "Castle Grounds"},
		{ID: levelDesert, Name: "Shifting Sands"},
	}
}

func gameVariables() []wireVariable {
	route := cat100Pct
	return []wireVariable{
		{
			// no owning category: lands in the full-game-wide pool
			ID:            varPlatform,
			Name:          "Platform",
			Category:      nil,
			Scope:         wireScope{Type: "global"},
			IsSubcategory: true,
			Values: map[string]wireValue{
				valN64: {Label: "N64"},
				valVC:  {Label: "Virtual Console"},
			},
		},
		{
			// owned by 100%, full-game only
			ID:            varRoute,
			Name:          "Route",
			Category:      &route,
			Scope:         wireScope{Type: "full-game"},
			IsSubcategory: true,
			Values: map[string]wireValue{
				valGlitched: {Label: "Glitched"},
				valClean:    {Label: "Glitchless"},
			},
		},
		{
			// toggle by name, not flagged as a subcategory
			ID:            varAmiibo,
			Name:          "Amiibo",
			Category:      nil,
			Scope:         wireScope{Type: "global"},
			IsSubcategory: false,
			Values: map[string]wireValue{
				valAmiiboOn: {Label: "Amiibo"},
				valAmiiboNo: {Label: "No Amiibo"},
			},
		},
		{
			// no owning category: lands in the all-levels-wide pool
			ID:            varStrat,
			Name:          "Strat",
			Category:      nil,
			Scope:         wireScope{Type: "all-levels"},
			IsSubcategory: true,
			Values: map[string]wireValue{
				valSkipYes: {Label: "Skip"},
				valSkipNo:  {Label: "No Skip"},
			},
		},
	}
}

// gamePayload builds the /games response body.
func gamePayload(gameID string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"id":           gameID,
			"names":        wireNames{International: "Sim Game 64"},
			"abbreviation": "sim64",
			"categories":   map[string]any{"data": gameCategories()},
			"levels":       map[string]any{"data": gameLevels()},
			"variables":    map[string]any{"data": gameVariables()},
		},
	}
}
