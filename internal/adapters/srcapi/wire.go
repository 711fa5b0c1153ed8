package srcapi

// Wire shapes for the speedrun.com v1 API. Only the fields this service
// reads are declared.

type namesData struct {
	International string `json:"international"`
}

type categoryData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // "per-game" or "per-level"
}

type levelData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type variableScope struct {
	Type  string `json:"type"`
	Level string `json:"level"`
}

type variableValues struct {
	Values map[string]struct {
		Label string `json:"label"`
	} `json:"values"`
}

type variableData struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Category      *string        `json:"category"`
	Scope         variableScope  `json:"scope"`
	IsSubcategory bool           `json:"is-subcategory"`
	Values        variableValues `json:"values"`
}

type gameResponse struct {
	Data struct {
		ID           string    `json:"id"`
		Names        namesData `json:"names"`
		Abbreviation string    `json:"abbreviation"`
		Categories   struct {
			Data []categoryData `json:"data"`
		} `json:"categories"`
		Levels struct {
			Data []levelData `json:"data"`
		} `json:"levels"`
		Variables struct {
			Data []variableData `json:"data"`
		} `json:"variables"`
	} `json:"data"`
}

type playerData struct {
	ID    string    `json:"id"`
	Names namesData `json:"names"`
}

type runTimes struct {
	PrimaryT float64 `json:"primary_t"`
}

type runData struct {
	ID       string   `json:"id"`
	Level    string   `json:"level"`
	Category string   `json:"category"`
	Times    runTimes `json:"times"`
	Players  struct {
		Data []playerData `json:"data"`
	} `json:"players"`
	Values map[string]string `json:"values"`
}

type runsResponse struct {
	Data []runData `json:"data"`
}

type leaderboardResponse struct {
	Data struct {
		Runs []struct {
			Place int `json:"place"`
			Run   struct {
				ID    string   `json:"id"`
				Times runTimes `json:"times"`
			} `json:"run"`
		} `json:"runs"`
	} `json:"data"`
}
