package srcapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/taxonomy"
)

// GameMetadata fetches the game's categories, levels and variables in one
// call and converts them to the domain metadata shape the taxonomy builder
// consumes.
func (c *Client) GameMetadata(ctx context.Context, gameID string) (taxonomy.Metadata, error) {
	u := fmt.Sprintf("%sgames/%s?embed=categories,variables,levels", c.baseURL, url.PathEscape(gameID))
	var resp gameResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return taxonomy.Metadata{}, err
	}

	meta := taxonomy.Metadata{
		GameID:       resp.Data.ID,
		GameName:     resp.Data.Names.International,
		Abbreviation: resp.Data.Abbreviation,
	}
	if meta.GameID == "" {
		meta.GameID = gameID
	}

	for _, cat := range resp.Data.Categories.Data {
		meta.Categories = append(meta.Categories, taxonomy.CategoryMeta{
			ID:       cat.ID,
			Name:     cat.Name,
			PerLevel: cat.Type == "per-level",
		})
	}
	for _, lvl := range resp.Data.Levels.Data {
		meta.Levels = append(meta.Levels, taxonomy.LevelMeta{ID: lvl.ID, Name: lvl.Name})
	}
	for _, v := range resp.Data.Variables.Data {
		values := make(map[string]string, len(v.Values.Values))
		for id, val := range v.Values.Values {
			values[id] = val.Label
		}
		catID := ""
		if v.Category != nil {
			catID = *v.Category
		}
		meta.Variables = append(meta.Variables, taxonomy.VariableMeta{
			ID:           v.ID,
			Name:         v.Name,
			CategoryID:   catID,
			Scope:        taxonomy.Scope(v.Scope.Type),
			ScopeLevelID: v.Scope.Level,
			Subcategory:  v.IsSubcategory,
			Values:       values,
		})
	}
	return meta, nil
}

// VerifiedRuns fetches the most recently verified runs for the game, newest
// first, one page deep.
func (c *Client) VerifiedRuns(ctx context.Context, gameID string) ([]model.Run, error) {
	u := fmt.Sprintf("%sruns?game=%s&status=verified&orderby=verify-date&direction=desc&embed=players&max=%d",
		c.baseURL, url.QueryEscape(gameID), c.pageSize)
	var resp runsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	runs := make([]model.Run, 0, len(resp.Data))
	for _, rd := range resp.Data {
		run := model.Run{
			ID:         rd.ID,
			Seconds:    rd.Times.PrimaryT,
			CategoryID: rd.Category,
			LevelID:    rd.Level,
			Values:     rd.Values,
		}
		if len(rd.Players.Data) > 0 {
			run.PlayerID = rd.Players.Data[0].ID
			run.PlayerName = rd.Players.Data[0].Names.International
		}
		runs = append(runs, run)
	}
	return runs, nil
}
