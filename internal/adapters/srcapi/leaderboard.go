package srcapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// SlotQuery addresses one constrained leaderboard: a category, an optional
// level, and a fixed value for each constrained variant.
type SlotQuery struct {
	GameID     string
	CategoryID string
	LevelID    string // empty for full-game leaderboards
	Values     map[string]string
}

func (q SlotQuery) url(base string) string {
	var b strings.Builder
	if q.LevelID != "" {
		fmt.Fprintf(&b, "%sleaderboards/%s/level/%s/%s", base,
			url.PathEscape(q.GameID), url.PathEscape(q.LevelID), url.PathEscape(q.CategoryID))
	} else {
		fmt.Fprintf(&b, "%sleaderboards/%s/category/%s", base,
			url.PathEscape(q.GameID), url.PathEscape(q.CategoryID))
	}
	if len(q.Values) == 0 {
		return b.String()
	}
	ids := make([]string, 0, len(q.Values))
	for id := range q.Values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sep := "?"
	for _, id := range ids {
		fmt.Fprintf(&b, "%svar-%s=%s", sep, url.QueryEscape(id), url.QueryEscape(q.Values[id]))
		sep = "&"
	}
	return b.String()
}

// TopEntry is a constrained leaderboard's current best run.
type TopEntry struct {
	RunID   string
	Seconds float64
}

// SlotTop returns the top-ranked run of the constrained leaderboard, or
// ok=false when the leaderboard is empty.
func (c *Client) SlotTop(ctx context.Context, q SlotQuery) (TopEntry, bool, error) {
	var resp leaderboardResponse
	if err := c.getJSON(ctx, q.url(c.baseURL), &resp); err != nil {
		return TopEntry{}, false, err
	}
	for _, entry := range resp.Data.Runs {
		if entry.Place == 1 {
			return TopEntry{RunID: entry.Run.ID, Seconds: entry.Run.Times.PrimaryT}, true, nil
		}
	}
	return TopEntry{}, false, nil
}

// RunPlace returns the placement of runID within the constrained
// leaderboard, or ok=false when the run does not appear on it.
func (c *Client) RunPlace(ctx context.Context, q SlotQuery, runID string) (int, bool, error) {
	var resp leaderboardResponse
	if err := c.getJSON(ctx, q.url(c.baseURL), &resp); err != nil {
		return 0, false, err
	}
	for _, entry := range resp.Data.Runs {
		if entry.Run.ID == runID {
			return entry.Place, true, nil
		}
	}
	return 0, false, nil
}
