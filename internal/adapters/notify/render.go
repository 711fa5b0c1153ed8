package notify

import (
	"fmt"
	"strings"

	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/timefmt"
)

// Describe renders one announcement as a single human-readable line, e.g.
// "Dry Bowser 120 Shines (Normal, No Amiibo) by mkwfan in 1h 12m 03.450s".
func Describe(a model.Announcement) string {
	var b strings.Builder
	if a.LevelName != "" {
		b.WriteString(a.LevelName)
		b.WriteString(" ")
	}
	if a.CategoryName != "" {
		b.WriteString(a.CategoryName)
	} else {
		b.WriteString(a.Run.CategoryID)
	}
	if labels := choiceLabels(a.Choices); len(labels) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(labels, ", "))
		b.WriteString(")")
	}
	fmt.Fprintf(&b, " by %s in %s", a.Run.PlayerName, timefmt.Seconds(a.Run.Seconds))
	return b.String()
}

// SlotTitle renders the slot portion of an announcement without runner or
// time, for use as an embed title suffix.
func SlotTitle(a model.Announcement) string {
	var b strings.Builder
	if a.LevelName != "" {
		b.WriteString(a.LevelName)
		b.WriteString(" ")
	}
	if a.CategoryName != "" {
		b.WriteString(a.CategoryName)
	} else {
		b.WriteString(a.Run.CategoryID)
	}
	if labels := choiceLabels(a.Choices); len(labels) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(labels, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Permalink builds the public run URL on speedrun.com.
func Permalink(a model.Announcement) string {
	return fmt.Sprintf("https://www.speedrun.com/%s/run/%s", a.Abbreviation, a.Run.ID)
}

func choiceLabels(choices []model.VariantChoice) []string {
	labels := make([]string, 0, len(choices))
	for _, c := range choices {
		if c.ValueLabel == "" {
			continue
		}
		labels = append(labels, c.ValueLabel)
	}
	return labels
}
