package player

import (
	"slices"
	"strings"
)

// Filter narrows a player list. Empty fields mean no constraint.
type Filter struct {
	Search      string
	Positions   []string
	SkillLevels []string
	Categories  []Category
}

func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" &&
		len(f.Positions) == 0 &&
		len(f.SkillLevels) == 0 &&
		len(f.Categories) == 0
}

// FilterPlayers returns a new slice with the matching players in input order.
func FilterPlayers(players []Player, filter Filter) []Player {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]Player, 0, len(players))
	for _, item := range players {
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		if len(filter.Positions) > 0 && !slices.Contains(filter.Positions, item.Position) {
			continue
		}
		if len(filter.SkillLevels) > 0 && !slices.Contains(filter.SkillLevels, item.SkillLevel) {
			continue
		}
		if len(filter.Categories) > 0 && !slices.Contains(filter.Categories, item.Category) {
			continue
		}
		out = append(out, item)
	}

	return out
}
