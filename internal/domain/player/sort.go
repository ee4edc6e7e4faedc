package player

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortField string

const (
	SortByName       SortField = "name"
	SortByBasePrice  SortField = "base_price"
	SortByPosition   SortField = "position"
	SortBySkillLevel SortField = "skill_level"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type Sort struct {
	Field     SortField
	Direction SortDirection
}

// ParseSort accepts the query form of a sort; empty field means name ascending.
func ParseSort(field, direction string) (Sort, error) {
	out := Sort{Field: SortByName, Direction: SortAsc}

	switch f := SortField(strings.ToLower(strings.TrimSpace(field))); f {
	case "":
	case SortByName, SortByBasePrice, SortByPosition, SortBySkillLevel:
		out.Field = f
	default:
		return Sort{}, fmt.Errorf("unsupported sort field: %q", field)
	}

	switch d := SortDirection(strings.ToLower(strings.TrimSpace(direction))); d {
	case "":
	case SortAsc, SortDesc:
		out.Direction = d
	default:
		return Sort{}, fmt.Errorf("unsupported sort direction: %q", direction)
	}

	return out, nil
}

// SortPlayers returns a stably sorted copy; the input slice is left untouched.
func SortPlayers(players []Player, sort Sort) []Player {
	out := slices.Clone(players)
	if out == nil {
		out = []Player{}
	}

	compare := comparator(sort.Field)
	sign := 1
	if sort.Direction == SortDesc {
		sign = -1
	}

	slices.SortStableFunc(out, func(a, b Player) int {
		return sign * compare(a, b)
	})
	return out
}

func comparator(field SortField) func(a, b Player) int {
	switch field {
	case SortByBasePrice:
		return func(a, b Player) int { return cmp.Compare(a.BasePrice, b.BasePrice) }
	case SortByPosition:
		return func(a, b Player) int { return cmp.Compare(a.Position, b.Position) }
	case SortBySkillLevel:
		return func(a, b Player) int { return cmp.Compare(a.SkillLevel, b.SkillLevel) }
	default:
		// collate.Collator keeps an internal buffer, so each sort gets its own.
		collator := collate.New(language.English, collate.IgnoreCase)
		return func(a, b Player) int { return collator.CompareString(a.Name, b.Name) }
	}
}
