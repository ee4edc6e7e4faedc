package tournament

import (
	"fmt"
	"strings"
	"time"
)

// SportCategory partitions teams, players and the auction queue of a tournament.
type SportCategory string

const (
	ThrowballJuniorMixed SportCategory = "THROWBALL_8_12_MIXED"
	ThrowballYouthMixed  SportCategory = "THROWBALL_13_21_MIXED"
	ThrowballWomen       SportCategory = "THROWBALL_WOMEN"
	VolleyballOpenMen    SportCategory = "VOLLEYBALL_OPEN_MEN"
	VolleyballYouthBoys  SportCategory = "VOLLEYBALL_13_21_BOYS"
	BadmintonJuniorMixed SportCategory = "BADMINTON_8_12_MIXED"
)

var AllSportCategories = []SportCategory{
	ThrowballJuniorMixed,
	ThrowballYouthMixed,
	ThrowballWomen,
	VolleyballOpenMen,
	VolleyballYouthBoys,
	BadmintonJuniorMixed,
}

// DefaultReferenceDate anchors age windows when a tournament does not carry its own.
var DefaultReferenceDate = time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)

func ParseSportCategory(raw string) (SportCategory, error) {
	value := SportCategory(strings.ToUpper(strings.TrimSpace(raw)))
	for _, category := range AllSportCategories {
		if category == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("unknown sport category: %q", raw)
}

// Track is one concurrent auction: a tournament plus a sport category.
type Track struct {
	TournamentID  string
	SportCategory SportCategory
}

func (t Track) Key() string {
	return t.TournamentID + ":" + string(t.SportCategory)
}

func (t Track) Validate() error {
	if strings.TrimSpace(t.TournamentID) == "" {
		return fmt.Errorf("tournament id is required")
	}
	if strings.TrimSpace(string(t.SportCategory)) == "" {
		return fmt.Errorf("sport category is required")
	}
	return nil
}

type Tournament struct {
	ID              string
	Name            string
	ReferenceDate   time.Time
	SportCategories []SportCategory
	CreatedAt       time.Time
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tournament name is required")
	}
	return nil
}

// EffectiveReferenceDate falls back to DefaultReferenceDate when unset.
func (t Tournament) EffectiveReferenceDate() time.Time {
	if t.ReferenceDate.IsZero() {
		return DefaultReferenceDate
	}
	return t.ReferenceDate
}

func (t Tournament) HasCategory(category SportCategory) bool {
	for _, item := range t.SportCategories {
		if item == category {
			return true
		}
	}
	return false
}
