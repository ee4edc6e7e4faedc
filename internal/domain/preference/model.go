package preference

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/points"
)

var ErrMaxBidBelowBase = errors.New("max bid must be at least the player's base price")

// Preference is a team's plan for one player ahead of or during the auction.
type Preference struct {
	TeamID    string
	PlayerID  string
	MaxBid    *int64
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Preference) Validate() error {
	if p.TeamID == "" {
		return fmt.Errorf("preference team id is required")
	}
	if p.PlayerID == "" {
		return fmt.Errorf("preference player id is required")
	}
	return nil
}

type PlayerWithPreference struct {
	Player      player.Player
	Preference  *Preference
	IsPreferred bool
}

// NormalizeMaxBid rounds to the ten-lakh bid unit and enforces the base price floor.
func NormalizeMaxBid(maxBid *int64, basePrice int64) (*int64, error) {
	if maxBid == nil {
		return nil, nil
	}
	rounded := points.RoundToTenLakh(*maxBid)
	if rounded < basePrice {
		return nil, fmt.Errorf("%w: max_bid=%d base_price=%d", ErrMaxBidBelowBase, rounded, basePrice)
	}
	return &rounded, nil
}

// Attach pairs players with the team's preferences, keeping player order.
func Attach(players []player.Player, prefs []Preference) []PlayerWithPreference {
	byPlayer := make(map[string]Preference, len(prefs))
	for _, item := range prefs {
		byPlayer[item.PlayerID] = item
	}

	out := make([]PlayerWithPreference, 0, len(players))
	for _, item := range players {
		row := PlayerWithPreference{Player: item}
		if pref, ok := byPlayer[item.ID]; ok {
			row.Preference = &pref
			row.IsPreferred = true
		}
		out = append(out, row)
	}
	return out
}
