package team

import (
	"fmt"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

// Team is a franchise bidding for players inside one auction track.
type Team struct {
	ID              string
	TournamentID    string
	SportCategory   tournament.SportCategory
	Name            string
	OwnerName       string
	OwnerUserID     string
	InitialBudget   int64
	RemainingBudget int64
	MaxPlayers      int
	CurrentPlayers  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t Team) Track() tournament.Track {
	return tournament.Track{TournamentID: t.TournamentID, SportCategory: t.SportCategory}
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.TournamentID == "" {
		return fmt.Errorf("team tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.RemainingBudget < 0 {
		return fmt.Errorf("team remaining budget must not be negative")
	}
	if t.RemainingBudget > t.InitialBudget {
		return fmt.Errorf("team remaining budget %d exceeds initial budget %d", t.RemainingBudget, t.InitialBudget)
	}
	if t.CurrentPlayers < 0 || t.CurrentPlayers > t.MaxPlayers {
		return fmt.Errorf("team current players %d outside [0,%d]", t.CurrentPlayers, t.MaxPlayers)
	}

	return nil
}

func (t Team) AllocatedBudget() int64 {
	return t.InitialBudget - t.RemainingBudget
}

func (t Team) RosterFull() bool {
	return t.CurrentPlayers >= t.MaxPlayers
}
