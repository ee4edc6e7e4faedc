package auction

import (
	"fmt"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

// QueueItem is one player waiting to be put up for bidding in a track.
type QueueItem struct {
	ID            string
	TournamentID  string
	SportCategory tournament.SportCategory
	PlayerID      string
	Position      int
	IsProcessed   bool
	ProcessedAt   *time.Time
	CreatedAt     time.Time
}

func (q QueueItem) Track() tournament.Track {
	return tournament.Track{TournamentID: q.TournamentID, SportCategory: q.SportCategory}
}

type QueueItemWithPlayer struct {
	QueueItem
	Player player.Player
}

// PositionUpdate is one entry of a persisted reorder.
type PositionUpdate struct {
	ItemID   string
	Position int
}

// Allocation records a winning bid. UndoneAt is set once the bid is reverted.
type Allocation struct {
	ID           string
	TournamentID string
	PlayerID     string
	TeamID       string
	Amount       int64
	CreatedBy    string
	CreatedAt    time.Time
	UndoneAt     *time.Time
}

func (a Allocation) Active() bool {
	return a.UndoneAt == nil
}

// Outcome is what a ledger mutation leaves behind.
type Outcome struct {
	Player     player.Player
	Team       *team.Team
	Allocation *Allocation
}

type DisplayConfig struct {
	TournamentID           string
	InitialTimerSeconds    int
	SubsequentTimerSeconds int
	GoingOnceSeconds       int
	GoingTwiceSeconds      int
	ShowBasePrice          bool
	ShowTeamBudgets        bool
	SoundEnabled           bool
	VisualEffectsEnabled   bool
	UpdatedAt              time.Time
}

func DefaultDisplayConfig(tournamentID string) DisplayConfig {
	return DisplayConfig{
		TournamentID:           tournamentID,
		InitialTimerSeconds:    60,
		SubsequentTimerSeconds: 30,
		GoingOnceSeconds:       10,
		GoingTwiceSeconds:      5,
		ShowBasePrice:          true,
		ShowTeamBudgets:        true,
		SoundEnabled:           true,
		VisualEffectsEnabled:   true,
	}
}

func (c DisplayConfig) Validate() error {
	if c.TournamentID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if c.InitialTimerSeconds <= 0 || c.SubsequentTimerSeconds <= 0 {
		return fmt.Errorf("timer seconds must be greater than zero")
	}
	if c.GoingOnceSeconds <= 0 || c.GoingTwiceSeconds <= 0 {
		return fmt.Errorf("countdown thresholds must be greater than zero")
	}
	if c.GoingTwiceSeconds > c.GoingOnceSeconds {
		return fmt.Errorf("going twice threshold must not exceed going once threshold")
	}
	if c.GoingOnceSeconds > c.SubsequentTimerSeconds {
		return fmt.Errorf("going once threshold must not exceed subsequent timer")
	}
	return nil
}
