package auction

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/points"
	"github.com/riskibarqy/league-auction/internal/domain/team"
)

var (
	ErrInvalidAmount      = errors.New("bid amount must be greater than zero")
	ErrBelowBasePrice     = errors.New("bid amount is below the player's base price")
	ErrTrackMismatch      = errors.New("player and team belong to different auction tracks")
	ErrPlayerUnavailable  = errors.New("player is not available for bidding")
	ErrInsufficientBudget = errors.New("team has insufficient remaining budget")
	ErrRosterFull         = errors.New("team has reached the maximum number of players")
	ErrNoActiveAllocation = errors.New("player has no active allocation")
	ErrAlreadyQueued      = errors.New("player is already waiting in the queue")
)

const (
	MsgAmountNotPositive = "Bid amount must be greater than 0"
	MsgInvalidTeam       = "Please select a valid team"
	MsgExceedsBalance    = "Bid amount exceeds team's remaining balance of %s"
	MsgRosterFull        = "Team has reached the maximum number of players"
	MsgRecordBidFailed   = "Failed to record bid. Please try again."
)

// ValidateBid is the operator-facing precheck. It returns "" when the bid may
// be submitted, otherwise the message to show.
func ValidateBid(amountCrores float64, teamID string, teams []team.Team) string {
	if amountCrores <= 0 {
		return MsgAmountNotPositive
	}

	var selected *team.Team
	for idx := range teams {
		if teamID != "" && teams[idx].ID == teamID {
			selected = &teams[idx]
			break
		}
	}
	if selected == nil {
		return MsgInvalidTeam
	}

	if points.CroresToPoints(amountCrores) > selected.RemainingBudget {
		return fmt.Sprintf(MsgExceedsBalance, points.FormatCrores(selected.RemainingBudget))
	}
	if selected.RosterFull() {
		return MsgRosterFull
	}

	return ""
}

// CheckAllocation is the ledger's authoritative rule set for a bid.
func CheckAllocation(p player.Player, t team.Team, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if p.TournamentID != t.TournamentID || p.SportCategory != t.SportCategory {
		return ErrTrackMismatch
	}
	if !p.Status.Biddable() {
		return fmt.Errorf("%w: status=%s", ErrPlayerUnavailable, p.Status)
	}
	if amount < p.BasePrice {
		return fmt.Errorf("%w: amount=%d base_price=%d", ErrBelowBasePrice, amount, p.BasePrice)
	}
	if amount > t.RemainingBudget {
		return fmt.Errorf("%w: amount=%d remaining=%d", ErrInsufficientBudget, amount, t.RemainingBudget)
	}
	if t.RosterFull() {
		return ErrRosterFull
	}
	return nil
}

// ApplyAllocation returns the player and team after a successful bid.
func ApplyAllocation(p player.Player, t team.Team, amount int64) (player.Player, team.Team) {
	p.Status = player.StatusAllocated
	p.CurrentTeamID = t.ID
	p.SoldPrice = amount
	t.RemainingBudget -= amount
	t.CurrentPlayers++
	return p, t
}

// RevertAllocation undoes ApplyAllocation for the given allocation.
func RevertAllocation(p player.Player, t team.Team, allocation Allocation) (player.Player, team.Team) {
	p.Status = player.StatusAvailable
	p.CurrentTeamID = ""
	p.SoldPrice = 0
	t.RemainingBudget += allocation.Amount
	if t.RemainingBudget > t.InitialBudget {
		t.RemainingBudget = t.InitialBudget
	}
	if t.CurrentPlayers > 0 {
		t.CurrentPlayers--
	}
	return p, t
}
