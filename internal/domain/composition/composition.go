package composition

import "github.com/riskibarqy/league-auction/internal/domain/player"

const (
	DefaultMinPlayers = 8
	DefaultMaxPlayers = 10
)

// Requirement is a minimum head count for one tier.
type Requirement struct {
	Tier       player.Tier
	MinPlayers int
}

// DefaultRequirements are fixed policy: MARQUEE>=1, CAPPED>=2, UNCAPPED>=3.
func DefaultRequirements() []Requirement {
	return []Requirement{
		{Tier: player.TierMarquee, MinPlayers: 1},
		{Tier: player.TierCapped, MinPlayers: 2},
		{Tier: player.TierUncapped, MinPlayers: 3},
	}
}

type CategoryStatus struct {
	Tier         player.Tier
	MinPlayers   int
	CurrentCount int
}

func (c CategoryStatus) Met() bool {
	return c.CurrentCount >= c.MinPlayers
}

// Status is the composition of one list of players against the bounds.
type Status struct {
	TotalPlayers         int
	MinPlayers           int
	MaxPlayers           int
	CategoryRequirements []CategoryStatus
	IsValid              bool
}

// Result keeps the current squad and the preferred-only list apart; they are never summed.
type Result struct {
	CurrentSquad  Status
	WithPreferred Status
}

func Evaluate(current, preferred []player.Player, minPlayers, maxPlayers int) Result {
	if minPlayers <= 0 {
		minPlayers = DefaultMinPlayers
	}
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	if minPlayers > maxPlayers {
		minPlayers = maxPlayers
	}

	requirements := DefaultRequirements()
	return Result{
		CurrentSquad:  evaluate(current, requirements, minPlayers, maxPlayers),
		WithPreferred: evaluate(preferred, requirements, minPlayers, maxPlayers),
	}
}

func evaluate(players []player.Player, requirements []Requirement, minPlayers, maxPlayers int) Status {
	counts := CountTiers(players)

	status := Status{
		TotalPlayers:         len(players),
		MinPlayers:           minPlayers,
		MaxPlayers:           maxPlayers,
		CategoryRequirements: make([]CategoryStatus, 0, len(requirements)),
	}

	valid := status.TotalPlayers >= minPlayers && status.TotalPlayers <= maxPlayers
	for _, req := range requirements {
		item := CategoryStatus{
			Tier:         req.Tier,
			MinPlayers:   req.MinPlayers,
			CurrentCount: counts[req.Tier],
		}
		if !item.Met() {
			valid = false
		}
		status.CategoryRequirements = append(status.CategoryRequirements, item)
	}
	status.IsValid = valid

	return status
}

// CountTiers counts players per tier; uncategorized players are skipped.
func CountTiers(players []player.Player) map[player.Tier]int {
	counts := make(map[player.Tier]int, len(player.AllTiers))
	for _, item := range players {
		if tier, ok := item.Category.Tier(); ok {
			counts[tier]++
		}
	}
	return counts
}
