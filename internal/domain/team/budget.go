package team

import "github.com/riskibarqy/league-auction/internal/domain/player"

// BudgetMetrics is the derived spend view of a team.
type BudgetMetrics struct {
	InitialBudget               int64
	RemainingBudget             int64
	AllocatedBudget             int64
	BudgetUtilizationPercentage float64
	AveragePlayerCost           float64
	CurrentPlayers              int
	MaxPlayers                  int
	MarqueeCount                int
	CappedCount                 int
	UncappedCount               int
}

// ComputeBudgetMetrics derives spend figures for a team and its rostered players.
func ComputeBudgetMetrics(t Team, roster []player.Player) BudgetMetrics {
	allocated := t.AllocatedBudget()
	out := BudgetMetrics{
		InitialBudget:   t.InitialBudget,
		RemainingBudget: t.RemainingBudget,
		AllocatedBudget: allocated,
		CurrentPlayers:  t.CurrentPlayers,
		MaxPlayers:      t.MaxPlayers,
	}

	if t.InitialBudget > 0 {
		out.BudgetUtilizationPercentage = float64(allocated) / float64(t.InitialBudget) * 100
	}
	if t.CurrentPlayers > 0 {
		out.AveragePlayerCost = float64(allocated) / float64(t.CurrentPlayers)
	}

	for _, item := range roster {
		tier, ok := item.Category.Tier()
		if !ok {
			continue
		}
		switch tier {
		case player.TierMarquee:
			out.MarqueeCount++
		case player.TierCapped:
			out.CappedCount++
		case player.TierUncapped:
			out.UncappedCount++
		}
	}

	return out
}
