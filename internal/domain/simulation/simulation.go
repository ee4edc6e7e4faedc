package simulation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/league-auction/internal/domain/composition"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/points"
)

// Candidate is a preferred player with an optional planned ceiling.
type Candidate struct {
	Player player.Player
	MaxBid *int64
}

// Cost is the planned spend: the max bid when set, otherwise the base price.
func (c Candidate) Cost() int64 {
	if c.MaxBid != nil {
		return *c.MaxBid
	}
	return c.Player.BasePrice
}

type Budget struct {
	Initial   int64
	Remaining int64
	Allocated int64
}

type Counter struct {
	Current   int
	Simulated int
	Required  int
}

func (c Counter) Satisfied() bool {
	return c.Current+c.Simulated >= c.Required
}

type Input struct {
	IsPreAuction         bool
	AllocatedPlayers     []player.Player
	PreferredPlayers     []Candidate
	CategoryRequirements []composition.Requirement
	Budget               Budget
	MaxPlayers           int
}

type Result struct {
	IsPreAuction              bool
	SimulatedBudget           int64
	RemainingBudget           int64
	InitialBudget             int64
	CurrentPlayers            int
	PreferredPlayers          int
	MaxPlayers                int
	Positions                 map[string]Counter
	SkillLevels               map[string]Counter
	Categories                map[player.Tier]Counter
	BudgetValid               bool
	PlayerCountValid          bool
	CategoryRequirementsValid bool
	PositionRequirementsValid bool
	SkillRequirementsValid    bool
}

// Report is a projection of the Result flags for display.
type Report struct {
	IsValid bool
	Errors  []string
}

func Simulate(in Input) Result {
	maxPlayers := in.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = composition.DefaultMaxPlayers
	}

	current := in.AllocatedPlayers
	if in.IsPreAuction {
		current = nil
	}

	out := Result{
		IsPreAuction:     in.IsPreAuction,
		InitialBudget:    in.Budget.Initial,
		CurrentPlayers:   len(current),
		PreferredPlayers: len(in.PreferredPlayers),
		MaxPlayers:       maxPlayers,
		Positions:        make(map[string]Counter),
		SkillLevels:      make(map[string]Counter),
		Categories:       make(map[player.Tier]Counter),
	}

	for _, req := range in.CategoryRequirements {
		counter := out.Categories[req.Tier]
		counter.Required = req.MinPlayers
		out.Categories[req.Tier] = counter
	}

	for _, item := range current {
		bump(out.Positions, item.Position, func(c *Counter) { c.Current++ })
		bump(out.SkillLevels, item.SkillLevel, func(c *Counter) { c.Current++ })
		if tier, ok := item.Category.Tier(); ok {
			bump(out.Categories, tier, func(c *Counter) { c.Current++ })
		}
	}

	for _, candidate := range in.PreferredPlayers {
		out.SimulatedBudget += candidate.Cost()
		item := candidate.Player
		bump(out.Positions, item.Position, func(c *Counter) { c.Simulated++ })
		bump(out.SkillLevels, item.SkillLevel, func(c *Counter) { c.Simulated++ })
		if tier, ok := item.Category.Tier(); ok {
			bump(out.Categories, tier, func(c *Counter) { c.Simulated++ })
		}
	}

	baseline := in.Budget.Remaining
	if in.IsPreAuction {
		baseline = in.Budget.Initial
	}
	out.RemainingBudget = baseline - out.SimulatedBudget

	out.BudgetValid = out.SimulatedBudget <= in.Budget.Initial
	out.PlayerCountValid = out.CurrentPlayers+out.PreferredPlayers <= maxPlayers
	out.CategoryRequirementsValid = allSatisfied(out.Categories)
	out.PositionRequirementsValid = allSatisfied(out.Positions)
	out.SkillRequirementsValid = allSatisfied(out.SkillLevels)

	return out
}

func (r Result) Validate() Report {
	var errs []string

	if !r.BudgetValid {
		errs = append(errs, fmt.Sprintf("Simulated spend of %s exceeds the initial budget of %s",
			points.FormatCrores(r.SimulatedBudget), points.FormatCrores(r.InitialBudget)))
	}
	if !r.PlayerCountValid {
		errs = append(errs, fmt.Sprintf("Player count of %d exceeds the maximum of %d",
			r.CurrentPlayers+r.PreferredPlayers, r.MaxPlayers))
	}
	if !r.CategoryRequirementsValid {
		errs = append(errs, "Category requirements not met: "+describeShortfalls(r.Categories))
	}
	if !r.PositionRequirementsValid {
		errs = append(errs, "Position requirements not met: "+describeShortfalls(r.Positions))
	}
	if !r.SkillRequirementsValid {
		errs = append(errs, "Skill level requirements not met: "+describeShortfalls(r.SkillLevels))
	}

	return Report{IsValid: len(errs) == 0, Errors: errs}
}

func bump[K comparable](counters map[K]Counter, key K, apply func(*Counter)) {
	var zero K
	if key == zero {
		return
	}
	counter := counters[key]
	apply(&counter)
	counters[key] = counter
}

func allSatisfied[K comparable](counters map[K]Counter) bool {
	for _, counter := range counters {
		if !counter.Satisfied() {
			return false
		}
	}
	return true
}

func describeShortfalls[K ~string](counters map[K]Counter) string {
	parts := make([]string, 0, len(counters))
	for key, counter := range counters {
		if counter.Satisfied() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s needs %d, has %d", key, counter.Required, counter.Current+counter.Simulated))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
