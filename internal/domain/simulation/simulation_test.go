package simulation

import (
	"strings"
	"testing"

	"github.com/riskibarqy/league-auction/internal/domain/composition"
	"github.com/riskibarqy/league-auction/internal/domain/player"
)

func int64Ptr(v int64) *int64 { return &v }

func TestSimulate_BasePriceWithinBudget(t *testing.T) {
	got := Simulate(Input{
		IsPreAuction:     true,
		PreferredPlayers: []Candidate{{Player: player.Player{ID: "p1", BasePrice: 5_000_000}}},
		Budget:           Budget{Initial: 10_000_000, Remaining: 10_000_000},
		MaxPlayers:       10,
	})

	if got.SimulatedBudget != 5_000_000 {
		t.Fatalf("unexpected simulated budget: %d", got.SimulatedBudget)
	}
	if !got.BudgetValid {
		t.Fatalf("expected budget valid")
	}
	if got.RemainingBudget != 5_000_000 {
		t.Fatalf("unexpected remaining budget: %d", got.RemainingBudget)
	}
	if report := got.Validate(); !report.IsValid {
		t.Fatalf("expected valid report, got %+v", report)
	}
}

func TestSimulate_MaxBidExceedsBudget(t *testing.T) {
	got := Simulate(Input{
		IsPreAuction:     true,
		PreferredPlayers: []Candidate{{Player: player.Player{ID: "p1", BasePrice: 5_000_000}, MaxBid: int64Ptr(12_000_000)}},
		Budget:           Budget{Initial: 10_000_000, Remaining: 10_000_000},
		MaxPlayers:       10,
	})

	if got.BudgetValid {
		t.Fatalf("expected budget invalid")
	}
	report := got.Validate()
	if report.IsValid || len(report.Errors) != 1 {
		t.Fatalf("expected one error, got %+v", report)
	}
	if !strings.Contains(report.Errors[0], "exceeds") || !strings.Contains(report.Errors[0], "budget") {
		t.Fatalf("expected budget exceeded message, got %q", report.Errors[0])
	}
}

func TestSimulate_PreAuctionExcludesAllocated(t *testing.T) {
	allocated := []player.Player{
		{ID: "a1", Position: "SETTER", Category: player.CategoryLevel1},
		{ID: "a2", Position: "ATTACKER", Category: player.CategoryLevel2},
	}
	preferred := []Candidate{{Player: player.Player{ID: "p1", Position: "SETTER", Category: player.CategoryLevel1, BasePrice: 1_000_000}}}
	budget := Budget{Initial: 100_000_000, Remaining: 60_000_000, Allocated: 40_000_000}

	pre := Simulate(Input{
		IsPreAuction:         true,
		AllocatedPlayers:     allocated,
		PreferredPlayers:     preferred,
		CategoryRequirements: composition.DefaultRequirements(),
		Budget:               budget,
		MaxPlayers:           2,
	})
	if pre.CurrentPlayers != 0 || !pre.PlayerCountValid {
		t.Fatalf("pre-auction must ignore allocated players: %+v", pre)
	}
	if pre.RemainingBudget != 99_000_000 {
		t.Fatalf("pre-auction baseline must be initial budget, got %d", pre.RemainingBudget)
	}
	if pre.Categories[player.TierMarquee] != (Counter{Current: 0, Simulated: 1, Required: 1}) {
		t.Fatalf("unexpected marquee counter: %+v", pre.Categories[player.TierMarquee])
	}

	live := Simulate(Input{
		AllocatedPlayers:     allocated,
		PreferredPlayers:     preferred,
		CategoryRequirements: composition.DefaultRequirements(),
		Budget:               budget,
		MaxPlayers:           2,
	})
	if live.CurrentPlayers != 2 || live.PlayerCountValid {
		t.Fatalf("live simulation must count allocated players: %+v", live)
	}
	if live.RemainingBudget != 59_000_000 {
		t.Fatalf("live baseline must be remaining budget, got %d", live.RemainingBudget)
	}
	if live.Positions["SETTER"] != (Counter{Current: 1, Simulated: 1}) {
		t.Fatalf("unexpected setter counter: %+v", live.Positions["SETTER"])
	}
}

func TestSimulate_CategoryShortfallReported(t *testing.T) {
	got := Simulate(Input{
		IsPreAuction:         true,
		PreferredPlayers:     []Candidate{{Player: player.Player{ID: "p1", Category: player.CategoryLevel2}}},
		CategoryRequirements: composition.DefaultRequirements(),
		Budget:               Budget{Initial: 10},
	})

	if got.CategoryRequirementsValid {
		t.Fatalf("expected category requirements unmet")
	}
	if !got.PositionRequirementsValid || !got.SkillRequirementsValid {
		t.Fatalf("position and skill carry no requirements")
	}
	report := got.Validate()
	if report.IsValid || len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "MARQUEE needs 1, has 0") {
		t.Fatalf("unexpected report: %+v", report)
	}
}
