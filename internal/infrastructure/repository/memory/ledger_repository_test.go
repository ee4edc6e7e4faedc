package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

func TestLedgerRepository_RecordUndoCycle(t *testing.T) {
	ctx := context.Background()
	players := NewPlayerRepository(SeedPlayers())
	teams := NewTeamRepository(SeedTeams())
	ledger := NewLedgerRepository(players, teams)

	outcome, err := ledger.RecordAllocation(ctx, auction.Allocation{ID: "alloc-1", PlayerID: "vb-player-01", TeamID: "vb-thunder", Amount: 6_000_000})
	if err != nil {
		t.Fatalf("record allocation: %v", err)
	}
	if outcome.Player.Status != player.StatusAllocated || outcome.Team.RemainingBudget != 94_000_000 {
		t.Fatalf("unexpected outcome: %+v team=%+v", outcome.Player, outcome.Team)
	}

	roster, _ := players.ListByTeam(ctx, "vb-thunder")
	if len(roster) != 1 {
		t.Fatalf("expected one rostered player, got %d", len(roster))
	}

	if _, err := ledger.RecordAllocation(ctx, auction.Allocation{ID: "alloc-2", PlayerID: "vb-player-01", TeamID: "vb-falcons", Amount: 7_000_000}); !errors.Is(err, auction.ErrPlayerUnavailable) {
		t.Fatalf("expected sold player to be unavailable, got %v", err)
	}

	undone, err := ledger.UndoLatestAllocation(ctx, "vb-player-01")
	if err != nil {
		t.Fatalf("undo allocation: %v", err)
	}
	if undone.Player.Status != player.StatusAvailable || undone.Team.RemainingBudget != 100_000_000 || undone.Allocation.UndoneAt == nil {
		t.Fatalf("unexpected undo outcome: %+v team=%+v", undone.Player, undone.Team)
	}

	if _, err := ledger.UndoLatestAllocation(ctx, "vb-player-01"); !errors.Is(err, auction.ErrNoActiveAllocation) {
		t.Fatalf("expected ErrNoActiveAllocation, got %v", err)
	}
}

func TestLedgerRepository_MarkUnallocated(t *testing.T) {
	ctx := context.Background()
	players := NewPlayerRepository(SeedPlayers())
	ledger := NewLedgerRepository(players, NewTeamRepository(SeedTeams()))

	outcome, err := ledger.MarkUnallocated(ctx, "vb-player-02")
	if err != nil {
		t.Fatalf("mark unallocated: %v", err)
	}
	if outcome.Player.Status != player.StatusUnallocated || outcome.Team != nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	got, _, _ := players.GetByID(ctx, "vb-player-02")
	if got.Status != player.StatusUnallocated {
		t.Fatalf("status not persisted: %s", got.Status)
	}
}

func TestQueueRepository_DeleteByTrack(t *testing.T) {
	ctx := context.Background()
	repo := NewQueueRepository()
	track := tournament.Track{TournamentID: TournamentIDCommunityCup, SportCategory: tournament.VolleyballOpenMen}
	other := tournament.Track{TournamentID: TournamentIDCommunityCup, SportCategory: tournament.ThrowballWomen}

	_ = repo.Insert(ctx, auction.QueueItem{ID: "q1", TournamentID: track.TournamentID, SportCategory: track.SportCategory, PlayerID: "p1", Position: 1})
	_ = repo.Insert(ctx, auction.QueueItem{ID: "q2", TournamentID: other.TournamentID, SportCategory: other.SportCategory, PlayerID: "p2", Position: 1})

	removed, err := repo.DeleteByTrack(ctx, track)
	if err != nil || removed != 1 {
		t.Fatalf("unexpected delete result: removed=%d err=%v", removed, err)
	}
	left, _ := repo.ListByTrack(ctx, other)
	if len(left) != 1 || left[0].ID != "q2" {
		t.Fatalf("other track must be untouched: %+v", left)
	}
}
