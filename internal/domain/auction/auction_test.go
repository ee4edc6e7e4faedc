package auction

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

func itemIDs(items []QueueItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestValidateBid_Messages(t *testing.T) {
	teams := []team.Team{
		{ID: "team-1", RemainingBudget: 15_000_000, MaxPlayers: 10, CurrentPlayers: 3},
		{ID: "team-2", RemainingBudget: 50_000_000, MaxPlayers: 10, CurrentPlayers: 10},
	}

	if got := ValidateBid(0, "team-1", teams); got != "Bid amount must be greater than 0" {
		t.Fatalf("unexpected zero amount message: %q", got)
	}
	if got := ValidateBid(1, "", teams); got != "Please select a valid team" {
		t.Fatalf("unexpected missing team message: %q", got)
	}
	if got := ValidateBid(1, "team-9", teams); got != "Please select a valid team" {
		t.Fatalf("unexpected unknown team message: %q", got)
	}
	got := ValidateBid(2, "team-1", teams)
	if got != "Bid amount exceeds team's remaining balance of 1.5 Cr" {
		t.Fatalf("unexpected exceeds message: %q", got)
	}
	if !strings.Contains(got, "1.5 Cr") {
		t.Fatalf("message must include formatted balance: %q", got)
	}
	if got := ValidateBid(1, "team-2", teams); got != "Team has reached the maximum number of players" {
		t.Fatalf("unexpected roster full message: %q", got)
	}
	if got := ValidateBid(1.5, "team-1", teams); got != "" {
		t.Fatalf("expected valid bid, got %q", got)
	}
}

func TestCheckAllocation(t *testing.T) {
	p := player.Player{ID: "p1", TournamentID: "t1", SportCategory: tournament.ThrowballWomen, BasePrice: 2_000_000, Status: player.StatusAvailable}
	tm := team.Team{ID: "team-1", TournamentID: "t1", SportCategory: tournament.ThrowballWomen, InitialBudget: 10_000_000, RemainingBudget: 10_000_000, MaxPlayers: 2}

	if err := CheckAllocation(p, tm, 3_000_000); err != nil {
		t.Fatalf("expected allocation allowed: %v", err)
	}

	cases := []struct {
		name   string
		player player.Player
		team   team.Team
		amount int64
		want   error
	}{
		{name: "zero", player: p, team: tm, amount: 0, want: ErrInvalidAmount},
		{name: "below base", player: p, team: tm, amount: 1_000_000, want: ErrBelowBasePrice},
		{name: "over budget", player: p, team: tm, amount: 11_000_000, want: ErrInsufficientBudget},
		{name: "allocated", player: func() player.Player { c := p; c.Status = player.StatusAllocated; return c }(), team: tm, amount: 3_000_000, want: ErrPlayerUnavailable},
		{name: "other track", player: p, team: func() team.Team { c := tm; c.SportCategory = tournament.VolleyballOpenMen; return c }(), amount: 3_000_000, want: ErrTrackMismatch},
		{name: "roster full", player: p, team: func() team.Team { c := tm; c.CurrentPlayers = 2; return c }(), amount: 3_000_000, want: ErrRosterFull},
	}
	for _, tc := range cases {
		if err := CheckAllocation(tc.player, tc.team, tc.amount); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestApplyAndRevertAllocation(t *testing.T) {
	p := player.Player{ID: "p1", Status: player.StatusUnallocated}
	tm := team.Team{ID: "team-1", InitialBudget: 10_000_000, RemainingBudget: 10_000_000, MaxPlayers: 5}

	sold, charged := ApplyAllocation(p, tm, 4_000_000)
	if sold.Status != player.StatusAllocated || sold.CurrentTeamID != "team-1" || sold.SoldPrice != 4_000_000 {
		t.Fatalf("unexpected sold player: %+v", sold)
	}
	if charged.RemainingBudget != 6_000_000 || charged.CurrentPlayers != 1 {
		t.Fatalf("unexpected charged team: %+v", charged)
	}

	back, refunded := RevertAllocation(sold, charged, Allocation{Amount: 4_000_000})
	if back.Status != player.StatusAvailable || back.CurrentTeamID != "" {
		t.Fatalf("unexpected reverted player: %+v", back)
	}
	if refunded.RemainingBudget != 10_000_000 || refunded.CurrentPlayers != 0 {
		t.Fatalf("unexpected refunded team: %+v", refunded)
	}
}

func TestQueue_AddRemoveRenumbers(t *testing.T) {
	var queue []QueueItem
	for idx, id := range []string{"q1", "q2", "q3"} {
		queue = InsertAt(queue, QueueItem{ID: id}, len(queue)+1)
		for _, update := range Renumber(queue) {
			if update.ItemID == id && update.Position != idx+1 {
				t.Fatalf("item %s got position %d", id, update.Position)
			}
		}
	}

	queue = slices.DeleteFunc(queue, func(item QueueItem) bool { return item.ID == "q2" })
	updates := Renumber(queue)
	if len(updates) != 2 || updates[0] != (PositionUpdate{ItemID: "q1", Position: 1}) || updates[1] != (PositionUpdate{ItemID: "q3", Position: 2}) {
		t.Fatalf("expected dense renumbering, got %+v", updates)
	}
}

func TestInsertAt_ExplicitAndClamped(t *testing.T) {
	queue := []QueueItem{{ID: "a"}, {ID: "b"}}
	if got := itemIDs(InsertAt(queue, QueueItem{ID: "x"}, 1)); !slices.Equal(got, []string{"x", "a", "b"}) {
		t.Fatalf("unexpected insert at 1: %v", got)
	}
	if got := itemIDs(InsertAt(queue, QueueItem{ID: "x"}, 99)); !slices.Equal(got, []string{"a", "b", "x"}) {
		t.Fatalf("unexpected clamped insert: %v", got)
	}
}

func TestMove(t *testing.T) {
	got, err := Move([]string{"a", "b", "c", "d"}, 0, 2)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !slices.Equal(got, []string{"b", "c", "a", "d"}) {
		t.Fatalf("unexpected move result: %v", got)
	}
	if _, err := Move([]string{"a"}, 0, 3); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestSortQueueAndUnprocessed(t *testing.T) {
	now := time.Now()
	items := []QueueItem{
		{ID: "done", Position: 1, IsProcessed: true, CreatedAt: now},
		{ID: "second", Position: 2, CreatedAt: now},
		{ID: "first", Position: 1, CreatedAt: now},
	}
	if got := itemIDs(SortQueue(items)); !slices.Equal(got, []string{"first", "second", "done"}) {
		t.Fatalf("unexpected sorted queue: %v", got)
	}
	if got := itemIDs(Unprocessed(items)); !slices.Equal(got, []string{"first", "second"}) {
		t.Fatalf("unexpected unprocessed: %v", got)
	}
}

func TestApplyReorder(t *testing.T) {
	unprocessed := []QueueItem{{ID: "a", Position: 1}, {ID: "b", Position: 2}, {ID: "c", Position: 3}}

	got, err := ApplyReorder(unprocessed, []PositionUpdate{{ItemID: "c", Position: 1}, {ItemID: "a", Position: 2}, {ItemID: "b", Position: 3}})
	if err != nil {
		t.Fatalf("apply reorder: %v", err)
	}
	if !slices.Equal(itemIDs(got), []string{"c", "a", "b"}) {
		t.Fatalf("unexpected reorder: %v", itemIDs(got))
	}

	bad := [][]PositionUpdate{
		{{ItemID: "a", Position: 1}},
		{{ItemID: "a", Position: 1}, {ItemID: "b", Position: 1}, {ItemID: "c", Position: 3}},
		{{ItemID: "a", Position: 1}, {ItemID: "b", Position: 2}, {ItemID: "zz", Position: 3}},
		{{ItemID: "a", Position: 1}, {ItemID: "b", Position: 2}, {ItemID: "c", Position: 4}},
	}
	for idx, updates := range bad {
		if _, err := ApplyReorder(unprocessed, updates); err == nil {
			t.Fatalf("case %d: expected reorder error", idx)
		}
	}
}

func TestDisplayConfigValidate(t *testing.T) {
	cfg := DefaultDisplayConfig("t1")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
	cfg.GoingTwiceSeconds = 20
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected going twice > going once to fail")
	}
}
