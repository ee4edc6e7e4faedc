package usecase

import (
	"errors"
	"slices"
	"testing"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
)

func queuedPlayerIDs(t *testing.T, items []auction.QueueItemWithPlayer) []string {
	t.Helper()

	out := make([]string, 0, len(items))
	for idx, item := range items {
		if item.IsProcessed {
			continue
		}
		if item.Position != idx+1 {
			t.Fatalf("queue positions not dense: item %s at %d, want %d", item.ID, item.Position, idx+1)
		}
		out = append(out, item.PlayerID)
	}
	return out
}

func TestQueueService_AddAppendsAndInsertsAtPosition(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	for _, playerID := range []string{"vb-player-01", "vb-player-02", "vb-player-03"} {
		if _, err := fx.queues.Add(ctx, AddQueueItemInput{Track: testTrack, PlayerID: playerID}); err != nil {
			t.Fatalf("add %s: %v", playerID, err)
		}
	}
	if _, err := fx.queues.Add(ctx, AddQueueItemInput{Track: testTrack, PlayerID: "vb-player-04", Position: 2}); err != nil {
		t.Fatalf("insert at position: %v", err)
	}

	items, err := fx.queues.List(ctx, testTrack)
	if err != nil {
		t.Fatalf("list queue: %v", err)
	}
	got := queuedPlayerIDs(t, items)
	want := []string{"vb-player-01", "vb-player-04", "vb-player-02", "vb-player-03"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected queue order: got=%v want=%v", got, want)
	}
	if fx.metrics.queueAdd != 4 {
		t.Fatalf("expected 4 queued metrics, got %d", fx.metrics.queueAdd)
	}
}

func TestQueueService_AddRejectsDuplicateAndAllocated(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	if _, err := fx.queues.Add(ctx, AddQueueItemInput{Track: testTrack, PlayerID: "vb-player-01"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := fx.queues.Add(ctx, AddQueueItemInput{Track: testTrack, PlayerID: "vb-player-01"})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, auction.ErrAlreadyQueued) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	if _, err := fx.auctions.RecordBid(ctx, RecordBidInput{
		Track: testTrack, PlayerID: "vb-player-03", TeamID: "vb-thunder", Amount: 1_000_000,
	}); err != nil {
		t.Fatalf("record bid: %v", err)
	}
	_, err = fx.queues.Add(ctx, AddQueueItemInput{Track: testTrack, PlayerID: "vb-player-03"})
	if !errors.Is(err, auction.ErrPlayerUnavailable) {
		t.Fatalf("expected player unavailable, got %v", err)
	}
}

func TestQueueService_BulkAddSettlesEveryID(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	result, err := fx.queues.BulkAdd(ctx, testTrack, []string{
		"vb-player-05", "missing-player", "vb-player-02", "vb-player-05", "vb-player-07",
	})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}

	added := make([]string, 0, len(result.Added))
	for _, item := range result.Added {
		added = append(added, item.PlayerID)
	}
	if !slices.Equal(added, []string{"vb-player-05", "vb-player-02", "vb-player-07"}) {
		t.Fatalf("unexpected added order: %v", added)
	}
	if !slices.Equal(result.FailedIDs(), []string{"missing-player", "vb-player-05"}) {
		t.Fatalf("unexpected failed ids: %v", result.FailedIDs())
	}

	items, err := fx.queues.List(ctx, testTrack)
	if err != nil {
		t.Fatalf("list queue: %v", err)
	}
	if got := queuedPlayerIDs(t, items); len(got) != 3 {
		t.Fatalf("expected 3 queued players, got %v", got)
	}
}

func TestQueueService_BulkAddSkipsPlayersAlreadyWaiting(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	if _, err := fx.queues.Add(ctx, AddQueueItemInput{Track: testTrack, PlayerID: "vb-player-01"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	result, err := fx.queues.BulkAdd(ctx, testTrack, []string{"vb-player-01", "vb-player-02", "vb-player-03"})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}

	added := make([]string, 0, len(result.Added))
	for _, item := range result.Added {
		added = append(added, item.PlayerID)
	}
	if !slices.Equal(added, []string{"vb-player-02", "vb-player-03"}) {
		t.Fatalf("unexpected added players: %v", added)
	}
	if !slices.Equal(result.FailedIDs(), []string{"vb-player-01"}) {
		t.Fatalf("unexpected failed ids: %v", result.FailedIDs())
	}
	if result.Failed[0].Reason != auction.ErrAlreadyQueued.Error() {
		t.Fatalf("unexpected failure reason: %q", result.Failed[0].Reason)
	}

	items, err := fx.queues.List(ctx, testTrack)
	if err != nil {
		t.Fatalf("list queue: %v", err)
	}
	if got := queuedPlayerIDs(t, items); !slices.Equal(got, []string{"vb-player-01", "vb-player-02", "vb-player-03"}) {
		t.Fatalf("unexpected queue: %v", got)
	}
}

func TestQueueService_RemoveAndProcessKeepPositionsDense(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	result, err := fx.queues.BulkAdd(ctx, testTrack, []string{"vb-player-01", "vb-player-02", "vb-player-03", "vb-player-04"})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}

	if err := fx.queues.Remove(ctx, testTrack, result.Added[1].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := fx.queues.MarkProcessed(ctx, testTrack, result.Added[0].ID); err != nil {
		t.Fatalf("mark processed: %v", err)
	}

	items, err := fx.queues.List(ctx, testTrack)
	if err != nil {
		t.Fatalf("list queue: %v", err)
	}
	got := queuedPlayerIDs(t, items)
	if !slices.Equal(got, []string{"vb-player-03", "vb-player-04"}) {
		t.Fatalf("unexpected waiting players: %v", got)
	}
	if last := items[len(items)-1]; !last.IsProcessed || last.PlayerID != "vb-player-01" {
		t.Fatalf("expected processed item last, got %+v", last.QueueItem)
	}

	found, err := fx.queues.MarkProcessedByPlayer(ctx, testTrack, "vb-player-04")
	if err != nil || !found {
		t.Fatalf("mark processed by player: found=%v err=%v", found, err)
	}

	if err := fx.queues.Remove(ctx, testTrack, "missing-item"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQueueService_ReorderRequiresDensePermutation(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	result, err := fx.queues.BulkAdd(ctx, testTrack, []string{"vb-player-01", "vb-player-02", "vb-player-03"})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}
	a, b, c := result.Added[0].ID, result.Added[1].ID, result.Added[2].ID

	_, err = fx.queues.Reorder(ctx, testTrack, []auction.PositionUpdate{{ItemID: a, Position: 1}, {ItemID: b, Position: 1}, {ItemID: c, Position: 3}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate position, got %v", err)
	}

	items, err := fx.queues.Reorder(ctx, testTrack, []auction.PositionUpdate{
		{ItemID: c, Position: 1},
		{ItemID: a, Position: 2},
		{ItemID: b, Position: 3},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got := queuedPlayerIDs(t, items)
	if !slices.Equal(got, []string{"vb-player-03", "vb-player-01", "vb-player-02"}) {
		t.Fatalf("unexpected order after reorder: %v", got)
	}
}

func TestQueueService_ClearReturnsPlayersToPool(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	if _, err := fx.queues.BulkAdd(ctx, testTrack, []string{"vb-player-01", "vb-player-02"}); err != nil {
		t.Fatalf("bulk add: %v", err)
	}

	available, err := fx.queues.AvailablePlayers(ctx, testTrack, player.Filter{}, player.Sort{Field: player.SortByName})
	if err != nil {
		t.Fatalf("available players: %v", err)
	}
	if len(available) != 13 {
		t.Fatalf("expected 13 available players while 2 are queued, got %d", len(available))
	}

	removed, err := fx.queues.Clear(ctx, testTrack)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	available, err = fx.queues.AvailablePlayers(ctx, testTrack, player.Filter{Categories: []player.Category{player.CategoryLevel1}}, player.Sort{})
	if err != nil {
		t.Fatalf("available players: %v", err)
	}
	for _, item := range available {
		if item.Category != player.CategoryLevel1 {
			t.Fatalf("filter not applied: %+v", item)
		}
	}
	if len(available) != 3 {
		t.Fatalf("expected 3 level-1 players back in the pool, got %d", len(available))
	}
}
