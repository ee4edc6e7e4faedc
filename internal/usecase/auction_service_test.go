package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-auction/internal/platform/lock"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

var testTrack = tournament.Track{
	TournamentID:  memory.TournamentIDCommunityCup,
	SportCategory: tournament.VolleyballOpenMen,
}

type sequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

type busyLocker struct{}

func (busyLocker) Acquire(_ context.Context, _ string) (lock.Release, error) {
	return nil, lock.ErrBusy
}

type recordingMetrics struct {
	mu       sync.Mutex
	bids     int
	undone   int
	unalloc  int
	queueAdd int
}

func (m *recordingMetrics) BidRecorded(_ tournament.Track, _ int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bids++
}

func (m *recordingMetrics) BidUndone(_ tournament.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undone++
}

func (m *recordingMetrics) PlayerUnallocated(_ tournament.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unalloc++
}

func (m *recordingMetrics) QueueItemsAdded(_ tournament.Track, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueAdd += count
}

type auctionFixture struct {
	tournaments *memory.TournamentRepository
	teams       *memory.TeamRepository
	players     *memory.PlayerRepository
	queueRepo   *memory.QueueRepository
	metrics     *recordingMetrics
	auctions    *AuctionService
	queues      *QueueService
}

func newAuctionFixture(t *testing.T) auctionFixture {
	t.Helper()

	tournaments := memory.NewTournamentRepository(memory.SeedTournaments())
	teams := memory.NewTeamRepository(memory.SeedTeams())
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	ledger := memory.NewLedgerRepository(players, teams)
	queueRepo := memory.NewQueueRepository()
	locker := lock.NewMemoryLocker(time.Second)
	metrics := &recordingMetrics{}

	auctions := NewAuctionService(
		tournaments,
		teams,
		players,
		ledger,
		memory.NewDisplayConfigRepository(),
		locker,
		&sequenceIDGenerator{prefix: "alloc"},
		metrics,
		logging.NewNop(),
	)
	queues := NewQueueService(
		tournaments,
		players,
		queueRepo,
		locker,
		&sequenceIDGenerator{prefix: "q"},
		metrics,
		QueueServiceConfig{BulkAddWorkers: 4},
		logging.NewNop(),
	)

	return auctionFixture{
		tournaments: tournaments,
		teams:       teams,
		players:     players,
		queueRepo:   queueRepo,
		metrics:     metrics,
		auctions:    auctions,
		queues:      queues,
	}
}

func TestAuctionService_RecordBid_AllocatesPlayerAndChargesTeam(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	result, err := fx.auctions.RecordBid(ctx, RecordBidInput{
		Track:    testTrack,
		PlayerID: "vb-player-01",
		TeamID:   "vb-thunder",
		Amount:   15_000_000,
		ActorID:  "admin-1",
	})
	if err != nil {
		t.Fatalf("record bid: %v", err)
	}
	if result.Player.Status != player.StatusAllocated || result.Player.CurrentTeamID != "vb-thunder" {
		t.Fatalf("unexpected player after bid: %+v", result.Player)
	}
	if result.Team == nil || result.Team.RemainingBudget != 85_000_000 || result.Team.CurrentPlayers != 1 {
		t.Fatalf("unexpected team after bid: %+v", result.Team)
	}
	if result.Message != "Aditya Kulkarni sold to Thunder Spikers for 1.5 Cr" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	stored, _, err := fx.teams.GetByID(ctx, "vb-thunder")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if stored.RemainingBudget != 85_000_000 {
		t.Fatalf("team budget not persisted: %d", stored.RemainingBudget)
	}
	if fx.metrics.bids != 1 {
		t.Fatalf("expected bid metric, got %d", fx.metrics.bids)
	}
}

func TestAuctionService_RecordBid_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		input    RecordBidInput
		sentinel error
		domain   error
	}{
		{
			name:     "zero amount",
			input:    RecordBidInput{Track: testTrack, PlayerID: "vb-player-01", TeamID: "vb-thunder"},
			sentinel: ErrInvalidInput,
			domain:   auction.ErrInvalidAmount,
		},
		{
			name:     "below base price",
			input:    RecordBidInput{Track: testTrack, PlayerID: "vb-player-01", TeamID: "vb-thunder", Amount: 2_000_000},
			sentinel: ErrInvalidInput,
			domain:   auction.ErrBelowBasePrice,
		},
		{
			name:     "over budget",
			input:    RecordBidInput{Track: testTrack, PlayerID: "vb-player-01", TeamID: "vb-thunder", Amount: 120_000_000},
			sentinel: ErrConflict,
			domain:   auction.ErrInsufficientBudget,
		},
		{
			name:     "unknown team",
			input:    RecordBidInput{Track: testTrack, PlayerID: "vb-player-01", TeamID: "missing", Amount: 5_000_000},
			sentinel: ErrNotFound,
		},
		{
			name: "unknown tournament",
			input: RecordBidInput{
				Track:    tournament.Track{TournamentID: "missing-cup", SportCategory: tournament.VolleyballOpenMen},
				PlayerID: "vb-player-01",
				TeamID:   "vb-thunder",
				Amount:   5_000_000,
			},
			sentinel: ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newAuctionFixture(t)

			_, err := fx.auctions.RecordBid(t.Context(), tc.input)
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			if tc.domain != nil && !errors.Is(err, tc.domain) {
				t.Fatalf("expected domain error %v in chain, got %v", tc.domain, err)
			}
		})
	}
}

func TestAuctionService_RecordBid_SecondBidOnAllocatedPlayerConflicts(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	input := RecordBidInput{Track: testTrack, PlayerID: "vb-player-03", TeamID: "vb-thunder", Amount: 1_000_000}
	if _, err := fx.auctions.RecordBid(ctx, input); err != nil {
		t.Fatalf("first bid: %v", err)
	}

	input.TeamID = "vb-falcons"
	_, err := fx.auctions.RecordBid(ctx, input)
	if !errors.Is(err, ErrConflict) || !errors.Is(err, auction.ErrPlayerUnavailable) {
		t.Fatalf("expected player unavailable conflict, got %v", err)
	}
}

func TestAuctionService_UndoBid_RestoresBudget(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	if _, err := fx.auctions.RecordBid(ctx, RecordBidInput{
		Track: testTrack, PlayerID: "vb-player-02", TeamID: "vb-falcons", Amount: 4_000_000,
	}); err != nil {
		t.Fatalf("record bid: %v", err)
	}

	result, err := fx.auctions.UndoBid(ctx, testTrack, "vb-player-02")
	if err != nil {
		t.Fatalf("undo bid: %v", err)
	}
	if result.Player.Status != player.StatusAvailable || result.Player.CurrentTeamID != "" {
		t.Fatalf("unexpected player after undo: %+v", result.Player)
	}
	if result.Team == nil || result.Team.RemainingBudget != 100_000_000 || result.Team.CurrentPlayers != 0 {
		t.Fatalf("unexpected team after undo: %+v", result.Team)
	}

	_, err = fx.auctions.UndoBid(ctx, testTrack, "vb-player-02")
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, auction.ErrNoActiveAllocation) {
		t.Fatalf("expected no active allocation, got %v", err)
	}
}

func TestAuctionService_MarkUnallocated_LeavesBudgetsAlone(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	result, err := fx.auctions.MarkUnallocated(ctx, testTrack, "vb-player-05")
	if err != nil {
		t.Fatalf("mark unallocated: %v", err)
	}
	if result.Player.Status != player.StatusUnallocated {
		t.Fatalf("expected UNALLOCATED, got %s", result.Player.Status)
	}

	teams, err := fx.teams.ListByTrack(ctx, testTrack)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	for _, item := range teams {
		if item.RemainingBudget != item.InitialBudget {
			t.Fatalf("team %s budget changed: %d", item.ID, item.RemainingBudget)
		}
	}

	// unallocated players stay biddable
	if _, err := fx.auctions.RecordBid(ctx, RecordBidInput{
		Track: testTrack, PlayerID: "vb-player-05", TeamID: "vb-titans", Amount: 1_000_000,
	}); err != nil {
		t.Fatalf("bid on unallocated player: %v", err)
	}
}

func TestAuctionService_BusyTrackReturnsConflict(t *testing.T) {
	fx := newAuctionFixture(t)
	fx.auctions.locker = busyLocker{}

	_, err := fx.auctions.RecordBid(t.Context(), RecordBidInput{
		Track: testTrack, PlayerID: "vb-player-01", TeamID: "vb-thunder", Amount: 5_000_000,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuctionService_DisplayConfig_DefaultsThenUpdate(t *testing.T) {
	fx := newAuctionFixture(t)
	ctx := t.Context()

	cfg, err := fx.auctions.GetDisplayConfig(ctx, memory.TournamentIDCommunityCup)
	if err != nil {
		t.Fatalf("get display config: %v", err)
	}
	if cfg.InitialTimerSeconds != 60 || cfg.GoingTwiceSeconds != 5 || !cfg.SoundEnabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	cfg.InitialTimerSeconds = 45
	cfg.SoundEnabled = false
	if _, err := fx.auctions.UpdateDisplayConfig(ctx, cfg); err != nil {
		t.Fatalf("update display config: %v", err)
	}

	got, err := fx.auctions.GetDisplayConfig(ctx, memory.TournamentIDCommunityCup)
	if err != nil {
		t.Fatalf("get display config: %v", err)
	}
	if got.InitialTimerSeconds != 45 || got.SoundEnabled {
		t.Fatalf("update not persisted: %+v", got)
	}

	cfg.GoingTwiceSeconds = 20
	if _, err := fx.auctions.UpdateDisplayConfig(ctx, cfg); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
