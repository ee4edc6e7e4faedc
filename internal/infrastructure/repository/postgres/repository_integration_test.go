//go:build integration

package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/registration"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/platform/migration"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var integrationTrack = tournament.Track{
	TournamentID:  "community-cup-2026",
	SportCategory: tournament.VolleyballOpenMen,
}

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16.3-alpine",
		tcpostgres.WithDatabase("league_auction"),
		tcpostgres.WithUsername("auction"),
		tcpostgres.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	runner, err := migration.New(dsn, filepath.Join("..", "..", "..", "..", "db", "migrations"))
	if err != nil {
		t.Fatalf("create migrator: %v", err)
	}
	if _, err := runner.Up(); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := runner.Close(); err != nil {
		t.Fatalf("close migrator: %v", err)
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := BootstrapSeed(ctx, db); err != nil {
		t.Fatalf("bootstrap seed: %v", err)
	}
	return db
}

func TestPostgresRepositories_Integration(t *testing.T) {
	db := startPostgres(t)
	ctx := t.Context()

	tournaments := NewTournamentRepository(db)
	teams := NewTeamRepository(db)
	players := NewPlayerRepository(db)
	ledger := NewLedgerRepository(db)
	queue := NewQueueRepository(db)
	registrations := NewRegistrationRepository(db)

	t.Run("seeded tournament and track", func(t *testing.T) {
		item, found, err := tournaments.GetByID(ctx, integrationTrack.TournamentID)
		if err != nil || !found {
			t.Fatalf("get tournament: found=%v err=%v", found, err)
		}
		if !item.HasCategory(tournament.VolleyballOpenMen) {
			t.Fatalf("expected volleyball category: %+v", item.SportCategories)
		}

		rows, err := teams.ListByTrack(ctx, integrationTrack)
		if err != nil {
			t.Fatalf("list teams: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 seeded teams, got %d", len(rows))
		}
	})

	t.Run("ledger record and undo", func(t *testing.T) {
		outcome, err := ledger.RecordAllocation(ctx, auction.Allocation{
			ID:        "alloc-it-1",
			PlayerID:  "vb-player-01",
			TeamID:    "vb-thunder",
			Amount:    6_000_000,
			CreatedBy: "admin-1",
		})
		if err != nil {
			t.Fatalf("record allocation: %v", err)
		}
		if outcome.Team.RemainingBudget != 94_000_000 || outcome.Team.CurrentPlayers != 1 {
			t.Fatalf("unexpected team after bid: %+v", outcome.Team)
		}

		_, err = ledger.RecordAllocation(ctx, auction.Allocation{
			ID: "alloc-it-2", PlayerID: "vb-player-01", TeamID: "vb-falcons", Amount: 7_000_000,
		})
		if !errors.Is(err, auction.ErrPlayerUnavailable) {
			t.Fatalf("expected ErrPlayerUnavailable for sold player, got %v", err)
		}

		sold, err := players.ListByTeam(ctx, "vb-thunder")
		if err != nil || len(sold) != 1 || sold[0].SoldPrice != 6_000_000 {
			t.Fatalf("unexpected roster: %+v err=%v", sold, err)
		}

		undone, err := ledger.UndoLatestAllocation(ctx, "vb-player-01")
		if err != nil {
			t.Fatalf("undo allocation: %v", err)
		}
		if undone.Player.Status != player.StatusAvailable || undone.Team.RemainingBudget != 100_000_000 {
			t.Fatalf("unexpected undo outcome: %+v team=%+v", undone.Player, undone.Team)
		}
		if _, err := ledger.UndoLatestAllocation(ctx, "vb-player-01"); !errors.Is(err, auction.ErrNoActiveAllocation) {
			t.Fatalf("expected ErrNoActiveAllocation, got %v", err)
		}

		history, err := ledger.ListByTeam(ctx, "vb-thunder")
		if err != nil || len(history) != 1 || history[0].Active() {
			t.Fatalf("unexpected allocation history: %+v err=%v", history, err)
		}
	})

	t.Run("queue uniqueness and positions", func(t *testing.T) {
		item := auction.QueueItem{
			ID: "queue-it-1", TournamentID: integrationTrack.TournamentID, SportCategory: integrationTrack.SportCategory,
			PlayerID: "vb-player-02", Position: 1,
		}
		if err := queue.Insert(ctx, item); err != nil {
			t.Fatalf("insert queue item: %v", err)
		}
		item.ID = "queue-it-2"
		if err := queue.Insert(ctx, item); !errors.Is(err, auction.ErrAlreadyQueued) {
			t.Fatalf("expected ErrAlreadyQueued, got %v", err)
		}

		if err := queue.MarkProcessed(ctx, "queue-it-1"); err != nil {
			t.Fatalf("mark processed: %v", err)
		}
		if err := queue.Insert(ctx, item); err != nil {
			t.Fatalf("re-queue after processing: %v", err)
		}

		items, err := queue.ListByTrack(ctx, integrationTrack)
		if err != nil {
			t.Fatalf("list queue: %v", err)
		}
		if len(items) != 2 || items[0].IsProcessed || !items[1].IsProcessed {
			t.Fatalf("expected waiting item before processed item: %+v", items)
		}

		removed, err := queue.DeleteByTrack(ctx, integrationTrack)
		if err != nil || removed != 2 {
			t.Fatalf("delete by track: removed=%d err=%v", removed, err)
		}
	})

	t.Run("registration lookup by contact", func(t *testing.T) {
		form := registration.Form{
			SportCategory: tournament.VolleyballOpenMen,
			FullName:      "Priya Nair",
			Email:         "priya@example.com",
			Phone:         "+91 98765-43210",
			JerseyNumber:  11,
		}
		if err := registrations.Create(ctx, registration.Registration{
			ID: "reg-it-1", TournamentID: integrationTrack.TournamentID, Form: form, CreatedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("create registration: %v", err)
		}

		got, found, err := registrations.FindLatestByContact(ctx, "", "9876543210")
		if err != nil || !found {
			t.Fatalf("find by phone: found=%v err=%v", found, err)
		}
		if got.Form.FullName != "Priya Nair" || got.Form.JerseyNumber != 11 {
			t.Fatalf("unexpected registration: %+v", got.Form)
		}
	})
}
