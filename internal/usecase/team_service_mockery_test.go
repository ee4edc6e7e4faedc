package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/preference"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/domain/user"
	playermock "github.com/riskibarqy/league-auction/internal/mocks/domain/player"
	preferencemock "github.com/riskibarqy/league-auction/internal/mocks/domain/preference"
	teammock "github.com/riskibarqy/league-auction/internal/mocks/domain/team"
	tournamentmock "github.com/riskibarqy/league-auction/internal/mocks/domain/tournament"
	"github.com/stretchr/testify/mock"
)

var (
	adminPrincipal = user.Principal{UserID: "admin-1", Roles: []user.Role{user.RoleAdmin}}
	ownerPrincipal = user.Principal{UserID: "user-arvind", Roles: []user.Role{user.RoleTeamOwner}}
	otherPrincipal = user.Principal{UserID: "user-meera", Roles: []user.Role{user.RoleTeamOwner}}
)

func thunderTeam() team.Team {
	return team.Team{
		ID:              "vb-thunder",
		TournamentID:    "community-cup-2026",
		SportCategory:   tournament.VolleyballOpenMen,
		Name:            "Thunder Spikers",
		OwnerUserID:     "user-arvind",
		InitialBudget:   100_000_000,
		RemainingBudget: 70_000_000,
		MaxPlayers:      10,
		CurrentPlayers:  2,
	}
}

func TestTeamService_ListTeams_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentRepo := tournamentmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)

	service := NewTeamService(tournamentRepo, teamRepo, playermock.NewRepository(t), preferencemock.NewRepository(t), nil)
	track := tournament.Track{TournamentID: "community-cup-2026", SportCategory: "volleyball_open_men"}
	resolved := tournament.Track{TournamentID: "community-cup-2026", SportCategory: tournament.VolleyballOpenMen}

	tournamentRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "community-cup-2026").
		Return(tournament.Tournament{
			ID:              "community-cup-2026",
			SportCategories: []tournament.SportCategory{tournament.VolleyballOpenMen},
		}, true, nil).
		Once()
	teamRepo.
		On("ListByTrack", mock.Anything, resolved).
		Return([]team.Team{thunderTeam()}, nil).
		Once()

	got, err := service.ListTeams(ctx, track)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(got) != 1 || got[0].ID != "vb-thunder" {
		t.Fatalf("unexpected teams: %+v", got)
	}
}

func TestTeamService_ListTeams_CategoryNotRunUsingMockery(t *testing.T) {
	t.Parallel()

	tournamentRepo := tournamentmock.NewRepository(t)
	service := NewTeamService(tournamentRepo, teammock.NewRepository(t), playermock.NewRepository(t), preferencemock.NewRepository(t), nil)

	tournamentRepo.
		On("GetByID", mock.Anything, "community-cup-2026").
		Return(tournament.Tournament{
			ID:              "community-cup-2026",
			SportCategories: []tournament.SportCategory{tournament.ThrowballWomen},
		}, true, nil).
		Once()

	_, err := service.ListTeams(context.Background(), tournament.Track{
		TournamentID:  "community-cup-2026",
		SportCategory: tournament.VolleyballOpenMen,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamService_GetBudget_OwnerAndForbiddenUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := teammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	service := NewTeamService(tournamentmock.NewRepository(t), teamRepo, playerRepo, preferencemock.NewRepository(t), nil)

	teamRepo.On("GetByID", mock.Anything, "vb-thunder").Return(thunderTeam(), true, nil).Times(2)
	playerRepo.
		On("ListByTeam", mock.Anything, "vb-thunder").
		Return([]player.Player{
			{ID: "p1", Category: player.CategoryLevel1, SoldPrice: 20_000_000},
			{ID: "p2", Category: player.CategoryLevel3, SoldPrice: 10_000_000},
		}, nil).
		Once()

	got, err := service.GetBudget(context.Background(), ownerPrincipal, "vb-thunder")
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if got.Metrics.AllocatedBudget != 30_000_000 || got.Metrics.AveragePlayerCost != 15_000_000 {
		t.Fatalf("unexpected metrics: %+v", got.Metrics)
	}
	if got.Metrics.MarqueeCount != 1 || got.Metrics.UncappedCount != 1 {
		t.Fatalf("unexpected tier counts: %+v", got.Metrics)
	}

	_, err = service.GetBudget(context.Background(), otherPrincipal, "vb-thunder")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTeamService_Simulate_UsesMaxBidUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := teammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	preferenceRepo := preferencemock.NewRepository(t)
	service := NewTeamService(tournamentmock.NewRepository(t), teamRepo, playerRepo, preferenceRepo, nil)

	item := thunderTeam()
	maxBid := int64(40_000_000)
	teamRepo.On("GetByID", mock.Anything, item.ID).Return(item, true, nil).Once()
	playerRepo.On("ListByTeam", mock.Anything, item.ID).Return([]player.Player{}, nil).Once()
	preferenceRepo.
		On("ListByTeam", mock.Anything, item.ID).
		Return([]preference.Preference{
			{TeamID: item.ID, PlayerID: "p-marquee", MaxBid: &maxBid},
			{TeamID: item.ID, PlayerID: "p-capped"},
		}, nil).
		Once()
	playerRepo.
		On("GetByID", mock.Anything, "p-marquee").
		Return(player.Player{ID: "p-marquee", TournamentID: item.TournamentID, SportCategory: item.SportCategory, Category: player.CategoryLevel1, BasePrice: 5_000_000}, true, nil).
		Once()
	playerRepo.
		On("GetByID", mock.Anything, "p-capped").
		Return(player.Player{ID: "p-capped", TournamentID: item.TournamentID, SportCategory: item.SportCategory, Category: player.CategoryLevel2, BasePrice: 3_000_000}, true, nil).
		Once()

	got, err := service.Simulate(context.Background(), adminPrincipal, item.ID, false)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if got.Result.SimulatedBudget != 43_000_000 {
		t.Fatalf("unexpected simulated budget: %d", got.Result.SimulatedBudget)
	}
	if got.Result.RemainingBudget != 27_000_000 {
		t.Fatalf("expected remaining baseline during auction, got %d", got.Result.RemainingBudget)
	}
	if got.Report.IsValid {
		t.Fatalf("expected missing category requirements to fail: %+v", got.Report)
	}
}
