package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/league-auction/internal/domain/user"
	"github.com/riskibarqy/league-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

func newPreferenceService() *PreferenceService {
	return NewPreferenceService(
		memory.NewTeamRepository(memory.SeedTeams()),
		memory.NewPlayerRepository(memory.SeedPlayers()),
		memory.NewPreferenceRepository(),
		logging.NewNop(),
	)
}

func TestPreferenceService_SaveRoundsMaxBidToTenLakh(t *testing.T) {
	service := newPreferenceService()
	ctx := t.Context()
	owner := user.Principal{UserID: "user-arvind", Roles: []user.Role{user.RoleTeamOwner}}

	maxBid := int64(12_450_000)
	saved, err := service.Save(ctx, owner, SavePreferenceInput{
		TeamID:   "vb-thunder",
		PlayerID: "vb-player-01",
		MaxBid:   &maxBid,
		Notes:    "  strong setter ",
	})
	if err != nil {
		t.Fatalf("save preference: %v", err)
	}
	if saved.MaxBid == nil || *saved.MaxBid != 12_000_000 {
		t.Fatalf("expected max bid rounded to 12,000,000, got %v", saved.MaxBid)
	}
	if saved.Notes != "strong setter" {
		t.Fatalf("unexpected notes %q", saved.Notes)
	}

	rows, err := service.List(ctx, owner, "vb-thunder")
	if err != nil {
		t.Fatalf("list preferences: %v", err)
	}
	if len(rows) != 1 || !rows[0].IsPreferred || rows[0].Player.ID != "vb-player-01" {
		t.Fatalf("unexpected preferred players: %+v", rows)
	}

	if err := service.Remove(ctx, owner, "vb-thunder", "vb-player-01"); err != nil {
		t.Fatalf("remove preference: %v", err)
	}
	if err := service.Remove(ctx, owner, "vb-thunder", "vb-player-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestPreferenceService_SaveRejections(t *testing.T) {
	service := newPreferenceService()
	ctx := t.Context()
	admin := user.Principal{UserID: "admin-1", Roles: []user.Role{user.RoleAdmin}}

	belowBase := int64(2_000_000)
	_, err := service.Save(ctx, admin, SavePreferenceInput{TeamID: "vb-thunder", PlayerID: "vb-player-01", MaxBid: &belowBase})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for max bid below base, got %v", err)
	}

	_, err = service.Save(ctx, user.Principal{UserID: "user-meera", Roles: []user.Role{user.RoleTeamOwner}}, SavePreferenceInput{
		TeamID:   "vb-thunder",
		PlayerID: "vb-player-01",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another owner, got %v", err)
	}

	_, err = service.Save(ctx, admin, SavePreferenceInput{TeamID: "vb-thunder", PlayerID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
