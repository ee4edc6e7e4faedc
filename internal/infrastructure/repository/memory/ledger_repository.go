package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
)

// LedgerRepository mutates the shared player and team stores under one lock.
type LedgerRepository struct {
	mu          sync.Mutex
	players     *PlayerRepository
	teams       *TeamRepository
	allocations []auction.Allocation
	now         func() time.Time
}

func NewLedgerRepository(players *PlayerRepository, teams *TeamRepository) *LedgerRepository {
	return &LedgerRepository{
		players: players,
		teams:   teams,
		now:     time.Now,
	}
}

func (r *LedgerRepository) RecordAllocation(ctx context.Context, allocation auction.Allocation) (auction.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok, _ := r.players.GetByID(ctx, allocation.PlayerID)
	if !ok {
		return auction.Outcome{}, fmt.Errorf("player %s not found", allocation.PlayerID)
	}
	t, ok, _ := r.teams.GetByID(ctx, allocation.TeamID)
	if !ok {
		return auction.Outcome{}, fmt.Errorf("team %s not found", allocation.TeamID)
	}
	if err := auction.CheckAllocation(p, t, allocation.Amount); err != nil {
		return auction.Outcome{}, err
	}

	p, t = auction.ApplyAllocation(p, t, allocation.Amount)
	now := r.now().UTC()
	p.UpdatedAt = now
	t.UpdatedAt = now
	if allocation.CreatedAt.IsZero() {
		allocation.CreatedAt = now
	}

	r.players.replace(p)
	r.teams.replace(t)
	r.allocations = append(r.allocations, allocation)

	return auction.Outcome{Player: p, Team: &t, Allocation: &allocation}, nil
}

func (r *LedgerRepository) UndoLatestAllocation(ctx context.Context, playerID string) (auction.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := len(r.allocations) - 1; i >= 0; i-- {
		if r.allocations[i].PlayerID == playerID && r.allocations[i].Active() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return auction.Outcome{}, auction.ErrNoActiveAllocation
	}
	allocation := r.allocations[idx]

	p, ok, _ := r.players.GetByID(ctx, playerID)
	if !ok {
		return auction.Outcome{}, fmt.Errorf("player %s not found", playerID)
	}
	t, ok, _ := r.teams.GetByID(ctx, allocation.TeamID)
	if !ok {
		return auction.Outcome{}, fmt.Errorf("team %s not found", allocation.TeamID)
	}

	p, t = auction.RevertAllocation(p, t, allocation)
	now := r.now().UTC()
	p.UpdatedAt = now
	t.UpdatedAt = now
	allocation.UndoneAt = &now

	r.players.replace(p)
	r.teams.replace(t)
	r.allocations[idx] = allocation

	return auction.Outcome{Player: p, Team: &t, Allocation: &allocation}, nil
}

func (r *LedgerRepository) MarkUnallocated(ctx context.Context, playerID string) (auction.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok, _ := r.players.GetByID(ctx, playerID)
	if !ok {
		return auction.Outcome{}, fmt.Errorf("player %s not found", playerID)
	}
	if !p.Status.Biddable() {
		return auction.Outcome{}, fmt.Errorf("%w: status=%s", auction.ErrPlayerUnavailable, p.Status)
	}

	p.Status = player.StatusUnallocated
	p.UpdatedAt = r.now().UTC()
	r.players.replace(p)

	return auction.Outcome{Player: p}, nil
}

func (r *LedgerRepository) ListByTeam(_ context.Context, teamID string) ([]auction.Allocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]auction.Allocation, 0)
	for _, item := range r.allocations {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}

	return out, nil
}
