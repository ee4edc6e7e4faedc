package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	items  map[string]player.Player
	orders []string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	orders := make([]string, 0, len(players))
	for _, p := range players {
		items[p.ID] = clonePlayer(p)
		orders = append(orders, p.ID)
	}

	return &PlayerRepository{items: items, orders: orders}
}

func (r *PlayerRepository) ListByTrack(_ context.Context, track tournament.Track) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if item.Track() == track {
			out = append(out, clonePlayer(item))
		}
	}

	return out, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if item.Status == player.StatusAllocated && item.CurrentTeamID == teamID {
			out = append(out, clonePlayer(item))
		}
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[playerID]
	if !ok {
		return player.Player{}, false, nil
	}

	return clonePlayer(item), true, nil
}

func (r *PlayerRepository) replace(item player.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = clonePlayer(item)
}

func clonePlayer(p player.Player) player.Player {
	copied := p
	if p.Registration != nil {
		data := *p.Registration
		copied.Registration = &data
	}
	return copied
}
