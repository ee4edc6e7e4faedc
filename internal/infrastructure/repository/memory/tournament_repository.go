package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

type TournamentRepository struct {
	mu     sync.RWMutex
	items  map[string]tournament.Tournament
	orders []string
}

func NewTournamentRepository(tournaments []tournament.Tournament) *TournamentRepository {
	items := make(map[string]tournament.Tournament, len(tournaments))
	orders := make([]string, 0, len(tournaments))

	for _, t := range tournaments {
		items[t.ID] = cloneTournament(t)
		orders = append(orders, t.ID)
	}

	return &TournamentRepository{
		items:  items,
		orders: orders,
	}
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneTournament(r.items[id]))
	}

	return out, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tournamentID]
	if !ok {
		return tournament.Tournament{}, false, nil
	}

	return cloneTournament(item), true, nil
}

func cloneTournament(t tournament.Tournament) tournament.Tournament {
	copied := t
	copied.SportCategories = append([]tournament.SportCategory(nil), t.SportCategories...)
	return copied
}
