package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

type TeamRepository struct {
	mu     sync.RWMutex
	items  map[string]team.Team
	orders []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	orders := make([]string, 0, len(teams))
	for _, item := range teams {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	return &TeamRepository{items: items, orders: orders}
}

func (r *TeamRepository) ListByTrack(_ context.Context, track tournament.Track) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if item.Track() == track {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	return item, ok, nil
}

func (r *TeamRepository) replace(item team.Team) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item
}
