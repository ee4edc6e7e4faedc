package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
)

type DisplayConfigRepository struct {
	mu    sync.RWMutex
	items map[string]auction.DisplayConfig
}

func NewDisplayConfigRepository() *DisplayConfigRepository {
	return &DisplayConfigRepository{items: make(map[string]auction.DisplayConfig)}
}

func (r *DisplayConfigRepository) Get(_ context.Context, tournamentID string) (auction.DisplayConfig, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tournamentID]
	return item, ok, nil
}

func (r *DisplayConfigRepository) Upsert(_ context.Context, config auction.DisplayConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[config.TournamentID] = config
	return nil
}
