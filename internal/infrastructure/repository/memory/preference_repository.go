package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/league-auction/internal/domain/preference"
)

type PreferenceRepository struct {
	mu    sync.RWMutex
	items map[string]preference.Preference
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{items: make(map[string]preference.Preference)}
}

func (r *PreferenceRepository) ListByTeam(_ context.Context, teamID string) ([]preference.Preference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]preference.Preference, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, clonePreference(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	return out, nil
}

func (r *PreferenceRepository) Upsert(_ context.Context, item preference.Preference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := preferenceKey(item.TeamID, item.PlayerID)
	if existing, ok := r.items[key]; ok && !existing.CreatedAt.IsZero() {
		item.CreatedAt = existing.CreatedAt
	}
	r.items[key] = clonePreference(item)
	return nil
}

func (r *PreferenceRepository) Delete(_ context.Context, teamID, playerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := preferenceKey(teamID, playerID)
	if _, ok := r.items[key]; !ok {
		return false, nil
	}
	delete(r.items, key)
	return true, nil
}

func preferenceKey(teamID, playerID string) string {
	return teamID + "::" + playerID
}

func clonePreference(item preference.Preference) preference.Preference {
	copied := item
	if item.MaxBid != nil {
		bid := *item.MaxBid
		copied.MaxBid = &bid
	}
	return copied
}
