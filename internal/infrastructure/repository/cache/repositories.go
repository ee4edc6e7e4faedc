package cache

import (
	"context"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/preference"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	basecache "github.com/riskibarqy/league-auction/internal/platform/cache"
)

type TournamentRepository struct {
	next  tournament.Repository
	cache *basecache.Store
}

func NewTournamentRepository(next tournament.Repository, cache *basecache.Store) *TournamentRepository {
	return &TournamentRepository{next: next, cache: cache}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	v, err := r.cache.GetOrLoad(ctx, "tournament:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneTournaments(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tournament.Tournament)
	return cloneTournaments(items), nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	key := "tournament:id:" + tournamentID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return cachedTournamentByID{value: cloneTournament(item), exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	cached, _ := v.(cachedTournamentByID)
	return cloneTournament(cached.value), cached.exists, nil
}

type cachedTournamentByID struct {
	value  tournament.Tournament
	exists bool
}

func cloneTournament(item tournament.Tournament) tournament.Tournament {
	out := item
	out.SportCategories = append([]tournament.SportCategory(nil), item.SportCategories...)
	return out
}

func cloneTournaments(items []tournament.Tournament) []tournament.Tournament {
	out := make([]tournament.Tournament, 0, len(items))
	for _, item := range items {
		out = append(out, cloneTournament(item))
	}
	return out
}

type DisplayConfigRepository struct {
	next  auction.DisplayConfigRepository
	cache *basecache.Store
}

func NewDisplayConfigRepository(next auction.DisplayConfigRepository, cache *basecache.Store) *DisplayConfigRepository {
	return &DisplayConfigRepository{next: next, cache: cache}
}

func (r *DisplayConfigRepository) Get(ctx context.Context, tournamentID string) (auction.DisplayConfig, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, displayConfigKey(tournamentID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return cachedDisplayConfig{value: item, exists: exists}, nil
	})
	if err != nil {
		return auction.DisplayConfig{}, false, err
	}

	cached, _ := v.(cachedDisplayConfig)
	return cached.value, cached.exists, nil
}

func (r *DisplayConfigRepository) Upsert(ctx context.Context, config auction.DisplayConfig) error {
	if err := r.next.Upsert(ctx, config); err != nil {
		return err
	}
	r.cache.Delete(ctx, displayConfigKey(config.TournamentID))
	return nil
}

type cachedDisplayConfig struct {
	value  auction.DisplayConfig
	exists bool
}

func displayConfigKey(tournamentID string) string {
	return "display-config:tournament:" + tournamentID
}

type PreferenceRepository struct {
	next  preference.Repository
	cache *basecache.Store
}

func NewPreferenceRepository(next preference.Repository, cache *basecache.Store) *PreferenceRepository {
	return &PreferenceRepository{next: next, cache: cache}
}

func (r *PreferenceRepository) ListByTeam(ctx context.Context, teamID string) ([]preference.Preference, error) {
	v, err := r.cache.GetOrLoad(ctx, preferenceKey(teamID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return clonePreferences(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]preference.Preference)
	return clonePreferences(items), nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, item preference.Preference) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, preferenceKey(item.TeamID))
	return nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, teamID, playerID string) (bool, error) {
	deleted, err := r.next.Delete(ctx, teamID, playerID)
	if err != nil {
		return false, err
	}
	r.cache.Delete(ctx, preferenceKey(teamID))
	return deleted, nil
}

func preferenceKey(teamID string) string {
	return "preference:team:" + teamID
}

func clonePreferences(items []preference.Preference) []preference.Preference {
	out := make([]preference.Preference, 0, len(items))
	for _, item := range items {
		copied := item
		if item.MaxBid != nil {
			bid := *item.MaxBid
			copied.MaxBid = &bid
		}
		out = append(out, copied)
	}
	return out
}
