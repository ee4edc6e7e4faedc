package preference

import "context"

// Repository describes preferred-player persistence needs from use cases.
type Repository interface {
	ListByTeam(ctx context.Context, teamID string) ([]Preference, error)
	Upsert(ctx context.Context, item Preference) error
	Delete(ctx context.Context, teamID, playerID string) (bool, error)
}
