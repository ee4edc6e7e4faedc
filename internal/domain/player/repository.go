package player

import (
	"context"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	ListByTrack(ctx context.Context, track tournament.Track) ([]Player, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
}
