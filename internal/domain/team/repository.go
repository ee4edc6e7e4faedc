package team

import (
	"context"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByTrack(ctx context.Context, track tournament.Track) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
}
