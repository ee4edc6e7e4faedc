package auction

import (
	"context"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

// LedgerRepository applies bid outcomes atomically across players, teams and allocations.
type LedgerRepository interface {
	RecordAllocation(ctx context.Context, allocation Allocation) (Outcome, error)
	UndoLatestAllocation(ctx context.Context, playerID string) (Outcome, error)
	MarkUnallocated(ctx context.Context, playerID string) (Outcome, error)
	ListByTeam(ctx context.Context, teamID string) ([]Allocation, error)
}

type QueueRepository interface {
	ListByTrack(ctx context.Context, track tournament.Track) ([]QueueItem, error)
	GetByID(ctx context.Context, itemID string) (QueueItem, bool, error)
	Insert(ctx context.Context, item QueueItem) error
	SavePositions(ctx context.Context, updates []PositionUpdate) error
	MarkProcessed(ctx context.Context, itemID string) error
	Delete(ctx context.Context, itemID string) error
	DeleteByTrack(ctx context.Context, track tournament.Track) (int, error)
}

type DisplayConfigRepository interface {
	Get(ctx context.Context, tournamentID string) (DisplayConfig, bool, error)
	Upsert(ctx context.Context, config DisplayConfig) error
}
