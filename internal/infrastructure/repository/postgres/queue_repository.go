package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	qb "github.com/riskibarqy/league-auction/internal/platform/querybuilder"
)

type QueueRepository struct {
	db *sqlx.DB
}

func NewQueueRepository(db *sqlx.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

func (r *QueueRepository) ListByTrack(ctx context.Context, track tournament.Track) ([]auction.QueueItem, error) {
	query, args, err := qb.Select("*").From("auction_queue").
		Where(
			qb.Eq("tournament_public_id", track.TournamentID),
			qb.Eq("sport_category", string(track.SportCategory)),
		).
		OrderBy("is_processed", "queue_position", "created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select queue by track query: %w", err)
	}

	var rows []queueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select queue by track: %w", err)
	}

	out := make([]auction.QueueItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, queueItemFromRow(row))
	}
	return out, nil
}

func (r *QueueRepository) GetByID(ctx context.Context, itemID string) (auction.QueueItem, bool, error) {
	query, args, err := qb.Select("*").From("auction_queue").
		Where(qb.Eq("public_id", itemID)).
		ToSQL()
	if err != nil {
		return auction.QueueItem{}, false, fmt.Errorf("build select queue item query: %w", err)
	}

	var row queueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return auction.QueueItem{}, false, nil
		}
		return auction.QueueItem{}, false, fmt.Errorf("get queue item: %w", err)
	}
	return queueItemFromRow(row), true, nil
}

func (r *QueueRepository) Insert(ctx context.Context, item auction.QueueItem) error {
	query, args, err := qb.InsertInto("auction_queue").
		Columns("public_id", "tournament_public_id", "sport_category", "player_public_id", "queue_position", "is_processed").
		Values(item.ID, item.TournamentID, string(item.SportCategory), item.PlayerID, item.Position, item.IsProcessed).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert queue item query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: player=%s", auction.ErrAlreadyQueued, item.PlayerID)
		}
		return fmt.Errorf("insert queue item: %w", err)
	}
	return nil
}

func (r *QueueRepository) SavePositions(ctx context.Context, updates []auction.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for save queue positions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, update := range updates {
		query, args, err := qb.Update("auction_queue").
			Set("queue_position", update.Position).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("public_id", update.ItemID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update queue position query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update queue position item=%s: %w", update.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save queue positions: %w", err)
	}
	return nil
}

func (r *QueueRepository) MarkProcessed(ctx context.Context, itemID string) error {
	query, args, err := qb.Update("auction_queue").
		Set("is_processed", true).
		SetExpr("processed_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", itemID),
			qb.Eq("is_processed", false),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark queue item processed query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark queue item processed: %w", err)
	}
	return nil
}

func (r *QueueRepository) Delete(ctx context.Context, itemID string) error {
	query, args, err := qb.DeleteFrom("auction_queue").
		Where(qb.Eq("public_id", itemID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete queue item query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete queue item: %w", err)
	}
	return nil
}

func (r *QueueRepository) DeleteByTrack(ctx context.Context, track tournament.Track) (int, error) {
	query, args, err := qb.DeleteFrom("auction_queue").
		Where(
			qb.Eq("tournament_public_id", track.TournamentID),
			qb.Eq("sport_category", string(track.SportCategory)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete queue by track query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete queue by track: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted queue items: %w", err)
	}
	return int(affected), nil
}

func queueItemFromRow(row queueTableModel) auction.QueueItem {
	return auction.QueueItem{
		ID:            row.PublicID,
		TournamentID:  row.TournamentID,
		SportCategory: tournament.SportCategory(row.SportCategory),
		PlayerID:      row.PlayerID,
		Position:      row.Position,
		IsProcessed:   row.IsProcessed,
		ProcessedAt:   row.ProcessedAt,
		CreatedAt:     row.CreatedAt,
	}
}
