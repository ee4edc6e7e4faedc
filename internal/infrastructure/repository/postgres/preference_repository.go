package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-auction/internal/domain/preference"
	qb "github.com/riskibarqy/league-auction/internal/platform/querybuilder"
)

type preferenceTableModel struct {
	ID        int64         `db:"id"`
	TeamID    string        `db:"team_public_id"`
	PlayerID  string        `db:"player_public_id"`
	MaxBid    sql.NullInt64 `db:"max_bid"`
	Notes     string        `db:"notes"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type PreferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) ListByTeam(ctx context.Context, teamID string) ([]preference.Preference, error) {
	query, args, err := qb.Select("*").From("team_preferences").
		Where(qb.Eq("team_public_id", teamID)).
		OrderBy("created_at", "player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select preferences by team query: %w", err)
	}

	var rows []preferenceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select preferences by team: %w", err)
	}

	out := make([]preference.Preference, 0, len(rows))
	for _, row := range rows {
		out = append(out, preference.Preference{
			TeamID:    row.TeamID,
			PlayerID:  row.PlayerID,
			MaxBid:    nullInt64ToPtr(row.MaxBid),
			Notes:     row.Notes,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, item preference.Preference) error {
	query, args, err := qb.InsertInto("team_preferences").
		Columns("team_public_id", "player_public_id", "max_bid", "notes", "created_at", "updated_at").
		Values(item.TeamID, item.PlayerID, ptrToNullInt64(item.MaxBid), item.Notes, item.CreatedAt, item.UpdatedAt).
		OnConflictUpdate([]string{"team_public_id", "player_public_id"}, "max_bid", "notes", "updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert preference query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, teamID, playerID string) (bool, error) {
	query, args, err := qb.DeleteFrom("team_preferences").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("player_public_id", playerID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete preference query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete preference: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count deleted preferences: %w", err)
	}
	return affected > 0, nil
}
