package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	qb "github.com/riskibarqy/league-auction/internal/platform/querybuilder"
)

var playerSelectColumns = []string{
	"id",
	"public_id",
	"tournament_public_id",
	"sport_category",
	"name",
	"player_position",
	"skill_level",
	"category",
	"base_price",
	"status",
	"current_team_public_id",
	"sold_price",
	"registration_data",
	"created_at",
	"updated_at",
	"deleted_at",
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByTrack(ctx context.Context, track tournament.Track) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("player_profiles").
		Where(
			qb.Eq("tournament_public_id", track.TournamentID),
			qb.Eq("sport_category", string(track.SportCategory)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by track query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("player_profiles").
		Where(
			qb.Eq("current_team_public_id", teamID),
			qb.Eq("status", string(player.StatusAllocated)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("updated_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	row, found, err := getPlayerRow(ctx, r.db, playerID, false)
	if err != nil || !found {
		return player.Player{}, found, err
	}
	item, err := playerFromRow(row)
	if err != nil {
		return player.Player{}, false, err
	}
	return item, true, nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		item, err := playerFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func getPlayerRow(ctx context.Context, q sqlx.QueryerContext, playerID string, forUpdate bool) (playerTableModel, bool, error) {
	builder := qb.Select(playerSelectColumns...).From("player_profiles").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		)
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return playerTableModel{}, false, fmt.Errorf("build select player by id query: %w", err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerTableModel{}, false, nil
		}
		return playerTableModel{}, false, fmt.Errorf("get player by id: %w", err)
	}
	return row, true, nil
}

func playerFromRow(row playerTableModel) (player.Player, error) {
	registration, err := decodeRegistrationData(row.RegistrationData)
	if err != nil {
		return player.Player{}, fmt.Errorf("player %s: %w", row.PublicID, err)
	}

	return player.Player{
		ID:            row.PublicID,
		TournamentID:  row.TournamentID,
		SportCategory: tournament.SportCategory(row.SportCategory),
		Name:          row.Name,
		Position:      row.Position,
		SkillLevel:    row.SkillLevel,
		Category:      player.Category(row.Category.String),
		BasePrice:     row.BasePrice,
		Status:        player.Status(row.Status),
		CurrentTeamID: row.CurrentTeamID.String,
		SoldPrice:     row.SoldPrice.Int64,
		Registration:  registration,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
