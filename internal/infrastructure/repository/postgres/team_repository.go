package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	qb "github.com/riskibarqy/league-auction/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByTrack(ctx context.Context, track tournament.Track) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("tournament_public_id", track.TournamentID),
			qb.Eq("sport_category", string(track.SportCategory)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by track query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by track: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	row, found, err := getTeamRow(ctx, r.db, teamID, false)
	if err != nil || !found {
		return team.Team{}, found, err
	}
	return teamFromRow(row), true, nil
}

func getTeamRow(ctx context.Context, q sqlx.QueryerContext, teamID string, forUpdate bool) (teamTableModel, bool, error) {
	builder := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		)
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return teamTableModel{}, false, fmt.Errorf("build select team by id query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return teamTableModel{}, false, nil
		}
		return teamTableModel{}, false, fmt.Errorf("get team by id: %w", err)
	}
	return row, true, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:              row.PublicID,
		TournamentID:    row.TournamentID,
		SportCategory:   tournament.SportCategory(row.SportCategory),
		Name:            row.Name,
		OwnerName:       row.OwnerName,
		OwnerUserID:     row.OwnerUserID,
		InitialBudget:   row.InitialBudget,
		RemainingBudget: row.RemainingBudget,
		MaxPlayers:      row.MaxPlayers,
		CurrentPlayers:  row.CurrentPlayers,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
