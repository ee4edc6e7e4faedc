package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	qb "github.com/riskibarqy/league-auction/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(
			qb.Eq("public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build select tournament by id query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament by id: %w", err)
	}
	return tournamentFromRow(row), true, nil
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	categories := make([]tournament.SportCategory, 0, len(row.SportCategories))
	for _, raw := range row.SportCategories {
		category, err := tournament.ParseSportCategory(raw)
		if err != nil {
			continue
		}
		categories = append(categories, category)
	}

	item := tournament.Tournament{
		ID:              row.PublicID,
		Name:            row.Name,
		SportCategories: categories,
		CreatedAt:       row.CreatedAt,
	}
	if row.ReferenceDate.Valid {
		item.ReferenceDate = row.ReferenceDate.Time
	}
	return item
}
