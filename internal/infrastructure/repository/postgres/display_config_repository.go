package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-auction/internal/domain/auction"
	qb "github.com/riskibarqy/league-auction/internal/platform/querybuilder"
)

type displayConfigTableModel struct {
	TournamentID           string    `db:"tournament_public_id"`
	InitialTimerSeconds    int       `db:"initial_timer_seconds"`
	SubsequentTimerSeconds int       `db:"subsequent_timer_seconds"`
	GoingOnceSeconds       int       `db:"going_once_seconds"`
	GoingTwiceSeconds      int       `db:"going_twice_seconds"`
	ShowBasePrice          bool      `db:"show_base_price"`
	ShowTeamBudgets        bool      `db:"show_team_budgets"`
	SoundEnabled           bool      `db:"sound_enabled"`
	VisualEffectsEnabled   bool      `db:"visual_effects_enabled"`
	UpdatedAt              time.Time `db:"updated_at"`
}

type DisplayConfigRepository struct {
	db *sqlx.DB
}

func NewDisplayConfigRepository(db *sqlx.DB) *DisplayConfigRepository {
	return &DisplayConfigRepository{db: db}
}

func (r *DisplayConfigRepository) Get(ctx context.Context, tournamentID string) (auction.DisplayConfig, bool, error) {
	query, args, err := qb.Select("*").From("auction_display_configs").
		Where(qb.Eq("tournament_public_id", tournamentID)).
		ToSQL()
	if err != nil {
		return auction.DisplayConfig{}, false, fmt.Errorf("build select display config query: %w", err)
	}

	var row displayConfigTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return auction.DisplayConfig{}, false, nil
		}
		return auction.DisplayConfig{}, false, fmt.Errorf("get display config: %w", err)
	}

	return auction.DisplayConfig{
		TournamentID:           row.TournamentID,
		InitialTimerSeconds:    row.InitialTimerSeconds,
		SubsequentTimerSeconds: row.SubsequentTimerSeconds,
		GoingOnceSeconds:       row.GoingOnceSeconds,
		GoingTwiceSeconds:      row.GoingTwiceSeconds,
		ShowBasePrice:          row.ShowBasePrice,
		ShowTeamBudgets:        row.ShowTeamBudgets,
		SoundEnabled:           row.SoundEnabled,
		VisualEffectsEnabled:   row.VisualEffectsEnabled,
		UpdatedAt:              row.UpdatedAt,
	}, true, nil
}

func (r *DisplayConfigRepository) Upsert(ctx context.Context, config auction.DisplayConfig) error {
	query, args, err := qb.InsertModel("auction_display_configs", displayConfigTableModel{
		TournamentID:           config.TournamentID,
		InitialTimerSeconds:    config.InitialTimerSeconds,
		SubsequentTimerSeconds: config.SubsequentTimerSeconds,
		GoingOnceSeconds:       config.GoingOnceSeconds,
		GoingTwiceSeconds:      config.GoingTwiceSeconds,
		ShowBasePrice:          config.ShowBasePrice,
		ShowTeamBudgets:        config.ShowTeamBudgets,
		SoundEnabled:           config.SoundEnabled,
		VisualEffectsEnabled:   config.VisualEffectsEnabled,
		UpdatedAt:              config.UpdatedAt,
	}).
		OnConflictUpdate([]string{"tournament_public_id"},
			"initial_timer_seconds",
			"subsequent_timer_seconds",
			"going_once_seconds",
			"going_twice_seconds",
			"show_base_price",
			"show_team_budgets",
			"sound_enabled",
			"visual_effects_enabled",
			"updated_at",
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert display config query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert display config: %w", err)
	}
	return nil
}
