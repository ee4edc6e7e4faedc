package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/league-auction/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo tournament when no team exists yet.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, item := range memory.SeedTournaments() {
		categories := make(pq.StringArray, 0, len(item.SportCategories))
		for _, category := range item.SportCategories {
			categories = append(categories, string(category))
		}
		err := exec("tournament "+item.ID, `
INSERT INTO tournaments (public_id, name, reference_date, sport_categories)
VALUES (:public_id, :name, :reference_date, :sport_categories)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        item.ID,
			"name":             item.Name,
			"reference_date":   item.EffectiveReferenceDate(),
			"sport_categories": categories,
		})
		if err != nil {
			return err
		}
	}

	for _, item := range memory.SeedTeams() {
		err := exec("team "+item.ID, `
INSERT INTO teams (public_id, tournament_public_id, sport_category, name, owner_name, owner_user_id, initial_budget, remaining_budget, max_players, current_players)
VALUES (:public_id, :tournament_public_id, :sport_category, :name, :owner_name, :owner_user_id, :initial_budget, :remaining_budget, :max_players, :current_players)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":            item.ID,
			"tournament_public_id": item.TournamentID,
			"sport_category":       string(item.SportCategory),
			"name":                 item.Name,
			"owner_name":           item.OwnerName,
			"owner_user_id":        item.OwnerUserID,
			"initial_budget":       item.InitialBudget,
			"remaining_budget":     item.RemainingBudget,
			"max_players":          item.MaxPlayers,
			"current_players":      item.CurrentPlayers,
		})
		if err != nil {
			return err
		}
	}

	for _, item := range memory.SeedPlayers() {
		registrationData, err := encodeRegistrationData(item.Registration)
		if err != nil {
			return fmt.Errorf("seed player %s: %w", item.ID, err)
		}
		err = exec("player "+item.ID, `
INSERT INTO player_profiles (public_id, tournament_public_id, sport_category, name, player_position, skill_level, category, base_price, status, current_team_public_id, sold_price, registration_data)
VALUES (:public_id, :tournament_public_id, :sport_category, :name, :player_position, :skill_level, :category, :base_price, :status, :current_team_public_id, :sold_price, :registration_data)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":              item.ID,
			"tournament_public_id":   item.TournamentID,
			"sport_category":         string(item.SportCategory),
			"name":                   item.Name,
			"player_position":        item.Position,
			"skill_level":            item.SkillLevel,
			"category":               nullString(string(item.Category)),
			"base_price":             item.BasePrice,
			"status":                 string(item.Status),
			"current_team_public_id": nullString(item.CurrentTeamID),
			"sold_price":             positiveNullInt64(item.SoldPrice),
			"registration_data":      registrationData,
		})
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
