package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	TournamentID     string         `db:"tournament_public_id"`
	SportCategory    string         `db:"sport_category"`
	Name             string         `db:"name"`
	Position         string         `db:"player_position"`
	SkillLevel       string         `db:"skill_level"`
	Category         sql.NullString `db:"category"`
	BasePrice        int64          `db:"base_price"`
	Status           string         `db:"status"`
	CurrentTeamID    sql.NullString `db:"current_team_public_id"`
	SoldPrice        sql.NullInt64  `db:"sold_price"`
	RegistrationData []byte         `db:"registration_data"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}
