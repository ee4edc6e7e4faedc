package postgres

import "time"

type teamTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	TournamentID    string     `db:"tournament_public_id"`
	SportCategory   string     `db:"sport_category"`
	Name            string     `db:"name"`
	OwnerName       string     `db:"owner_name"`
	OwnerUserID     string     `db:"owner_user_id"`
	InitialBudget   int64      `db:"initial_budget"`
	RemainingBudget int64      `db:"remaining_budget"`
	MaxPlayers      int        `db:"max_players"`
	CurrentPlayers  int        `db:"current_players"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}
