package postgres

import "time"

type allocationTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	TournamentID string     `db:"tournament_public_id"`
	PlayerID     string     `db:"player_public_id"`
	TeamID       string     `db:"team_public_id"`
	Amount       int64      `db:"amount"`
	CreatedBy    string     `db:"created_by"`
	CreatedAt    time.Time  `db:"created_at"`
	UndoneAt     *time.Time `db:"undone_at"`
}
