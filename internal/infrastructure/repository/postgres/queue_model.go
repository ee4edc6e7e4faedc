package postgres

import "time"

type queueTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	TournamentID  string     `db:"tournament_public_id"`
	SportCategory string     `db:"sport_category"`
	PlayerID      string     `db:"player_public_id"`
	Position      int        `db:"queue_position"`
	IsProcessed   bool       `db:"is_processed"`
	ProcessedAt   *time.Time `db:"processed_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}
