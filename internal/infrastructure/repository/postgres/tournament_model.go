package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type tournamentTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	Name            string         `db:"name"`
	ReferenceDate   sql.NullTime   `db:"reference_date"`
	SportCategories pq.StringArray `db:"sport_categories"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}
