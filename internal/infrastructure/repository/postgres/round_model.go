package postgres

import "time"

type roundTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	LeagueID   string     `db:"league_public_id"`
	Name       string     `db:"name"`
	DeadlineAt time.Time  `db:"deadline_at"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}
