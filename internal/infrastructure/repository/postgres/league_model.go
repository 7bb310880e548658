package postgres

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID           int64         `db:"id"`
	PublicID     string        `db:"public_id"`
	Name         string        `db:"name"`
	Code         string        `db:"code"`
	FeedLeagueID sql.NullInt64 `db:"feed_league_id"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}
