package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID             int64         `db:"id"`
	PublicID       string        `db:"public_id"`
	RoundID        string        `db:"round_public_id"`
	HomeTeam       string        `db:"home_team"`
	AwayTeam       string        `db:"away_team"`
	KickoffAt      time.Time     `db:"kickoff_at"`
	HomeScore      sql.NullInt64 `db:"home_score"`
	AwayScore      sql.NullInt64 `db:"away_score"`
	Status         string        `db:"status"`
	FeedEventRefID sql.NullInt64 `db:"feed_event_id"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
	DeletedAt      *time.Time    `db:"deleted_at"`
}
