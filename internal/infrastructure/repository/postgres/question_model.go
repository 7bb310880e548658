package postgres

import (
	"database/sql"
	"time"
)

type questionTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	QuizID       string         `db:"quiz_public_id"`
	Kind         string         `db:"kind"`
	Text         string         `db:"question_text"`
	MatchID      sql.NullString `db:"match_public_id"`
	CorrectValue sql.NullString `db:"correct_value"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}
