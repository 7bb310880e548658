package postgres

import "time"

type quizTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	RoundID   string     `db:"round_public_id"`
	Title     string     `db:"title"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type submissionTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	QuizID      string     `db:"quiz_public_id"`
	UserID      string     `db:"user_id"`
	SubmittedAt time.Time  `db:"submitted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type answerTableModel struct {
	ID           int64      `db:"id"`
	SubmissionID string     `db:"submission_public_id"`
	QuestionID   string     `db:"question_public_id"`
	Value        string     `db:"answer_value"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type prizeBracketTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	QuizID         string     `db:"quiz_public_id"`
	CorrectAnswers int        `db:"correct_answers"`
	Pool           int64      `db:"pool_amount"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type resultTableModel struct {
	ID             int64      `db:"id"`
	SubmissionID   string     `db:"submission_public_id"`
	QuizID         string     `db:"quiz_public_id"`
	TotalCorrect   int        `db:"total_correct"`
	TotalQuestions int        `db:"total_questions"`
	Points         int        `db:"points"`
	Status         string     `db:"status"`
	PrizeAwarded   int64      `db:"prize_awarded"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type resultInsertModel struct {
	SubmissionID   string `db:"submission_public_id"`
	QuizID         string `db:"quiz_public_id"`
	TotalCorrect   int    `db:"total_correct"`
	TotalQuestions int    `db:"total_questions"`
	Points         int    `db:"points"`
	Status         string `db:"status"`
	PrizeAwarded   int64  `db:"prize_awarded"`
}
