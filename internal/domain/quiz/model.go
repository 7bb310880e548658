package quiz

import (
	"strings"
	"time"
)

// Result statuses for a settled submission.
const (
	ResultStatusPending = "PENDING"
	ResultStatusWon     = "WON"
	ResultStatusLost    = "LOST"
)

// Quiz groups the questions a participant answers in one go. A round
// may carry several quizzes, each settled independently.
type Quiz struct {
	ID      string
	RoundID string
	Title   string
}

// Submission is one participant's entry to a quiz.
type Submission struct {
	ID          string
	QuizID      string
	UserID      string
	SubmittedAt time.Time
}

// Answer is the raw text a participant gave for a single question.
type Answer struct {
	SubmissionID string
	QuestionID   string
	Value        string
}

// PrizeBracket maps an exact correct-answer count to a shared pool.
// Pool is in minor currency units.
type PrizeBracket struct {
	ID             string
	QuizID         string
	CorrectAnswers int
	Pool           int64
}

// Result is the settled outcome for a submission. PrizeAwarded is in
// minor currency units; zero for losers and for winners of empty pools.
type Result struct {
	SubmissionID   string
	QuizID         string
	TotalCorrect   int
	TotalQuestions int
	Points         int
	Status         string
	PrizeAwarded   int64
}

func NormalizeResultStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}
