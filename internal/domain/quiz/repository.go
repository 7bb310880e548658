package quiz

import "context"

// Repository loads quizzes with their entries and persists settlement
// results. UpsertResult must be idempotent on SubmissionID so a rerun
// overwrites rather than duplicates.
type Repository interface {
	GetByID(ctx context.Context, quizID string) (Quiz, bool, error)
	ListByRound(ctx context.Context, roundID string) ([]Quiz, error)
	ListSubmissions(ctx context.Context, quizID string) ([]Submission, error)
	ListAnswers(ctx context.Context, quizID string) ([]Answer, error)
	ListBrackets(ctx context.Context, quizID string) ([]PrizeBracket, error)
	UpsertResult(ctx context.Context, result Result) error
}
