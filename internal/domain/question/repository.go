package question

import "context"

// Repository loads prediction questions and persists graded values.
// SetCorrect is write-once per question: implementations must leave an
// already graded row untouched and report success.
type Repository interface {
	ListPendingFuture(ctx context.Context) ([]Question, error)
	ListByQuiz(ctx context.Context, quizID string) ([]Question, error)
	ListByMatchID(ctx context.Context, matchID string) ([]Question, error)
	CountPendingFutureByRound(ctx context.Context, roundID string) (int, error)
	SetCorrect(ctx context.Context, questionID string, correct Correct) error
}
