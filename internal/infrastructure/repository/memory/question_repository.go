package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/question"
	"github.com/riskibarqy/prediction-league/internal/domain/quiz"
)

type QuestionRepository struct {
	mu          sync.RWMutex
	items       map[string]question.Question
	orders      []string
	roundByQuiz map[string]string
}

// NewQuestionRepository indexes questions by quiz and, through the quiz
// rows, by round so pending counts can be answered per round.
func NewQuestionRepository(questions []question.Question, quizzes []quiz.Quiz) *QuestionRepository {
	items := make(map[string]question.Question, len(questions))
	orders := make([]string, 0, len(questions))
	roundByQuiz := make(map[string]string, len(quizzes))

	for _, q := range questions {
		items[q.ID] = q
		orders = append(orders, q.ID)
	}
	for _, z := range quizzes {
		roundByQuiz[z.ID] = z.RoundID
	}

	return &QuestionRepository{
		items:       items,
		orders:      orders,
		roundByQuiz: roundByQuiz,
	}
}

func (r *QuestionRepository) ListPendingFuture(_ context.Context) ([]question.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]question.Question, 0)
	for _, id := range r.orders {
		q := r.items[id]
		if !q.Kind.SettledByReconciliation() || q.Correct != nil || q.MatchID == "" {
			continue
		}
		out = append(out, q)
	}

	return out, nil
}

func (r *QuestionRepository) ListByQuiz(_ context.Context, quizID string) ([]question.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]question.Question, 0)
	for _, id := range r.orders {
		q := r.items[id]
		if q.QuizID != quizID {
			continue
		}
		out = append(out, q)
	}

	return out, nil
}

func (r *QuestionRepository) ListByMatchID(_ context.Context, matchID string) ([]question.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]question.Question, 0)
	for _, id := range r.orders {
		q := r.items[id]
		if q.MatchID != matchID {
			continue
		}
		out = append(out, q)
	}

	return out, nil
}

func (r *QuestionRepository) CountPendingFutureByRound(_ context.Context, roundID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, id := range r.orders {
		q := r.items[id]
		if r.roundByQuiz[q.QuizID] != roundID {
			continue
		}
		if !q.Kind.IsFuture() || q.Correct != nil {
			continue
		}
		count++
	}

	return count, nil
}

// SetCorrect is write-once: a question that already carries a graded
// value keeps it and the call reports success.
func (r *QuestionRepository) SetCorrect(_ context.Context, questionID string, correct question.Correct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.items[questionID]
	if !ok || q.Correct != nil {
		return nil
	}

	q.Correct = &correct
	r.items[questionID] = q

	return nil
}
