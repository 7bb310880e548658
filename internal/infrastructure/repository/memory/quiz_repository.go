package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/quiz"
)

type QuizRepository struct {
	mu          sync.RWMutex
	items       map[string]quiz.Quiz
	orders      []string
	submissions map[string][]quiz.Submission
	answers     map[string][]quiz.Answer
	brackets    map[string][]quiz.PrizeBracket
	results     map[string]quiz.Result
}

func NewQuizRepository(quizzes []quiz.Quiz, submissions []quiz.Submission, answers []quiz.Answer, brackets []quiz.PrizeBracket) *QuizRepository {
	items := make(map[string]quiz.Quiz, len(quizzes))
	orders := make([]string, 0, len(quizzes))
	subsByQuiz := make(map[string][]quiz.Submission)
	quizBySubmission := make(map[string]string, len(submissions))
	answersByQuiz := make(map[string][]quiz.Answer)
	bracketsByQuiz := make(map[string][]quiz.PrizeBracket)

	for _, z := range quizzes {
		items[z.ID] = z
		orders = append(orders, z.ID)
	}
	for _, s := range submissions {
		subsByQuiz[s.QuizID] = append(subsByQuiz[s.QuizID], s)
		quizBySubmission[s.ID] = s.QuizID
	}
	for _, a := range answers {
		quizID := quizBySubmission[a.SubmissionID]
		answersByQuiz[quizID] = append(answersByQuiz[quizID], a)
	}
	for _, b := range brackets {
		bracketsByQuiz[b.QuizID] = append(bracketsByQuiz[b.QuizID], b)
	}

	return &QuizRepository{
		items:       items,
		orders:      orders,
		submissions: subsByQuiz,
		answers:     answersByQuiz,
		brackets:    bracketsByQuiz,
		results:     make(map[string]quiz.Result),
	}
}

func (r *QuizRepository) GetByID(_ context.Context, quizID string) (quiz.Quiz, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	z, ok := r.items[quizID]
	if !ok {
		return quiz.Quiz{}, false, nil
	}

	return z, true, nil
}

func (r *QuizRepository) ListByRound(_ context.Context, roundID string) ([]quiz.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]quiz.Quiz, 0)
	for _, id := range r.orders {
		z := r.items[id]
		if z.RoundID != roundID {
			continue
		}
		out = append(out, z)
	}

	return out, nil
}

func (r *QuizRepository) ListSubmissions(_ context.Context, quizID string) ([]quiz.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]quiz.Submission(nil), r.submissions[quizID]...), nil
}

func (r *QuizRepository) ListAnswers(_ context.Context, quizID string) ([]quiz.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]quiz.Answer(nil), r.answers[quizID]...), nil
}

func (r *QuizRepository) ListBrackets(_ context.Context, quizID string) ([]quiz.PrizeBracket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]quiz.PrizeBracket(nil), r.brackets[quizID]...), nil
}

// UpsertResult keys on SubmissionID so settlement reruns overwrite the
// earlier row instead of adding a second one.
func (r *QuizRepository) UpsertResult(_ context.Context, result quiz.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[result.SubmissionID] = result

	return nil
}

// Results returns the stored settlement rows keyed by submission id.
func (r *QuizRepository) Results() map[string]quiz.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]quiz.Result, len(r.results))
	for k, v := range r.results {
		out[k] = v
	}

	return out
}
