package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/quiz"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type QuizRepository struct {
	db *sqlx.DB
}

func NewQuizRepository(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) GetByID(ctx context.Context, quizID string) (quiz.Quiz, bool, error) {
	query, args, err := qb.Select("*").From("quizzes").
		Where(
			qb.Eq("public_id", quizID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return quiz.Quiz{}, false, fmt.Errorf("build get quiz by id query: %w", err)
	}

	var row quizTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return quiz.Quiz{}, false, nil
		}
		return quiz.Quiz{}, false, fmt.Errorf("get quiz by id: %w", err)
	}
	return quiz.Quiz{ID: row.PublicID, RoundID: row.RoundID, Title: row.Title}, true, nil
}

func (r *QuizRepository) ListByRound(ctx context.Context, roundID string) ([]quiz.Quiz, error) {
	query, args, err := qb.Select("*").From("quizzes").
		Where(
			qb.Eq("round_public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select quizzes by round query: %w", err)
	}

	var rows []quizTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select quizzes by round: %w", err)
	}

	out := make([]quiz.Quiz, 0, len(rows))
	for _, row := range rows {
		out = append(out, quiz.Quiz{ID: row.PublicID, RoundID: row.RoundID, Title: row.Title})
	}
	return out, nil
}

func (r *QuizRepository) ListSubmissions(ctx context.Context, quizID string) ([]quiz.Submission, error) {
	query, args, err := qb.Select("*").From("submissions").
		Where(
			qb.Eq("quiz_public_id", quizID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}

	out := make([]quiz.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, quiz.Submission{
			ID:          row.PublicID,
			QuizID:      row.QuizID,
			UserID:      row.UserID,
			SubmittedAt: row.SubmittedAt,
		})
	}
	return out, nil
}

func (r *QuizRepository) ListAnswers(ctx context.Context, quizID string) ([]quiz.Answer, error) {
	query, args, err := qb.Select("a.*").
		From("answers a INNER JOIN submissions s ON s.public_id = a.submission_public_id").
		Where(
			qb.Expr("s.quiz_public_id = ?", quizID),
			qb.IsNull("a.deleted_at"),
			qb.IsNull("s.deleted_at"),
		).
		OrderBy("a.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select answers query: %w", err)
	}

	var rows []answerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select answers: %w", err)
	}

	out := make([]quiz.Answer, 0, len(rows))
	for _, row := range rows {
		out = append(out, quiz.Answer{
			SubmissionID: row.SubmissionID,
			QuestionID:   row.QuestionID,
			Value:        row.Value,
		})
	}
	return out, nil
}

func (r *QuizRepository) ListBrackets(ctx context.Context, quizID string) ([]quiz.PrizeBracket, error) {
	query, args, err := qb.Select("*").From("prize_brackets").
		Where(
			qb.Eq("quiz_public_id", quizID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("correct_answers").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select prize brackets query: %w", err)
	}

	var rows []prizeBracketTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select prize brackets: %w", err)
	}

	out := make([]quiz.PrizeBracket, 0, len(rows))
	for _, row := range rows {
		out = append(out, quiz.PrizeBracket{
			ID:             row.PublicID,
			QuizID:         row.QuizID,
			CorrectAnswers: row.CorrectAnswers,
			Pool:           row.Pool,
		})
	}
	return out, nil
}

// UpsertResult keys on submission so a settlement rerun overwrites the
// previous row with the freshly computed values.
func (r *QuizRepository) UpsertResult(ctx context.Context, result quiz.Result) error {
	insertModel := resultInsertModel{
		SubmissionID:   result.SubmissionID,
		QuizID:         result.QuizID,
		TotalCorrect:   result.TotalCorrect,
		TotalQuestions: result.TotalQuestions,
		Points:         result.Points,
		Status:         quiz.NormalizeResultStatus(result.Status),
		PrizeAwarded:   result.PrizeAwarded,
	}
	query, args, err := qb.InsertModel("results", insertModel, `ON CONFLICT (submission_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    total_correct = EXCLUDED.total_correct,
    total_questions = EXCLUDED.total_questions,
    points = EXCLUDED.points,
    status = EXCLUDED.status,
    prize_awarded = EXCLUDED.prize_awarded,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert result query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}
