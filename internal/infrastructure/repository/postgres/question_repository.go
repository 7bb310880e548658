package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/question"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type QuestionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListPendingFuture(ctx context.Context) ([]question.Question, error) {
	query, args, err := qb.Select("*").From("questions").
		Where(
			qb.In("kind", []any{string(question.KindFutureOutcome), string(question.KindFutureScore)}),
			qb.IsNull("correct_value"),
			qb.Expr("match_public_id IS NOT NULL"),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pending future questions query: %w", err)
	}

	var rows []questionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pending future questions: %w", err)
	}
	return mapQuestionRows(rows)
}

func (r *QuestionRepository) ListByQuiz(ctx context.Context, quizID string) ([]question.Question, error) {
	query, args, err := qb.Select("*").From("questions").
		Where(
			qb.Eq("quiz_public_id", quizID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select questions by quiz query: %w", err)
	}

	var rows []questionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select questions by quiz: %w", err)
	}
	return mapQuestionRows(rows)
}

func (r *QuestionRepository) ListByMatchID(ctx context.Context, matchID string) ([]question.Question, error) {
	query, args, err := qb.Select("*").From("questions").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select questions by match query: %w", err)
	}

	var rows []questionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select questions by match: %w", err)
	}
	return mapQuestionRows(rows)
}

func (r *QuestionRepository) CountPendingFutureByRound(ctx context.Context, roundID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("questions q INNER JOIN quizzes z ON z.public_id = q.quiz_public_id").
		Where(
			qb.Expr("z.round_public_id = ?", roundID),
			qb.In("q.kind", []any{
				string(question.KindFutureOutcome),
				string(question.KindFutureScore),
				string(question.KindFutureStat),
			}),
			qb.IsNull("q.correct_value"),
			qb.IsNull("q.deleted_at"),
			qb.IsNull("z.deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count pending future questions query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count pending future questions: %w", err)
	}
	return count, nil
}

// SetCorrect is write-once: a question already holding a correct value
// keeps it, and the call still succeeds.
func (r *QuestionRepository) SetCorrect(ctx context.Context, questionID string, correct question.Correct) error {
	query, args, err := qb.Update("questions").
		Set("correct_value", correct.Encode()).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", questionID),
			qb.IsNull("correct_value"),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set question correct query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set question correct: %w", err)
	}
	return nil
}

func mapQuestionRows(rows []questionTableModel) ([]question.Question, error) {
	out := make([]question.Question, 0, len(rows))
	for _, row := range rows {
		item := question.Question{
			ID:     row.PublicID,
			QuizID: row.QuizID,
			Kind:   question.NormalizeKind(row.Kind),
			Text:   row.Text,
		}
		if row.MatchID.Valid {
			item.MatchID = row.MatchID.String
		}
		if row.CorrectValue.Valid {
			correct, err := question.DecodeCorrect(item.Kind, row.CorrectValue.String)
			if err != nil {
				return nil, fmt.Errorf("decode correct value question=%s: %w", item.ID, err)
			}
			item.Correct = &correct
		}
		out = append(out, item)
	}
	return out, nil
}
