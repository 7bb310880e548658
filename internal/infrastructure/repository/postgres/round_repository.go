package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(
			qb.Eq("public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build get round by id query: %w", err)
	}

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round by id: %w", err)
	}
	return mapRoundRow(row), true, nil
}

func (r *RoundRepository) ListByIDs(ctx context.Context, roundIDs []string) ([]round.Round, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("rounds").
		Where(
			qb.In("public_id", stringsToAny(roundIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rounds by ids query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rounds by ids: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapRoundRow(row))
	}
	return out, nil
}

func (r *RoundRepository) ListDeadlinePassed(ctx context.Context, now time.Time) ([]round.Round, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(
			qb.Expr("deadline_at < ?", now),
			qb.Expr("status <> ?", round.StatusSettled),
			qb.IsNull("deleted_at"),
		).
		OrderBy("deadline_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rounds past deadline query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rounds past deadline: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapRoundRow(row))
	}
	return out, nil
}

func (r *RoundRepository) UpdateStatus(ctx context.Context, roundID, status string) error {
	query, args, err := qb.Update("rounds").
		Set("status", round.NormalizeStatus(status)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update round status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update round status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update round status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update round status: not found")
	}
	return nil
}

func mapRoundRow(row roundTableModel) round.Round {
	return round.Round{
		ID:         row.PublicID,
		LeagueID:   row.LeagueID,
		Name:       row.Name,
		DeadlineAt: row.DeadlineAt,
		Status:     round.NormalizeStatus(row.Status),
	}
}
