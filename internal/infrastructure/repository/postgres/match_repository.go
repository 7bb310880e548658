package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return mapMatchRow(row), true, nil
}

func (r *MatchRepository) ListByIDs(ctx context.Context, matchIDs []string) ([]match.Match, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.In("public_id", stringsToAny(matchIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by ids query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by ids: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMatchRow(row))
	}
	return out, nil
}

// UpdateResult writes the final score and flips the status to finished.
// Rewriting the same values is a harmless no-op at the row level.
func (r *MatchRepository) UpdateResult(ctx context.Context, matchID string, result match.Result) error {
	query, args, err := qb.Update("matches").
		Set("home_score", result.HomeScore).
		Set("away_score", result.AwayScore).
		Set("status", match.StatusFinished).
		Set("feed_event_id", int64ToNullInt64(result.FeedEventRefID)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match result query: %w", err)
	}

	updated, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match result: %w", err)
	}
	affected, err := updated.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update match result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update match result: not found")
	}
	return nil
}

func mapMatchRow(row matchTableModel) match.Match {
	return match.Match{
		ID:             row.PublicID,
		RoundID:        row.RoundID,
		HomeTeam:       row.HomeTeam,
		AwayTeam:       row.AwayTeam,
		KickoffAt:      row.KickoffAt,
		HomeScore:      nullIntToPtr(row.HomeScore),
		AwayScore:      nullIntToPtr(row.AwayScore),
		Status:         match.NormalizeStatus(row.Status),
		FeedEventRefID: nullInt64ToInt64(row.FeedEventRefID),
	}
}
