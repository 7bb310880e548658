package round

import (
	"context"
	"time"
)

// Repository describes round persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, roundID string) (Round, bool, error)
	ListByIDs(ctx context.Context, roundIDs []string) ([]Round, error)
	// ListDeadlinePassed returns rounds whose deadline is at or before now
	// and that have not been settled yet.
	ListDeadlinePassed(ctx context.Context, now time.Time) ([]Round, error)
	UpdateStatus(ctx context.Context, roundID, status string) error
}
