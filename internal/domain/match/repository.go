package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByIDs(ctx context.Context, matchIDs []string) ([]Match, error)
	// UpdateResult writes final scores and flips the match to FINISHED.
	// The write is idempotent by value: repeating it with the same result
	// leaves the row unchanged.
	UpdateResult(ctx context.Context, matchID string, result Result) error
}
