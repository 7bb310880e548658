package jobqueue

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

const settlementRunPath = "/v1/internal/settlement/run"

// EnqueueRoundSettlement publishes the internal settlement job for a
// round. The deduplication id folds the round id so repeated locks of
// the same round collapse into one delivery.
func (p *QStashPublisher) EnqueueRoundSettlement(ctx context.Context, roundID string) error {
	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return crerr.New("round id is required")
	}

	payload := map[string]any{"roundId": roundID}

	return p.Enqueue(ctx, settlementRunPath, payload, 0, "settle-round-"+roundID)
}
