package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

type RoundRepository struct {
	mu     sync.RWMutex
	items  map[string]round.Round
	orders []string
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	items := make(map[string]round.Round, len(rounds))
	orders := make([]string, 0, len(rounds))

	for _, r := range rounds {
		items[r.ID] = r
		orders = append(orders, r.ID)
	}

	return &RoundRepository{
		items:  items,
		orders: orders,
	}
}

func (r *RoundRepository) GetByID(_ context.Context, roundID string) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rd, ok := r.items[roundID]
	if !ok {
		return round.Round{}, false, nil
	}

	return rd, true, nil
}

func (r *RoundRepository) ListByIDs(_ context.Context, roundIDs []string) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0, len(roundIDs))
	for _, id := range roundIDs {
		if rd, ok := r.items[id]; ok {
			out = append(out, rd)
		}
	}

	return out, nil
}

func (r *RoundRepository) ListDeadlinePassed(_ context.Context, now time.Time) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0)
	for _, id := range r.orders {
		rd := r.items[id]
		if round.NormalizeStatus(rd.Status) == round.StatusSettled {
			continue
		}
		if rd.DeadlineAt.After(now) {
			continue
		}
		out = append(out, rd)
	}

	return out, nil
}

func (r *RoundRepository) UpdateStatus(_ context.Context, roundID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rd, ok := r.items[roundID]
	if !ok {
		return fmt.Errorf("round %s not found", roundID)
	}

	rd.Status = round.NormalizeStatus(status)
	r.items[roundID] = rd

	return nil
}
