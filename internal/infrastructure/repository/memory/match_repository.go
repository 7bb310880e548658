package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	orders []string
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	orders := make([]string, 0, len(matches))

	for _, m := range matches {
		items[m.ID] = m
		orders = append(orders, m.ID)
	}

	return &MatchRepository{
		items:  items,
		orders: orders,
	}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return m, true, nil
}

func (r *MatchRepository) ListByIDs(_ context.Context, matchIDs []string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(matchIDs))
	for _, id := range matchIDs {
		if m, ok := r.items[id]; ok {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *MatchRepository) UpdateResult(_ context.Context, matchID string, result match.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("match %s not found", matchID)
	}

	home := result.HomeScore
	away := result.AwayScore
	m.HomeScore = &home
	m.AwayScore = &away
	m.Status = match.StatusFinished
	if result.FeedEventRefID > 0 {
		m.FeedEventRefID = result.FeedEventRefID
	}
	r.items[matchID] = m

	return nil
}
