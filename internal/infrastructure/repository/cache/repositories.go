package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

// LeagueRepository caches league reads in front of another repository.
// Leagues are master data that only changes on deploys, so cached reads
// never need invalidation beyond the store TTL.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := "league:id:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListByIDs(ctx context.Context, leagueIDs []string) ([]league.League, error) {
	if len(leagueIDs) == 0 {
		return nil, nil
	}

	sorted := append([]string(nil), leagueIDs...)
	sort.Strings(sorted)
	key := "league:ids:" + strings.Join(sorted, ",")

	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, leagueIDs)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}
