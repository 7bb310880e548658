package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
)

// FeedEvent is one event row from the external results feed. Scores are
// nil until the feed publishes them.
type FeedEvent struct {
	EventRefID   int64
	LeagueRefID  int64
	HomeTeamName string
	AwayTeamName string
	HomeScore    *int
	AwayScore    *int
	KickoffAt    time.Time
	Status       string
	RoundLabel   string
}

// ResultsFeedProvider is the pull side of the results feed.
// FetchEventResult reports found=false when the feed does not know the
// event yet.
type ResultsFeedProvider interface {
	FetchFinishedEvents(ctx context.Context, leagueRefID int64) ([]FeedEvent, error)
	FetchEventResult(ctx context.Context, eventRefID int64) (FeedEvent, bool, error)
}

// defaultFeedLeagueIDs maps league codes to the feed's league
// identifiers for the leagues the product launched with.
var defaultFeedLeagueIDs = map[string]int64{
	"epl":        8,
	"laliga":     564,
	"seriea":     384,
	"bundesliga": 82,
	"ligue1":     301,
}

// FeedLeagueID resolves the feed league identifier for an internal
// league. Config overrides win, then the league's own feed ref, then
// the built-in table. Unmapped leagues return false and are skipped by
// callers.
func FeedLeagueID(lg league.League, overrides map[string]int64) (int64, bool) {
	code := strings.ToLower(strings.TrimSpace(lg.Code))
	if id, ok := overrides[code]; ok && id > 0 {
		return id, true
	}
	if lg.FeedRefID > 0 {
		return lg.FeedRefID, true
	}
	if id, ok := defaultFeedLeagueIDs[code]; ok {
		return id, true
	}
	return 0, false
}
