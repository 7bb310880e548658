package usecase

import (
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

// FindMatchingEvent picks the feed event for a match: home and away
// names must be equal after normalization (no side swapping), and among
// name matches the one with the smallest kickoff delta wins. The caller
// decides how large a delta it still trusts.
func FindMatchingEvent(m match.Match, events []FeedEvent) (FeedEvent, bool) {
	home := normalizeTeamName(m.HomeTeam)
	away := normalizeTeamName(m.AwayTeam)
	if home == "" || away == "" {
		return FeedEvent{}, false
	}

	var best FeedEvent
	bestDelta := time.Duration(-1)
	for _, ev := range events {
		if normalizeTeamName(ev.HomeTeamName) != home || normalizeTeamName(ev.AwayTeamName) != away {
			continue
		}
		delta := absDuration(ev.KickoffAt.Sub(m.KickoffAt))
		if bestDelta < 0 || delta < bestDelta {
			best = ev
			bestDelta = delta
		}
	}
	if bestDelta < 0 {
		return FeedEvent{}, false
	}
	return best, true
}

func normalizeTeamName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
