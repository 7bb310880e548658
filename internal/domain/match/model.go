package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Match is one scheduled fixture inside a round. Scores stay nil until
// reconciliation writes the final result; FeedEventRefID is the external
// gateway event id used for real-time subscriptions (zero if unknown).
type Match struct {
	ID             string
	RoundID        string
	HomeTeam       string
	AwayTeam       string
	KickoffAt      time.Time
	HomeScore      *int
	AwayScore      *int
	Status         string
	FeedEventRefID int64
}

// Result is the final outcome written by reconciliation.
type Result struct {
	HomeScore      int
	AwayScore      int
	FeedEventRefID int64
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

// HasResult reports whether both final scores are present.
func (m Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}
