package round

import (
	"strings"
	"time"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusLocked    = "LOCKED"
	StatusSettled   = "SETTLED"
)

// Round is one prediction window: a set of matches plus the quizzes
// built on top of them, sharing a single submission deadline.
type Round struct {
	ID         string
	LeagueID   string
	Name       string
	DeadlineAt time.Time
	Status     string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusDraft
	}
	return status
}

// IsLockable reports whether a round may still transition to LOCKED.
func IsLockable(status string) bool {
	switch NormalizeStatus(status) {
	case StatusDraft, StatusPublished:
		return true
	default:
		return false
	}
}
