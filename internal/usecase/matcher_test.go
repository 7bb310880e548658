package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

func TestFindMatchingEvent_PicksNearestKickoff(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)
	m := match.Match{ID: "m1", HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffAt: kickoff}

	events := []FeedEvent{
		{EventRefID: 11, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", KickoffAt: kickoff.Add(time.Hour)},
		{EventRefID: 12, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", KickoffAt: kickoff},
		{EventRefID: 13, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", KickoffAt: kickoff.Add(48 * time.Hour)},
	}

	got, ok := FindMatchingEvent(m, events)
	if !ok {
		t.Fatal("expected a matching event")
	}
	if got.EventRefID != 12 {
		t.Fatalf("expected nearest kickoff event 12, got %d", got.EventRefID)
	}
}

func TestFindMatchingEvent_NeverSwapsSides(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)
	m := match.Match{ID: "m1", HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffAt: kickoff}

	events := []FeedEvent{
		{EventRefID: 21, HomeTeamName: "Chelsea", AwayTeamName: "Arsenal", KickoffAt: kickoff},
		{EventRefID: 22, HomeTeamName: "Arsenal", AwayTeamName: "Spurs", KickoffAt: kickoff},
	}

	if _, ok := FindMatchingEvent(m, events); ok {
		t.Fatal("reversed or partial team names must not match")
	}
}

func TestFindMatchingEvent_NormalizesNames(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)
	m := match.Match{ID: "m1", HomeTeam: "  manchester   CITY ", AwayTeam: "West Ham", KickoffAt: kickoff}

	events := []FeedEvent{
		{EventRefID: 31, HomeTeamName: "Manchester City", AwayTeamName: "WEST  HAM", KickoffAt: kickoff.Add(10 * time.Minute)},
	}

	got, ok := FindMatchingEvent(m, events)
	if !ok {
		t.Fatal("expected case and whitespace differences to be normalized")
	}
	if got.EventRefID != 31 {
		t.Fatalf("unexpected event: %d", got.EventRefID)
	}
}

func TestFindMatchingEvent_EmptyInputs(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)
	if _, ok := FindMatchingEvent(match.Match{HomeTeam: "A", AwayTeam: "B", KickoffAt: kickoff}, nil); ok {
		t.Fatal("no events must not match")
	}
	if _, ok := FindMatchingEvent(match.Match{KickoffAt: kickoff}, []FeedEvent{{HomeTeamName: "", AwayTeamName: ""}}); ok {
		t.Fatal("blank team names must not match")
	}
}
