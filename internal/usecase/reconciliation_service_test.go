package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/question"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

func newReconciliationFixture(t *testing.T, now time.Time) (*ReconciliationService, *stubFeedProvider, *stubMatchRepository, *stubQuestionRepository, *stubRoundRepository) {
	t.Helper()

	kickoff := now.Add(-3 * time.Hour)
	leagueRepo := &stubLeagueRepository{
		byID: map[string]league.League{
			"lg-epl": {ID: "lg-epl", Name: "Premier League", Code: "epl", FeedRefID: 8},
		},
	}
	roundRepo := &stubRoundRepository{
		byID: map[string]round.Round{
			"rd-1": {ID: "rd-1", LeagueID: "lg-epl", Name: "Gameweek 28", DeadlineAt: kickoff.Add(-time.Hour), Status: round.StatusPublished},
		},
	}
	matchRepo := &stubMatchRepository{
		byID: map[string]match.Match{
			"m-1": {ID: "m-1", RoundID: "rd-1", HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffAt: kickoff, Status: match.StatusScheduled},
		},
	}
	questionRepo := &stubQuestionRepository{
		roundByQuiz: map[string]string{"qz-1": "rd-1"},
		questions: []*question.Question{
			{ID: "q-1", QuizID: "qz-1", Kind: question.KindFutureOutcome, MatchID: "m-1"},
			{ID: "q-2", QuizID: "qz-1", Kind: question.KindFutureScore, MatchID: "m-1"},
		},
	}
	feed := &stubFeedProvider{eventsByLeague: map[int64][]FeedEvent{}}

	service := NewReconciliationService(feed, leagueRepo, roundRepo, matchRepo, questionRepo, nil, ReconciliationConfig{Enabled: true}, nil)
	service.now = func() time.Time { return now }
	return service, feed, matchRepo, questionRepo, roundRepo
}

func TestReconciliationService_SettlesMatchAndLocksRound(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	service, feed, matchRepo, questionRepo, roundRepo := newReconciliationFixture(t, now)

	home, away := 2, 1
	feed.eventsByLeague[8] = []FeedEvent{
		{EventRefID: 900, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", HomeScore: &home, AwayScore: &away, KickoffAt: now.Add(-3 * time.Hour)},
	}

	got, err := service.SettlePendingFutureQuestions(context.Background())
	if err != nil {
		t.Fatalf("settle pending future questions: %v", err)
	}
	if got.SettledMatches != 1 || got.SettledQuestions != 2 || got.LockedRounds != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if len(got.Skips) != 0 {
		t.Fatalf("expected no skips, got %+v", got.Skips)
	}
	if feed.fetchCalls != 1 {
		t.Fatalf("expected one league fetch, got %d", feed.fetchCalls)
	}

	m := matchRepo.byID["m-1"]
	if m.HomeScore == nil || m.AwayScore == nil || *m.HomeScore != 2 || *m.AwayScore != 1 {
		t.Fatalf("match result not written: %+v", m)
	}
	if m.Status != match.StatusFinished || m.FeedEventRefID != 900 {
		t.Fatalf("match status/ref not written: %+v", m)
	}

	q1 := questionRepo.find("q-1")
	if q1.Correct == nil || q1.Correct.Outcome != question.OutcomeHome {
		t.Fatalf("outcome question not graded: %+v", q1.Correct)
	}
	q2 := questionRepo.find("q-2")
	if q2.Correct == nil || q2.Correct.Home != 2 || q2.Correct.Away != 1 {
		t.Fatalf("score question not graded: %+v", q2.Correct)
	}

	if roundRepo.byID["rd-1"].Status != round.StatusLocked {
		t.Fatalf("round not locked: %s", roundRepo.byID["rd-1"].Status)
	}
}

func TestReconciliationService_SkipsFutureKickoffWithoutFetching(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	service, feed, matchRepo, _, _ := newReconciliationFixture(t, now)
	m := matchRepo.byID["m-1"]
	m.KickoffAt = now.Add(2 * time.Hour)
	matchRepo.byID["m-1"] = m

	got, err := service.SettlePendingFutureQuestions(context.Background())
	if err != nil {
		t.Fatalf("settle pending future questions: %v", err)
	}
	if got.SettledMatches != 0 {
		t.Fatalf("expected no settled matches, got %d", got.SettledMatches)
	}
	if len(got.Skips) != 1 || got.Skips[0].Reason != skipReasonNotStarted {
		t.Fatalf("expected not_started skip, got %+v", got.Skips)
	}
	if feed.fetchCalls != 0 {
		t.Fatalf("expected no feed fetch for an unstarted match, got %d", feed.fetchCalls)
	}
}

func TestReconciliationService_FeedFailureBecomesEmptyLeague(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	service, feed, _, _, _ := newReconciliationFixture(t, now)
	feed.eventsErr = errors.New("feed unavailable")

	got, err := service.SettlePendingFutureQuestions(context.Background())
	if err != nil {
		t.Fatalf("a feed outage must not fail the run: %v", err)
	}
	if len(got.Skips) != 1 || got.Skips[0].Reason != skipReasonNoEvent {
		t.Fatalf("expected no_event skip, got %+v", got.Skips)
	}
}

func TestReconciliationService_SkipReasons(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	home, away := 1, 1

	cases := []struct {
		name   string
		event  FeedEvent
		reason string
	}{
		{
			name:   "delta exceeded",
			event:  FeedEvent{HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", HomeScore: &home, AwayScore: &away, KickoffAt: now.Add(-100 * time.Hour)},
			reason: skipReasonDeltaExceeded,
		},
		{
			name:   "score pending",
			event:  FeedEvent{HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", KickoffAt: now.Add(-3 * time.Hour)},
			reason: skipReasonScorePending,
		},
		{
			name:   "no event",
			event:  FeedEvent{HomeTeamName: "Spurs", AwayTeamName: "Chelsea", HomeScore: &home, AwayScore: &away, KickoffAt: now.Add(-3 * time.Hour)},
			reason: skipReasonNoEvent,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service, feed, matchRepo, _, _ := newReconciliationFixture(t, now)
			feed.eventsByLeague[8] = []FeedEvent{tc.event}

			got, err := service.SettlePendingFutureQuestions(context.Background())
			if err != nil {
				t.Fatalf("settle pending future questions: %v", err)
			}
			if got.SettledMatches != 0 {
				t.Fatalf("expected no settled matches, got %d", got.SettledMatches)
			}
			if len(got.Skips) != 1 || got.Skips[0].Reason != tc.reason {
				t.Fatalf("expected %s skip, got %+v", tc.reason, got.Skips)
			}
			if matchRepo.byID["m-1"].HasResult() {
				t.Fatal("skipped match must stay without a result")
			}
		})
	}
}

func TestReconciliationService_UnmappedLeagueSkips(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	service, feed, _, _, _ := newReconciliationFixture(t, now)
	service.leagueRepo.(*stubLeagueRepository).byID["lg-epl"] = league.League{ID: "lg-epl", Name: "Somewhere", Code: "unknown"}

	got, err := service.SettlePendingFutureQuestions(context.Background())
	if err != nil {
		t.Fatalf("settle pending future questions: %v", err)
	}
	if len(got.Skips) != 1 || got.Skips[0].Reason != skipReasonLeagueUnmapped {
		t.Fatalf("expected league_unmapped skip, got %+v", got.Skips)
	}
	if feed.fetchCalls != 0 {
		t.Fatalf("unmapped league must not be fetched, got %d calls", feed.fetchCalls)
	}
}

func TestReconciliationService_DisabledFeed(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	service, _, _, _, _ := newReconciliationFixture(t, now)
	service.cfg.Enabled = false

	if _, err := service.SettlePendingFutureQuestions(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestReconciliationService_SyncMatchResultUsesEventRef(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	service, feed, matchRepo, questionRepo, roundRepo := newReconciliationFixture(t, now)

	m := matchRepo.byID["m-1"]
	m.FeedEventRefID = 900
	matchRepo.byID["m-1"] = m

	home, away := 0, 2
	feed.resultByRef = map[int64]FeedEvent{
		900: {EventRefID: 900, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", HomeScore: &home, AwayScore: &away, KickoffAt: now.Add(-3 * time.Hour)},
	}

	got, err := service.SyncMatchResult(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("sync match result: %v", err)
	}
	if got.SettledMatches != 1 || got.SettledQuestions != 2 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if feed.fetchCalls != 0 {
		t.Fatal("event ref lookup must not trigger a league fetch")
	}
	if q := questionRepo.find("q-1"); q.Correct == nil || q.Correct.Outcome != question.OutcomeAway {
		t.Fatalf("outcome question not graded: %+v", q.Correct)
	}
	if roundRepo.byID["rd-1"].Status != round.StatusLocked {
		t.Fatal("round should lock when its last match settles")
	}
}

func TestReconciliationService_SyncMatchResultSkipsFutureKickoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	service, feed, matchRepo, questionRepo, _ := newReconciliationFixture(t, now)

	// A rescheduled fixture: the feed still lists a finished event whose
	// kickoff sits inside the delta tolerance, but the internal kickoff
	// moved into the future.
	m := matchRepo.byID["m-1"]
	m.KickoffAt = now.Add(24 * time.Hour)
	m.FeedEventRefID = 900
	matchRepo.byID["m-1"] = m

	home, away := 2, 1
	feed.resultByRef = map[int64]FeedEvent{
		900: {EventRefID: 900, HomeTeamName: "Arsenal", AwayTeamName: "Chelsea", HomeScore: &home, AwayScore: &away, KickoffAt: now.Add(24 * time.Hour)},
	}

	got, err := service.SyncMatchResult(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("sync match result: %v", err)
	}
	if got.SettledMatches != 0 || got.SettledQuestions != 0 {
		t.Fatalf("unplayed match must not settle: %+v", got)
	}
	if len(got.Skips) != 1 || got.Skips[0].Reason != skipReasonNotStarted {
		t.Fatalf("expected not_started skip, got %+v", got.Skips)
	}
	if matchRepo.byID["m-1"].Status != match.StatusScheduled {
		t.Fatalf("match status changed: %s", matchRepo.byID["m-1"].Status)
	}
	if q := questionRepo.find("q-1"); q.Correct != nil {
		t.Fatalf("question graded for an unplayed match: %+v", q.Correct)
	}
}

func TestReconciliationService_SyncMatchResultUnknownMatch(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	service, _, _, _, _ := newReconciliationFixture(t, now)

	if _, err := service.SyncMatchResult(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeriveCorrect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		home, away int
		want       string
	}{
		{2, 1, question.OutcomeHome},
		{1, 2, question.OutcomeAway},
		{1, 1, question.OutcomeDraw},
	}
	for _, tc := range cases {
		got, ok := deriveCorrect(question.KindFutureOutcome, tc.home, tc.away)
		if !ok || got.Outcome != tc.want {
			t.Fatalf("deriveCorrect(outcome, %d, %d) = %+v, want %s", tc.home, tc.away, got, tc.want)
		}
	}

	score, ok := deriveCorrect(question.KindFutureScore, 3, 0)
	if !ok || score.Home != 3 || score.Away != 0 {
		t.Fatalf("deriveCorrect(score, 3, 0) = %+v", score)
	}
	if _, ok := deriveCorrect(question.KindFutureStat, 1, 0); ok {
		t.Fatal("stat questions are not graded from scores")
	}
}

type stubLeagueRepository struct {
	byID map[string]league.League
}

func (s *stubLeagueRepository) List(_ context.Context) ([]league.League, error) {
	out := make([]league.League, 0, len(s.byID))
	for _, item := range s.byID {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubLeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	item, ok := s.byID[leagueID]
	return item, ok, nil
}

func (s *stubLeagueRepository) ListByIDs(_ context.Context, leagueIDs []string) ([]league.League, error) {
	out := make([]league.League, 0, len(leagueIDs))
	for _, id := range leagueIDs {
		if item, ok := s.byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type stubRoundRepository struct {
	byID            map[string]round.Round
	updateStatusErr error
}

func (s *stubRoundRepository) GetByID(_ context.Context, roundID string) (round.Round, bool, error) {
	item, ok := s.byID[roundID]
	return item, ok, nil
}

func (s *stubRoundRepository) ListByIDs(_ context.Context, roundIDs []string) ([]round.Round, error) {
	out := make([]round.Round, 0, len(roundIDs))
	for _, id := range roundIDs {
		if item, ok := s.byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRoundRepository) ListDeadlinePassed(_ context.Context, now time.Time) ([]round.Round, error) {
	var out []round.Round
	for _, item := range s.byID {
		if item.Status != round.StatusSettled && item.DeadlineAt.Before(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRoundRepository) UpdateStatus(_ context.Context, roundID, status string) error {
	if s.updateStatusErr != nil {
		return s.updateStatusErr
	}
	item, ok := s.byID[roundID]
	if !ok {
		return errors.New("round not found")
	}
	item.Status = status
	s.byID[roundID] = item
	return nil
}

type stubMatchRepository struct {
	byID            map[string]match.Match
	updateResultErr error
}

func (s *stubMatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	item, ok := s.byID[matchID]
	return item, ok, nil
}

func (s *stubMatchRepository) ListByIDs(_ context.Context, matchIDs []string) ([]match.Match, error) {
	out := make([]match.Match, 0, len(matchIDs))
	for _, id := range matchIDs {
		if item, ok := s.byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubMatchRepository) UpdateResult(_ context.Context, matchID string, result match.Result) error {
	if s.updateResultErr != nil {
		return s.updateResultErr
	}
	item, ok := s.byID[matchID]
	if !ok {
		return errors.New("match not found")
	}
	home := result.HomeScore
	away := result.AwayScore
	item.HomeScore = &home
	item.AwayScore = &away
	item.Status = match.StatusFinished
	if result.FeedEventRefID > 0 {
		item.FeedEventRefID = result.FeedEventRefID
	}
	s.byID[matchID] = item
	return nil
}

type stubQuestionRepository struct {
	questions      []*question.Question
	roundByQuiz    map[string]string
	setCorrectErrs map[string]error
}

func (s *stubQuestionRepository) find(questionID string) *question.Question {
	for _, q := range s.questions {
		if q.ID == questionID {
			return q
		}
	}
	return nil
}

func (s *stubQuestionRepository) ListPendingFuture(_ context.Context) ([]question.Question, error) {
	var out []question.Question
	for _, q := range s.questions {
		if q.Kind.SettledByReconciliation() && q.Correct == nil && q.MatchID != "" {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *stubQuestionRepository) ListByQuiz(_ context.Context, quizID string) ([]question.Question, error) {
	var out []question.Question
	for _, q := range s.questions {
		if q.QuizID == quizID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *stubQuestionRepository) ListByMatchID(_ context.Context, matchID string) ([]question.Question, error) {
	var out []question.Question
	for _, q := range s.questions {
		if q.MatchID == matchID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *stubQuestionRepository) CountPendingFutureByRound(_ context.Context, roundID string) (int, error) {
	count := 0
	for _, q := range s.questions {
		if s.roundByQuiz[q.QuizID] == roundID && q.Kind.IsFuture() && q.Correct == nil {
			count++
		}
	}
	return count, nil
}

func (s *stubQuestionRepository) SetCorrect(_ context.Context, questionID string, correct question.Correct) error {
	if err, ok := s.setCorrectErrs[questionID]; ok {
		return err
	}
	q := s.find(questionID)
	if q == nil {
		return errors.New("question not found")
	}
	if q.Correct == nil {
		value := correct
		q.Correct = &value
	}
	return nil
}

type stubFeedProvider struct {
	eventsByLeague map[int64][]FeedEvent
	eventsErr      error
	resultByRef    map[int64]FeedEvent
	fetchCalls     int
}

func (s *stubFeedProvider) FetchFinishedEvents(_ context.Context, leagueRefID int64) ([]FeedEvent, error) {
	s.fetchCalls++
	if s.eventsErr != nil {
		return nil, s.eventsErr
	}
	return s.eventsByLeague[leagueRefID], nil
}

func (s *stubFeedProvider) FetchEventResult(_ context.Context, eventRefID int64) (FeedEvent, bool, error) {
	ev, ok := s.resultByRef[eventRefID]
	return ev, ok, nil
}
