package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/question"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const (
	skipReasonLeagueUnmapped       = "league_unmapped"
	skipReasonNotStarted           = "not_started"
	skipReasonNoEvent              = "no_event"
	skipReasonDeltaExceeded        = "delta_exceeded"
	skipReasonScorePending         = "score_pending"
	skipReasonUpdateFailed         = "update_failed"
	skipReasonQuestionUpdateFailed = "question_update_failed"

	defaultResultDeltaTolerance = 72 * time.Hour
)

type ReconciliationConfig struct {
	Enabled bool
	// LeagueIDOverrides remaps internal league codes to feed league ids.
	LeagueIDOverrides    map[string]int64
	ResultDeltaTolerance time.Duration
}

type ReconciliationResult struct {
	ScannedQuestions int                  `json:"scanned_questions"`
	SettledMatches   int                  `json:"settled_matches"`
	SettledQuestions int                  `json:"settled_questions"`
	LockedRounds     int                  `json:"locked_rounds"`
	Skips            []ReconciliationSkip `json:"skips,omitempty"`
}

type ReconciliationSkip struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail,omitempty"`
}

// SettlementEnqueuer hands a locked round off to the job queue so the
// settlement pass runs out of band. Optional.
type SettlementEnqueuer interface {
	EnqueueRoundSettlement(ctx context.Context, roundID string) error
}

// ReconciliationService pulls finished results from the feed and writes
// them into matches, question correct values, and round statuses. All
// writes are idempotent by value so overlapping runs stay safe.
type ReconciliationService struct {
	feed         ResultsFeedProvider
	leagueRepo   league.Repository
	roundRepo    round.Repository
	matchRepo    match.Repository
	questionRepo question.Repository
	jobs         SettlementEnqueuer
	cfg          ReconciliationConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewReconciliationService(
	feed ResultsFeedProvider,
	leagueRepo league.Repository,
	roundRepo round.Repository,
	matchRepo match.Repository,
	questionRepo question.Repository,
	jobs SettlementEnqueuer,
	cfg ReconciliationConfig,
	logger *logging.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ResultDeltaTolerance <= 0 {
		cfg.ResultDeltaTolerance = defaultResultDeltaTolerance
	}

	return &ReconciliationService{
		feed:         feed,
		leagueRepo:   leagueRepo,
		roundRepo:    roundRepo,
		matchRepo:    matchRepo,
		questionRepo: questionRepo,
		jobs:         jobs,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// SettlePendingFutureQuestions walks every ungraded future question,
// resolves its match against the feed, and settles what it can. Per
// match failures become skip reasons rather than aborting the run.
func (s *ReconciliationService) SettlePendingFutureQuestions(ctx context.Context) (ReconciliationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.SettlePendingFutureQuestions")
	defer span.End()

	if !s.cfg.Enabled {
		return ReconciliationResult{}, fmt.Errorf("%w: results feed is disabled (FEED_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.feed == nil {
		return ReconciliationResult{}, fmt.Errorf("%w: results feed provider is not configured", ErrDependencyUnavailable)
	}

	questions, err := s.questionRepo.ListPendingFuture(ctx)
	if err != nil {
		return ReconciliationResult{}, fmt.Errorf("list pending future questions: %w", err)
	}

	result := ReconciliationResult{ScannedQuestions: len(questions)}

	questionsByMatch := make(map[string][]question.Question)
	for _, q := range questions {
		if !q.Kind.SettledByReconciliation() || strings.TrimSpace(q.MatchID) == "" {
			continue
		}
		questionsByMatch[q.MatchID] = append(questionsByMatch[q.MatchID], q)
	}
	if len(questionsByMatch) == 0 {
		return result, nil
	}

	matchIDs := make([]string, 0, len(questionsByMatch))
	for matchID := range questionsByMatch {
		matchIDs = append(matchIDs, matchID)
	}
	sort.Strings(matchIDs)

	matchesByID, roundsByID, leaguesByID, err := s.loadMatchContext(ctx, matchIDs)
	if err != nil {
		return ReconciliationResult{}, err
	}

	now := s.now()
	buckets := make(map[int64][]FeedEvent)
	fetched := make(map[int64]bool)
	lockedRounds := make(map[string]bool)

	for _, matchID := range matchIDs {
		m, ok := matchesByID[matchID]
		if !ok {
			result.Skips = append(result.Skips, ReconciliationSkip{
				MatchID: matchID,
				Reason:  skipReasonUpdateFailed,
				Detail:  "match row not found",
			})
			continue
		}

		r, ok := roundsByID[m.RoundID]
		if !ok {
			result.Skips = append(result.Skips, ReconciliationSkip{
				MatchID: matchID,
				Reason:  skipReasonUpdateFailed,
				Detail:  fmt.Sprintf("round row not found round=%s", m.RoundID),
			})
			continue
		}

		lg, ok := leaguesByID[r.LeagueID]
		if !ok {
			result.Skips = append(result.Skips, ReconciliationSkip{
				MatchID: matchID,
				Reason:  skipReasonLeagueUnmapped,
				Detail:  fmt.Sprintf("league row not found league=%s", r.LeagueID),
			})
			continue
		}

		feedLeagueID, ok := FeedLeagueID(lg, s.cfg.LeagueIDOverrides)
		if !ok {
			result.Skips = append(result.Skips, ReconciliationSkip{MatchID: matchID, Reason: skipReasonLeagueUnmapped})
			continue
		}

		if m.KickoffAt.After(now) {
			result.Skips = append(result.Skips, ReconciliationSkip{MatchID: matchID, Reason: skipReasonNotStarted})
			continue
		}

		if !fetched[feedLeagueID] {
			fetched[feedLeagueID] = true
			events, fetchErr := s.feed.FetchFinishedEvents(ctx, feedLeagueID)
			if fetchErr != nil {
				s.logger.WarnContext(ctx,
					"fetch finished events failed, treating league as empty this run",
					"feed_league_id", feedLeagueID,
					"error", fetchErr.Error(),
				)
				events = nil
			}
			buckets[feedLeagueID] = events
		}

		ev, found := FindMatchingEvent(m, buckets[feedLeagueID])
		if !found {
			result.Skips = append(result.Skips, ReconciliationSkip{MatchID: matchID, Reason: skipReasonNoEvent})
			continue
		}

		s.settleMatchFromEvent(ctx, m, ev, questionsByMatch[matchID], r, &result, lockedRounds)
	}

	s.logger.InfoContext(ctx, "reconciliation run finished",
		"scanned_questions", result.ScannedQuestions,
		"settled_matches", result.SettledMatches,
		"settled_questions", result.SettledQuestions,
		"locked_rounds", result.LockedRounds,
		"skips", len(result.Skips),
	)
	return result, nil
}

// SyncMatchResult settles a single match immediately, used by the
// listener when the gateway announces a finish. The event result lookup
// is tried first; a league-wide fetch plus the matcher covers feeds
// that lag on the per-event endpoint.
func (s *ReconciliationService) SyncMatchResult(ctx context.Context, matchID string) (ReconciliationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.SyncMatchResult")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return ReconciliationResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if !s.cfg.Enabled {
		return ReconciliationResult{}, fmt.Errorf("%w: results feed is disabled (FEED_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.feed == nil {
		return ReconciliationResult{}, fmt.Errorf("%w: results feed provider is not configured", ErrDependencyUnavailable)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return ReconciliationResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return ReconciliationResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	questions, err := s.questionRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return ReconciliationResult{}, fmt.Errorf("list questions for match: %w", err)
	}
	pending := questions[:0]
	for _, q := range questions {
		if q.Kind.SettledByReconciliation() && q.Correct == nil {
			pending = append(pending, q)
		}
	}

	result := ReconciliationResult{ScannedQuestions: len(pending)}

	r, exists, err := s.roundRepo.GetByID(ctx, m.RoundID)
	if err != nil {
		return ReconciliationResult{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return ReconciliationResult{}, fmt.Errorf("%w: round=%s", ErrNotFound, m.RoundID)
	}

	// A finish announcement for a match whose stored kickoff is still in
	// the future means the fixture moved (postponement, reschedule); a
	// result must never be written before the internal kickoff passes.
	if m.KickoffAt.After(s.now()) {
		result.Skips = append(result.Skips, ReconciliationSkip{MatchID: matchID, Reason: skipReasonNotStarted})
		return result, nil
	}

	ev, found, err := s.lookupEventForMatch(ctx, m, r)
	if err != nil {
		return ReconciliationResult{}, err
	}
	if !found {
		result.Skips = append(result.Skips, ReconciliationSkip{MatchID: matchID, Reason: skipReasonNoEvent})
		return result, nil
	}

	s.settleMatchFromEvent(ctx, m, ev, pending, r, &result, make(map[string]bool))
	return result, nil
}

func (s *ReconciliationService) lookupEventForMatch(ctx context.Context, m match.Match, r round.Round) (FeedEvent, bool, error) {
	if m.FeedEventRefID > 0 {
		ev, found, err := s.feed.FetchEventResult(ctx, m.FeedEventRefID)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch event result failed, falling back to league fetch",
				"match_id", m.ID,
				"event_ref_id", m.FeedEventRefID,
				"error", err.Error(),
			)
		} else if found {
			return ev, true, nil
		}
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, r.LeagueID)
	if err != nil {
		return FeedEvent{}, false, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return FeedEvent{}, false, fmt.Errorf("%w: league=%s", ErrNotFound, r.LeagueID)
	}
	feedLeagueID, ok := FeedLeagueID(lg, s.cfg.LeagueIDOverrides)
	if !ok {
		return FeedEvent{}, false, fmt.Errorf("%w: league=%s has no feed mapping", ErrDependencyUnavailable, lg.ID)
	}

	events, err := s.feed.FetchFinishedEvents(ctx, feedLeagueID)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch finished events failed during single-match sync",
			"feed_league_id", feedLeagueID,
			"error", err.Error(),
		)
		return FeedEvent{}, false, nil
	}
	ev, found := FindMatchingEvent(m, events)
	return ev, found, nil
}

// settleMatchFromEvent applies one feed event to its match, grades the
// match's pending questions, and locks the round once nothing under it
// is pending. Failures land in the skip list.
func (s *ReconciliationService) settleMatchFromEvent(
	ctx context.Context,
	m match.Match,
	ev FeedEvent,
	questions []question.Question,
	r round.Round,
	result *ReconciliationResult,
	lockedRounds map[string]bool,
) {
	delta := absDuration(ev.KickoffAt.Sub(m.KickoffAt))
	if delta > s.cfg.ResultDeltaTolerance {
		result.Skips = append(result.Skips, ReconciliationSkip{
			MatchID: m.ID,
			Reason:  skipReasonDeltaExceeded,
			Detail:  fmt.Sprintf("kickoff delta %s exceeds %s", delta, s.cfg.ResultDeltaTolerance),
		})
		return
	}
	if ev.HomeScore == nil || ev.AwayScore == nil {
		result.Skips = append(result.Skips, ReconciliationSkip{MatchID: m.ID, Reason: skipReasonScorePending})
		return
	}

	outcome := match.Result{
		HomeScore:      *ev.HomeScore,
		AwayScore:      *ev.AwayScore,
		FeedEventRefID: ev.EventRefID,
	}
	if err := s.matchRepo.UpdateResult(ctx, m.ID, outcome); err != nil {
		result.Skips = append(result.Skips, ReconciliationSkip{
			MatchID: m.ID,
			Reason:  skipReasonUpdateFailed,
			Detail:  err.Error(),
		})
		return
	}
	result.SettledMatches++

	for _, q := range questions {
		correct, ok := deriveCorrect(q.Kind, *ev.HomeScore, *ev.AwayScore)
		if !ok {
			continue
		}
		if err := s.questionRepo.SetCorrect(ctx, q.ID, correct); err != nil {
			result.Skips = append(result.Skips, ReconciliationSkip{
				MatchID: m.ID,
				Reason:  skipReasonQuestionUpdateFailed,
				Detail:  fmt.Sprintf("question=%s: %v", q.ID, err),
			})
			continue
		}
		result.SettledQuestions++
	}

	s.lockRoundIfSettled(ctx, r, result, lockedRounds)
}

func (s *ReconciliationService) lockRoundIfSettled(
	ctx context.Context,
	r round.Round,
	result *ReconciliationResult,
	lockedRounds map[string]bool,
) {
	if lockedRounds[r.ID] || !round.IsLockable(r.Status) {
		return
	}

	pending, err := s.questionRepo.CountPendingFutureByRound(ctx, r.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "count pending future questions failed, round lock deferred",
			"round_id", r.ID,
			"error", err.Error(),
		)
		return
	}
	if pending > 0 {
		return
	}

	if err := s.roundRepo.UpdateStatus(ctx, r.ID, round.StatusLocked); err != nil {
		s.logger.WarnContext(ctx, "lock round failed",
			"round_id", r.ID,
			"error", err.Error(),
		)
		return
	}
	lockedRounds[r.ID] = true
	result.LockedRounds++
	s.logger.InfoContext(ctx, "round locked, all future questions settled", "round_id", r.ID)

	if s.jobs != nil {
		if err := s.jobs.EnqueueRoundSettlement(ctx, r.ID); err != nil {
			s.logger.WarnContext(ctx, "enqueue round settlement failed",
				"round_id", r.ID,
				"error", err.Error(),
			)
		}
	}
}

func (s *ReconciliationService) loadMatchContext(ctx context.Context, matchIDs []string) (
	map[string]match.Match,
	map[string]round.Round,
	map[string]league.League,
	error,
) {
	matches, err := s.matchRepo.ListByIDs(ctx, matchIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list matches: %w", err)
	}
	matchesByID := make(map[string]match.Match, len(matches))
	roundIDSet := make(map[string]struct{})
	for _, m := range matches {
		matchesByID[m.ID] = m
		roundIDSet[m.RoundID] = struct{}{}
	}

	rounds, err := s.roundRepo.ListByIDs(ctx, sortedKeys(roundIDSet))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list rounds: %w", err)
	}
	roundsByID := make(map[string]round.Round, len(rounds))
	leagueIDSet := make(map[string]struct{})
	for _, r := range rounds {
		roundsByID[r.ID] = r
		leagueIDSet[r.LeagueID] = struct{}{}
	}

	leagues, err := s.leagueRepo.ListByIDs(ctx, sortedKeys(leagueIDSet))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list leagues: %w", err)
	}
	leaguesByID := make(map[string]league.League, len(leagues))
	for _, lg := range leagues {
		leaguesByID[lg.ID] = lg
	}

	return matchesByID, roundsByID, leaguesByID, nil
}

func deriveCorrect(kind question.Kind, home, away int) (question.Correct, bool) {
	switch kind {
	case question.KindFutureScore:
		return question.Correct{Kind: kind, Home: home, Away: away}, true
	case question.KindFutureOutcome:
		return question.Correct{Kind: kind, Outcome: question.OutcomeFromScore(home, away)}, true
	default:
		return question.Correct{}, false
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
