package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/prediction-league/internal/domain/question"
	"github.com/riskibarqy/prediction-league/internal/domain/quiz"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const (
	settleStatusSettled = "settled"
	settleStatusSkipped = "skipped"
	settleStatusFailed  = "failed"

	defaultMinQualifyingCorrect = 5
	defaultSettlementWorkers    = 4
)

// ErrQuizNotEligible marks a quiz whose round deadline has not passed
// or whose future questions are still ungraded.
var ErrQuizNotEligible = errors.New("quiz not eligible for settlement")

type SettlementConfig struct {
	// MinQualifyingCorrect is the lowest bracket threshold that pays out.
	MinQualifyingCorrect int
	PointsPerCorrect     int
	MaxWorkers           int
}

type SettlementResult struct {
	QuizID            string `json:"quiz_id"`
	RoundID           string `json:"round_id"`
	SubmissionCount   int    `json:"submission_count"`
	WinnerCount       int    `json:"winner_count"`
	TotalPrizeAwarded int64  `json:"total_prize_awarded"`
}

type SettlementRunResult struct {
	RoundCount   int                 `json:"round_count"`
	QuizCount    int                 `json:"quiz_count"`
	SettledCount int                 `json:"settled_count"`
	SkippedCount int                 `json:"skipped_count"`
	FailedCount  int                 `json:"failed_count"`
	SettledRound int                 `json:"settled_rounds"`
	WorkerCount  int                 `json:"worker_count"`
	Quizzes      []QuizSettlementRow `json:"quizzes"`
}

type QuizSettlementRow struct {
	RoundID           string `json:"round_id"`
	QuizID            string `json:"quiz_id"`
	Status            string `json:"status"`
	WinnerCount       int    `json:"winner_count"`
	TotalPrizeAwarded int64  `json:"total_prize_awarded"`
	DurationMs        int64  `json:"duration_ms"`
	Message           string `json:"message,omitempty"`
}

// SettlementService scores submissions against graded questions and
// splits prize bracket pools. Result upserts are idempotent so the
// scheduler and the listener may both trigger the same quiz.
type SettlementService struct {
	roundRepo    round.Repository
	questionRepo question.Repository
	quizRepo     quiz.Repository
	cfg          SettlementConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewSettlementService(
	roundRepo round.Repository,
	questionRepo question.Repository,
	quizRepo quiz.Repository,
	cfg SettlementConfig,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinQualifyingCorrect <= 0 {
		cfg.MinQualifyingCorrect = defaultMinQualifyingCorrect
	}
	if cfg.PointsPerCorrect <= 0 {
		cfg.PointsPerCorrect = 1
	}

	return &SettlementService{
		roundRepo:    roundRepo,
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// SettleQuiz scores every submission of one quiz and upserts its result
// rows. Rerunning with unchanged inputs rewrites the same values.
func (s *SettlementService) SettleQuiz(ctx context.Context, quizID string) (SettlementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleQuiz")
	defer span.End()

	quizID = strings.TrimSpace(quizID)
	if quizID == "" {
		return SettlementResult{}, fmt.Errorf("%w: quiz id is required", ErrInvalidInput)
	}

	qz, exists, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("get quiz: %w", err)
	}
	if !exists {
		return SettlementResult{}, fmt.Errorf("%w: quiz=%s", ErrNotFound, quizID)
	}

	r, exists, err := s.roundRepo.GetByID(ctx, qz.RoundID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return SettlementResult{}, fmt.Errorf("%w: round=%s", ErrNotFound, qz.RoundID)
	}
	if s.now().Before(r.DeadlineAt) {
		return SettlementResult{}, fmt.Errorf("%w: round=%s deadline not reached", ErrQuizNotEligible, r.ID)
	}

	questions, err := s.questionRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list quiz questions: %w", err)
	}
	for _, q := range questions {
		if q.Kind.IsFuture() && q.Correct == nil {
			return SettlementResult{}, fmt.Errorf("%w: question=%s still ungraded", ErrQuizNotEligible, q.ID)
		}
	}

	submissions, err := s.quizRepo.ListSubmissions(ctx, quizID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list submissions: %w", err)
	}
	answers, err := s.quizRepo.ListAnswers(ctx, quizID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list answers: %w", err)
	}
	brackets, err := s.quizRepo.ListBrackets(ctx, quizID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list prize brackets: %w", err)
	}

	scored := scoreSubmissions(questions, submissions, answers, s.cfg.PointsPerCorrect)
	awardBrackets(scored, brackets, s.cfg.MinQualifyingCorrect)

	result := SettlementResult{
		QuizID:          quizID,
		RoundID:         qz.RoundID,
		SubmissionCount: len(scored),
	}
	for _, row := range scored {
		status := quiz.ResultStatusLost
		if row.prize > 0 {
			status = quiz.ResultStatusWon
			result.WinnerCount++
			result.TotalPrizeAwarded += row.prize
		}
		upsert := quiz.Result{
			SubmissionID:   row.submissionID,
			QuizID:         quizID,
			TotalCorrect:   row.totalCorrect,
			TotalQuestions: len(questions),
			Points:         row.points,
			Status:         status,
			PrizeAwarded:   row.prize,
		}
		if err := s.quizRepo.UpsertResult(ctx, upsert); err != nil {
			return SettlementResult{}, fmt.Errorf("upsert result submission=%s: %w", row.submissionID, err)
		}
	}

	s.logger.InfoContext(ctx, "quiz settled",
		"quiz_id", quizID,
		"round_id", qz.RoundID,
		"submissions", result.SubmissionCount,
		"winners", result.WinnerCount,
		"prize_awarded", result.TotalPrizeAwarded,
	)
	return result, nil
}

// SettleEligibleQuizzes fans settlement out over every quiz of every
// round whose deadline has passed. Ineligible quizzes are counted as
// skipped; a round moves to settled once none of its quizzes failed.
func (s *SettlementService) SettleEligibleQuizzes(ctx context.Context) (SettlementRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleEligibleQuizzes")
	defer span.End()

	rounds, err := s.roundRepo.ListDeadlinePassed(ctx, s.now())
	if err != nil {
		return SettlementRunResult{}, fmt.Errorf("list rounds past deadline: %w", err)
	}

	type task struct {
		roundID string
		quizID  string
	}
	tasks := make([]task, 0, len(rounds))
	for _, r := range rounds {
		quizzes, err := s.quizRepo.ListByRound(ctx, r.ID)
		if err != nil {
			return SettlementRunResult{}, fmt.Errorf("list quizzes round=%s: %w", r.ID, err)
		}
		for _, qz := range quizzes {
			tasks = append(tasks, task{roundID: r.ID, quizID: qz.ID})
		}
	}

	workerCount := normalizeSettlementWorkerCount(s.cfg.MaxWorkers, len(tasks))
	result := SettlementRunResult{
		RoundCount:  len(rounds),
		QuizCount:   len(tasks),
		WorkerCount: workerCount,
		Quizzes:     make([]QuizSettlementRow, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		return result, nil
	}

	rows := make(chan QuizSettlementRow, len(tasks))

	var settledCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SettlementRunResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, t := range tasks {
		t := t
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := QuizSettlementRow{RoundID: t.roundID, QuizID: t.quizID}

			settled, settleErr := s.SettleQuiz(ctx, t.quizID)
			row.DurationMs = time.Since(start).Milliseconds()
			switch {
			case settleErr == nil:
				row.Status = settleStatusSettled
				row.WinnerCount = settled.WinnerCount
				row.TotalPrizeAwarded = settled.TotalPrizeAwarded
				settledCount.Add(1)
			case errors.Is(settleErr, ErrQuizNotEligible):
				row.Status = settleStatusSkipped
				row.Message = settleErr.Error()
				skippedCount.Add(1)
			default:
				row.Status = settleStatusFailed
				row.Message = settleErr.Error()
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return SettlementRunResult{}, fmt.Errorf("submit quiz to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	failedRounds := make(map[string]bool)
	for row := range rows {
		result.Quizzes = append(result.Quizzes, row)
		if row.Status != settleStatusSettled {
			failedRounds[row.RoundID] = true
		}
	}

	sort.SliceStable(result.Quizzes, func(i, j int) bool {
		if result.Quizzes[i].RoundID != result.Quizzes[j].RoundID {
			return result.Quizzes[i].RoundID < result.Quizzes[j].RoundID
		}
		return result.Quizzes[i].QuizID < result.Quizzes[j].QuizID
	})

	result.SettledCount = int(settledCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.FailedCount = int(failedCount.Load())

	for _, r := range rounds {
		if failedRounds[r.ID] || r.Status == round.StatusSettled {
			continue
		}
		if err := s.roundRepo.UpdateStatus(ctx, r.ID, round.StatusSettled); err != nil {
			s.logger.WarnContext(ctx, "mark round settled failed",
				"round_id", r.ID,
				"error", err.Error(),
			)
			continue
		}
		result.SettledRound++
	}

	s.logger.InfoContext(ctx, "settlement run finished",
		"rounds", result.RoundCount,
		"quizzes", result.QuizCount,
		"settled", result.SettledCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

type scoredSubmission struct {
	submissionID string
	totalCorrect int
	points       int
	prize        int64
}

func scoreSubmissions(
	questions []question.Question,
	submissions []quiz.Submission,
	answers []quiz.Answer,
	pointsPerCorrect int,
) []*scoredSubmission {
	answersBySubmission := make(map[string]map[string]string, len(submissions))
	for _, a := range answers {
		byQuestion, ok := answersBySubmission[a.SubmissionID]
		if !ok {
			byQuestion = make(map[string]string)
			answersBySubmission[a.SubmissionID] = byQuestion
		}
		byQuestion[a.QuestionID] = a.Value
	}

	scored := make([]*scoredSubmission, 0, len(submissions))
	for _, sub := range submissions {
		row := &scoredSubmission{submissionID: sub.ID}
		byQuestion := answersBySubmission[sub.ID]
		for _, q := range questions {
			if q.Correct == nil {
				continue
			}
			if value, ok := byQuestion[q.ID]; ok && q.Correct.Matches(value) {
				row.totalCorrect++
			}
		}
		row.points = row.totalCorrect * pointsPerCorrect
		scored = append(scored, row)
	}
	return scored
}

// awardBrackets splits each bracket pool equally among the submissions
// whose total correct equals that bracket's exact threshold. Brackets
// below the qualifying minimum never pay; brackets with no exact match
// leave their pool unawarded. Shares truncate toward zero, so a pool
// that does not divide evenly keeps the remainder unawarded (pool 100,
// 3 winners: 33 each, 1 left over).
func awardBrackets(scored []*scoredSubmission, brackets []quiz.PrizeBracket, minQualifying int) {
	for _, bracket := range brackets {
		if bracket.CorrectAnswers < minQualifying || bracket.Pool <= 0 {
			continue
		}
		var winners []*scoredSubmission
		for _, row := range scored {
			if row.totalCorrect == bracket.CorrectAnswers {
				winners = append(winners, row)
			}
		}
		if len(winners) == 0 {
			continue
		}
		share := bracket.Pool / int64(len(winners))
		for _, row := range winners {
			row.prize += share
		}
	}
}

func normalizeSettlementWorkerCount(maxWorkers, taskCount int) int {
	if maxWorkers <= 0 {
		maxWorkers = defaultSettlementWorkers
	}
	if taskCount > 0 && maxWorkers > taskCount {
		maxWorkers = taskCount
	}
	return maxWorkers
}
