package memory

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/question"
	"github.com/riskibarqy/prediction-league/internal/domain/quiz"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

const (
	LeagueIDPremierLeague = "eng-premier-league-2026"
	LeagueIDLaLiga        = "esp-la-liga-2026"

	RoundIDPremierWeek1 = "epl-2026-week-01"
	RoundIDLaLigaWeek1  = "laliga-2026-week-01"
)

func seedKickoff(offset time.Duration) time.Time {
	return time.Now().UTC().Add(offset).Truncate(time.Minute)
}

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:        LeagueIDPremierLeague,
			Name:      "Premier League",
			Code:      "epl",
			FeedRefID: 8,
		},
		{
			ID:        LeagueIDLaLiga,
			Name:      "La Liga",
			Code:      "laliga",
			FeedRefID: 564,
		},
	}
}

func SeedRounds() []round.Round {
	return []round.Round{
		{
			ID:         RoundIDPremierWeek1,
			LeagueID:   LeagueIDPremierLeague,
			Name:       "Matchweek 1",
			DeadlineAt: seedKickoff(-2 * time.Hour),
			Status:     round.StatusPublished,
		},
		{
			ID:         RoundIDLaLigaWeek1,
			LeagueID:   LeagueIDLaLiga,
			Name:       "Jornada 1",
			DeadlineAt: seedKickoff(46 * time.Hour),
			Status:     round.StatusPublished,
		},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:        "epl-m-001",
			RoundID:   RoundIDPremierWeek1,
			HomeTeam:  "Arsenal",
			AwayTeam:  "Chelsea",
			KickoffAt: seedKickoff(-90 * time.Minute),
			Status:    match.StatusScheduled,
		},
		{
			ID:        "epl-m-002",
			RoundID:   RoundIDPremierWeek1,
			HomeTeam:  "Liverpool",
			AwayTeam:  "Everton",
			KickoffAt: seedKickoff(-30 * time.Minute),
			Status:    match.StatusScheduled,
		},
		{
			ID:        "laliga-m-001",
			RoundID:   RoundIDLaLigaWeek1,
			HomeTeam:  "Real Madrid",
			AwayTeam:  "Sevilla",
			KickoffAt: seedKickoff(48 * time.Hour),
			Status:    match.StatusScheduled,
		},
	}
}

func SeedQuizzes() []quiz.Quiz {
	return []quiz.Quiz{
		{ID: "epl-quiz-week-01", RoundID: RoundIDPremierWeek1, Title: "Matchweek 1 Predictions"},
		{ID: "laliga-quiz-week-01", RoundID: RoundIDLaLigaWeek1, Title: "Jornada 1 Predictions"},
	}
}

func SeedQuestions() []question.Question {
	return []question.Question{
		{
			ID:      "epl-q-001",
			QuizID:  "epl-quiz-week-01",
			Kind:    question.KindFutureOutcome,
			Text:    "Who wins Arsenal vs Chelsea?",
			MatchID: "epl-m-001",
		},
		{
			ID:      "epl-q-002",
			QuizID:  "epl-quiz-week-01",
			Kind:    question.KindFutureScore,
			Text:    "Final score of Arsenal vs Chelsea?",
			MatchID: "epl-m-001",
		},
		{
			ID:      "epl-q-003",
			QuizID:  "epl-quiz-week-01",
			Kind:    question.KindFutureOutcome,
			Text:    "Who wins the Merseyside derby?",
			MatchID: "epl-m-002",
		},
		{
			ID:     "epl-q-004",
			QuizID: "epl-quiz-week-01",
			Kind:   question.KindHistorySingle,
			Text:   "Which club won the 2025/26 FA Cup?",
			Correct: &question.Correct{
				Kind:    question.KindHistorySingle,
				Outcome: "Arsenal",
			},
		},
		{
			ID:      "laliga-q-001",
			QuizID:  "laliga-quiz-week-01",
			Kind:    question.KindFutureOutcome,
			Text:    "Who wins Real Madrid vs Sevilla?",
			MatchID: "laliga-m-001",
		},
	}
}

func SeedSubmissions() []quiz.Submission {
	return []quiz.Submission{
		{ID: "sub-001", QuizID: "epl-quiz-week-01", UserID: "user-ayu", SubmittedAt: seedKickoff(-6 * time.Hour)},
		{ID: "sub-002", QuizID: "epl-quiz-week-01", UserID: "user-bima", SubmittedAt: seedKickoff(-5 * time.Hour)},
		{ID: "sub-003", QuizID: "epl-quiz-week-01", UserID: "user-citra", SubmittedAt: seedKickoff(-4 * time.Hour)},
	}
}

func SeedAnswers() []quiz.Answer {
	return []quiz.Answer{
		{SubmissionID: "sub-001", QuestionID: "epl-q-001", Value: "1"},
		{SubmissionID: "sub-001", QuestionID: "epl-q-002", Value: "2-1"},
		{SubmissionID: "sub-001", QuestionID: "epl-q-003", Value: "X"},
		{SubmissionID: "sub-001", QuestionID: "epl-q-004", Value: "Arsenal"},
		{SubmissionID: "sub-002", QuestionID: "epl-q-001", Value: "2"},
		{SubmissionID: "sub-002", QuestionID: "epl-q-002", Value: "0-2"},
		{SubmissionID: "sub-002", QuestionID: "epl-q-003", Value: "1"},
		{SubmissionID: "sub-002", QuestionID: "epl-q-004", Value: "Chelsea"},
		{SubmissionID: "sub-003", QuestionID: "epl-q-001", Value: "1"},
		{SubmissionID: "sub-003", QuestionID: "epl-q-002", Value: "3-0"},
		{SubmissionID: "sub-003", QuestionID: "epl-q-003", Value: "1"},
		{SubmissionID: "sub-003", QuestionID: "epl-q-004", Value: "Arsenal"},
	}
}

func SeedPrizeBrackets() []quiz.PrizeBracket {
	return []quiz.PrizeBracket{
		{ID: "epl-bracket-5", QuizID: "epl-quiz-week-01", CorrectAnswers: 5, Pool: 500000},
		{ID: "epl-bracket-6", QuizID: "epl-quiz-week-01", CorrectAnswers: 6, Pool: 1000000},
		{ID: "laliga-bracket-5", QuizID: "laliga-quiz-week-01", CorrectAnswers: 5, Pool: 250000},
	}
}
