package question

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags what a prediction question asks about and therefore how its
// correct value is shaped and compared.
type Kind string

const (
	KindHistorySingle  Kind = "history_single"
	KindHistoryNumeric Kind = "history_numeric"
	KindFutureOutcome  Kind = "future_outcome"
	KindFutureScore    Kind = "future_score"
	KindFutureStat     Kind = "future_stat"
)

// Match outcome symbols used by future_outcome questions.
const (
	OutcomeHome = "1"
	OutcomeAway = "2"
	OutcomeDraw = "X"
)

func NormalizeKind(value string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(value)))
}

// IsFuture reports whether the kind depends on a not-yet-played match.
func (k Kind) IsFuture() bool {
	switch k {
	case KindFutureOutcome, KindFutureScore, KindFutureStat:
		return true
	default:
		return false
	}
}

// SettledByReconciliation reports whether reconciliation derives the
// correct value automatically from a match result. future_stat needs a
// manual grade (the feed carries no per-match stat detail we trust).
func (k Kind) SettledByReconciliation() bool {
	return k == KindFutureOutcome || k == KindFutureScore
}

// Question is one prediction inside a quiz. MatchID is set only for
// future kinds; Correct stays nil until graded and is never reset.
type Question struct {
	ID      string
	QuizID  string
	Kind    Kind
	Text    string
	MatchID string
	Correct *Correct
}

// Correct is the graded answer, a small tagged value: exactly one of
// Outcome, the Home/Away pair, or Number is meaningful depending on Kind.
type Correct struct {
	Kind    Kind
	Outcome string
	Home    int
	Away    int
	Number  float64
}

// OutcomeFromScore derives the 1/X/2 symbol from a final score.
func OutcomeFromScore(home, away int) string {
	switch {
	case home > away:
		return OutcomeHome
	case away > home:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Encode renders the correct value as the canonical text stored in the
// database: the outcome symbol, "home-away", or a decimal string.
func (c Correct) Encode() string {
	switch c.Kind {
	case KindFutureScore:
		return fmt.Sprintf("%d-%d", c.Home, c.Away)
	case KindHistoryNumeric, KindFutureStat:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return c.Outcome
	}
}

// DecodeCorrect parses a stored correct value back into its tagged form.
func DecodeCorrect(kind Kind, raw string) (Correct, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Correct{}, fmt.Errorf("correct value is empty")
	}

	switch kind {
	case KindFutureScore:
		home, away, err := parseScorePair(raw)
		if err != nil {
			return Correct{}, err
		}
		return Correct{Kind: kind, Home: home, Away: away}, nil
	case KindHistoryNumeric, KindFutureStat:
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Correct{}, fmt.Errorf("parse numeric correct value %q: %w", raw, err)
		}
		return Correct{Kind: kind, Number: number}, nil
	default:
		return Correct{Kind: kind, Outcome: strings.ToUpper(raw)}, nil
	}
}

// Matches compares a submitted free-form answer against the correct
// value using the per-kind equality rule: exact for symbols, structural
// for the score pair, numeric for number kinds.
func (c Correct) Matches(answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}

	switch c.Kind {
	case KindFutureScore:
		home, away, err := parseScorePair(answer)
		if err != nil {
			return false
		}
		return home == c.Home && away == c.Away
	case KindHistoryNumeric, KindFutureStat:
		number, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return false
		}
		return math.Abs(number-c.Number) < 1e-9
	default:
		return strings.EqualFold(answer, c.Outcome)
	}
}

func parseScorePair(raw string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid score pair %q, expected home-away", raw)
	}
	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid home score in %q: %w", raw, err)
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid away score in %q: %w", raw, err)
	}
	if home < 0 || away < 0 {
		return 0, 0, fmt.Errorf("score pair %q cannot be negative", raw)
	}
	return home, away, nil
}
