package question

import "testing"

func TestOutcomeFromScore(t *testing.T) {
	cases := []struct {
		home, away int
		want       string
	}{
		{2, 1, OutcomeHome},
		{0, 3, OutcomeAway},
		{1, 1, OutcomeDraw},
	}
	for _, tc := range cases {
		if got := OutcomeFromScore(tc.home, tc.away); got != tc.want {
			t.Fatalf("OutcomeFromScore(%d, %d) = %q, want %q", tc.home, tc.away, got, tc.want)
		}
	}
}

func TestCorrectEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Correct{
		{Kind: KindFutureOutcome, Outcome: OutcomeDraw},
		{Kind: KindFutureScore, Home: 3, Away: 2},
		{Kind: KindHistoryNumeric, Number: 17},
		{Kind: KindFutureStat, Number: 2.5},
	}
	for _, want := range cases {
		got, err := DecodeCorrect(want.Kind, want.Encode())
		if err != nil {
			t.Fatalf("DecodeCorrect(%s, %q): %v", want.Kind, want.Encode(), err)
		}
		if got != want {
			t.Fatalf("round trip for %s: got %+v, want %+v", want.Kind, got, want)
		}
	}
}

func TestDecodeCorrectRejectsBadValues(t *testing.T) {
	if _, err := DecodeCorrect(KindFutureScore, "3:2"); err == nil {
		t.Fatal("expected error for score without dash separator")
	}
	if _, err := DecodeCorrect(KindFutureScore, "-1-2"); err == nil {
		t.Fatal("expected error for negative score")
	}
	if _, err := DecodeCorrect(KindHistoryNumeric, "many"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	if _, err := DecodeCorrect(KindFutureOutcome, "  "); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestCorrectMatches(t *testing.T) {
	outcome := Correct{Kind: KindFutureOutcome, Outcome: OutcomeHome}
	if !outcome.Matches("1") {
		t.Fatal("outcome should match its own symbol")
	}
	if outcome.Matches("X") {
		t.Fatal("outcome should not match a different symbol")
	}

	score := Correct{Kind: KindFutureScore, Home: 2, Away: 0}
	if !score.Matches(" 2-0 ") {
		t.Fatal("score should match with surrounding whitespace")
	}
	if score.Matches("0-2") {
		t.Fatal("score match must not be symmetric")
	}

	stat := Correct{Kind: KindFutureStat, Number: 11}
	if !stat.Matches("11.0") {
		t.Fatal("numeric match should accept equivalent decimal forms")
	}
	if stat.Matches("eleven") {
		t.Fatal("numeric match should reject unparsable answers")
	}
}

func TestKindClassification(t *testing.T) {
	if KindHistorySingle.IsFuture() {
		t.Fatal("history kind must not be future")
	}
	if !KindFutureScore.IsFuture() || !KindFutureStat.IsFuture() {
		t.Fatal("future kinds must report future")
	}
	if KindFutureStat.SettledByReconciliation() {
		t.Fatal("future_stat is graded manually")
	}
	if !KindFutureOutcome.SettledByReconciliation() {
		t.Fatal("future_outcome is graded by reconciliation")
	}
}
