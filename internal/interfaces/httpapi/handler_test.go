package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/question"
	"github.com/riskibarqy/prediction-league/internal/domain/quiz"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func TestRequireInternalJobToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	protected := RequireInternalJobToken("secret", next)

	t.Run("rejects missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/reconcile", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/reconcile", nil)
		req.Header.Set("X-Internal-Job-Token", "guess")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("passes matching token through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/reconcile", nil)
		req.Header.Set("X-Internal-Job-Token", "secret")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("unavailable when token unset", func(t *testing.T) {
		unconfigured := RequireInternalJobToken("", next)
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/reconcile", nil)
		req.Header.Set("X-Internal-Job-Token", "secret")
		rec := httptest.NewRecorder()
		unconfigured.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestHandler_RunReconciliation_FeedDisabled(t *testing.T) {
	service := usecase.NewReconciliationService(
		nil,
		memory.NewLeagueRepository(nil),
		memory.NewRoundRepository(nil),
		memory.NewMatchRepository(nil),
		memory.NewQuestionRepository(nil, nil),
		nil,
		usecase.ReconciliationConfig{Enabled: false},
		logging.NewNop(),
	)
	handler := NewHandler(service, nil, logging.NewNop())

	mux := http.NewServeMux()
	registerInternalJobRoutes(mux, handler, "secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/reconcile", nil)
	req.Header.Set("X-Internal-Job-Token", "secret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when feed disabled, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_SettleQuiz_NotEligible(t *testing.T) {
	quizzes := []quiz.Quiz{{ID: "qz-open", RoundID: "rd-open", Title: "Open Quiz"}}
	rounds := []round.Round{{
		ID:         "rd-open",
		LeagueID:   "lg-1",
		Name:       "Open Round",
		DeadlineAt: time.Now().Add(24 * time.Hour),
		Status:     round.StatusPublished,
	}}
	questions := []question.Question{{
		ID:     "q-1",
		QuizID: "qz-open",
		Kind:   question.KindFutureOutcome,
		Text:   "Who wins?",
	}}

	service := usecase.NewSettlementService(
		memory.NewRoundRepository(rounds),
		memory.NewQuestionRepository(questions, quizzes),
		memory.NewQuizRepository(quizzes, nil, nil, nil),
		usecase.SettlementConfig{},
		logging.NewNop(),
	)
	handler := NewHandler(nil, service, logging.NewNop())

	mux := http.NewServeMux()
	registerInternalJobRoutes(mux, handler, "secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/settlement/quizzes/qz-open", nil)
	req.Header.Set("X-Internal-Job-Token", "secret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for not eligible quiz, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_SettleQuiz_Unknown(t *testing.T) {
	service := usecase.NewSettlementService(
		memory.NewRoundRepository(nil),
		memory.NewQuestionRepository(nil, nil),
		memory.NewQuizRepository(nil, nil, nil, nil),
		usecase.SettlementConfig{},
		logging.NewNop(),
	)
	handler := NewHandler(nil, service, logging.NewNop())

	mux := http.NewServeMux()
	registerInternalJobRoutes(mux, handler, "secret")

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/settlement/quizzes/missing", nil)
	req.Header.Set("X-Internal-Job-Token", "secret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown quiz, got %d: %s", rec.Code, rec.Body.String())
	}
}
