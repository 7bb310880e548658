package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type Handler struct {
	reconciliationService *usecase.ReconciliationService
	settlementService     *usecase.SettlementService
	logger                *logging.Logger
	validator             *validator.Validate
}

func NewHandler(
	reconciliationService *usecase.ReconciliationService,
	settlementService *usecase.SettlementService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		reconciliationService: reconciliationService,
		settlementService:     settlementService,
		logger:                logger,
		validator:             validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// RunReconciliation scans all pending future questions against the
// results feed and settles every match with a usable final result.
func (h *Handler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconciliation")
	defer span.End()

	if h.reconciliationService == nil {
		writeError(ctx, w, fmt.Errorf("%w: reconciliation service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.reconciliationService.SettlePendingFutureQuestions(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "reconciliation run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// SyncMatchResult reconciles a single match on demand, typically after
// the realtime listener reports the match finished.
func (h *Handler) SyncMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncMatchResult")
	defer span.End()

	if h.reconciliationService == nil {
		writeError(ctx, w, fmt.Errorf("%w: reconciliation service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	result, err := h.reconciliationService.SyncMatchResult(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync match result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSettlement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettlement")
	defer span.End()

	if h.settlementService == nil {
		writeError(ctx, w, fmt.Errorf("%w: settlement service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSettlementRunRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if strings.TrimSpace(req.RoundID) != "" {
		h.logger.InfoContext(ctx, "settlement run requested for round", "round_id", req.RoundID)
	}

	result, err := h.settlementService.SettleEligibleQuizzes(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "settlement run failed", "round_id", req.RoundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SettleQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleQuiz")
	defer span.End()

	if h.settlementService == nil {
		writeError(ctx, w, fmt.Errorf("%w: settlement service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	quizID := strings.TrimSpace(r.PathValue("quizID"))
	result, err := h.settlementService.SettleQuiz(ctx, quizID)
	if err != nil {
		h.logger.WarnContext(ctx, "settle quiz failed", "quiz_id", quizID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// settlementRunRequest is the optional body posted by the job queue; an
// empty body settles everything eligible.
type settlementRunRequest struct {
	RoundID string `json:"roundId" validate:"omitempty,max=128"`
}

func decodeSettlementRunRequest(r *http.Request) (settlementRunRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req settlementRunRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return settlementRunRequest{}, nil
		}
		return settlementRunRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
