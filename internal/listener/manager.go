package listener

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/question"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
	"github.com/sourcegraph/conc"
)

const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultLivenessTimeout   = 90 * time.Second
	defaultRefreshInterval   = 5 * time.Minute
	defaultReconnectMin      = 2 * time.Second
	defaultReconnectMax      = 60 * time.Second

	inboundTypeStatusUpdate = "updatedEventStatus"
)

// defaultFinishedStatusCodes are the gateway status codes that mean a
// match has finished (full time, after extra time, after penalties).
var defaultFinishedStatusCodes = []int{3, 5, 100}

// Conn is one open gateway connection. ReadMessage blocks until a
// message arrives or the connection dies; Close unblocks it.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}

type Gateway interface {
	Dial(ctx context.Context) (Conn, error)
}

type ResultSyncer interface {
	SyncMatchResult(ctx context.Context, matchID string) (usecase.ReconciliationResult, error)
}

type QuizSettler interface {
	SettleEligibleQuizzes(ctx context.Context) (usecase.SettlementRunResult, error)
}

type Config struct {
	HeartbeatInterval time.Duration
	// LivenessTimeout is checked on the heartbeat tick, so a dead
	// connection is noticed up to one HeartbeatInterval after the
	// timeout elapses.
	LivenessTimeout     time.Duration
	RefreshInterval     time.Duration
	ReconnectMin        time.Duration
	ReconnectMax        time.Duration
	FinishedStatusCodes []int
}

func normalizeConfig(cfg Config) Config {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	if cfg.LivenessTimeout <= 0 {
		cfg.LivenessTimeout = defaultLivenessTimeout
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.ReconnectMin <= 0 {
		cfg.ReconnectMin = defaultReconnectMin
	}
	if cfg.ReconnectMax < cfg.ReconnectMin {
		cfg.ReconnectMax = defaultReconnectMax
	}
	if len(cfg.FinishedStatusCodes) == 0 {
		cfg.FinishedStatusCodes = defaultFinishedStatusCodes
	}
	return cfg
}

// Manager keeps one gateway connection alive, tracks the event ids the
// pending questions care about, and turns finished-status pushes into a
// single-match sync plus a settlement pass. One instance per process.
type Manager struct {
	gateway      Gateway
	questionRepo question.Repository
	matchRepo    match.Repository
	syncer       ResultSyncer
	settler      QuizSettler
	cfg          Config
	logger       *logging.Logger
	now          func() time.Time
	wait         func(ctx context.Context, d time.Duration) error

	tracked       map[int64]string
	finishedCodes map[int]struct{}
}

func NewManager(
	gateway Gateway,
	questionRepo question.Repository,
	matchRepo match.Repository,
	syncer ResultSyncer,
	settler QuizSettler,
	cfg Config,
	logger *logging.Logger,
) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	cfg = normalizeConfig(cfg)

	finishedCodes := make(map[int]struct{}, len(cfg.FinishedStatusCodes))
	for _, code := range cfg.FinishedStatusCodes {
		finishedCodes[code] = struct{}{}
	}

	return &Manager{
		gateway:       gateway,
		questionRepo:  questionRepo,
		matchRepo:     matchRepo,
		syncer:        syncer,
		settler:       settler,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
		wait:          waitReconnectDelay,
		tracked:       make(map[int64]string),
		finishedCodes: finishedCodes,
	}
}

func waitReconnectDelay(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run connects and reconnects until the context ends. The reconnect
// delay doubles per failed attempt up to the ceiling and drops back to
// the floor after any successful connect.
func (m *Manager) Run(ctx context.Context) error {
	delay := m.cfg.ReconnectMin
	for {
		connected, err := m.runSession(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			delay = m.cfg.ReconnectMin
		}
		m.logger.WarnContext(ctx, "gateway session ended, reconnecting",
			"connected", connected,
			"delay", delay.String(),
			"error", fmt.Sprint(err),
		)

		if waitErr := m.wait(ctx, delay); waitErr != nil {
			return waitErr
		}
		if !connected {
			delay = nextReconnectDelay(delay, m.cfg.ReconnectMax)
		}
	}
}

func nextReconnectDelay(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		next = max
	}
	return next
}

// runSession owns one connection from dial to close. The bool reports
// whether the dial itself succeeded, which drives the backoff reset.
func (m *Manager) runSession(ctx context.Context) (bool, error) {
	conn, err := m.gateway.Dial(ctx)
	if err != nil {
		return false, fmt.Errorf("dial gateway: %w", err)
	}
	defer conn.Close()
	m.logger.InfoContext(ctx, "gateway connected")

	// Tracked subscriptions are per connection; the desired set is
	// rebuilt from storage right after connecting.
	m.tracked = make(map[int64]string)
	lastInbound := m.now()

	if err := m.refreshSubscriptions(ctx, conn); err != nil {
		m.logger.WarnContext(ctx, "initial subscription refresh failed", "error", err.Error())
	}

	sessionDone := make(chan struct{})
	inbound := make(chan []byte, 16)
	readErrs := make(chan error, 1)

	var readers conc.WaitGroup
	defer func() {
		// Closing the conn unblocks ReadMessage; sessionDone releases
		// any pending channel send before the wait.
		_ = conn.Close()
		close(sessionDone)
		readers.Wait()
	}()

	readers.Go(func() {
		for {
			payload, readErr := conn.ReadMessage()
			if readErr != nil {
				select {
				case readErrs <- readErr:
				case <-sessionDone:
				}
				return
			}
			select {
			case inbound <- payload:
			case <-sessionDone:
				return
			}
		}
	})

	heartbeat := time.NewTicker(m.cfg.HeartbeatInterval)
	defer heartbeat.Stop()
	refresh := time.NewTicker(m.cfg.RefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case readErr := <-readErrs:
			return true, fmt.Errorf("read gateway message: %w", readErr)
		case payload := <-inbound:
			lastInbound = m.now()
			m.handleMessage(ctx, payload)
		case <-heartbeat.C:
			if gap := m.now().Sub(lastInbound); gap > m.cfg.LivenessTimeout {
				return true, fmt.Errorf("no inbound traffic for %s, forcing reconnect", gap.Truncate(time.Second))
			}
			if err := conn.WriteJSON(pingMessage{Action: "ping"}); err != nil {
				return true, fmt.Errorf("send ping: %w", err)
			}
		case <-refresh.C:
			if err := m.refreshSubscriptions(ctx, conn); err != nil {
				m.logger.WarnContext(ctx, "subscription refresh failed", "error", err.Error())
			}
		}
	}
}

// handleMessage inspects one inbound payload. Liveness is already
// credited by the caller; only tracked finished-status updates act.
func (m *Manager) handleMessage(ctx context.Context, payload []byte) {
	text := strings.TrimSpace(string(payload))
	if text == "" || text == "pong" {
		return
	}

	var msg inboundMessage
	if err := sonic.Unmarshal([]byte(text), &msg); err != nil {
		m.logger.DebugContext(ctx, "ignoring undecodable gateway message", "error", err.Error())
		return
	}
	if msg.Type != inboundTypeStatusUpdate || msg.EventID <= 0 {
		return
	}

	matchID, isTracked := m.tracked[msg.EventID]
	if !isTracked {
		return
	}
	code, ok := msg.statusCode()
	if !ok {
		return
	}
	if _, finished := m.finishedCodes[code]; !finished {
		return
	}

	m.logger.InfoContext(ctx, "tracked event finished",
		"event_ref_id", msg.EventID,
		"match_id", matchID,
		"status_code", code,
	)

	if _, err := m.syncer.SyncMatchResult(ctx, matchID); err != nil {
		m.logger.WarnContext(ctx, "single-match sync failed", "match_id", matchID, "error", err.Error())
	}
	if _, err := m.settler.SettleEligibleQuizzes(ctx); err != nil {
		m.logger.WarnContext(ctx, "settlement pass failed", "match_id", matchID, "error", err.Error())
	}
	delete(m.tracked, msg.EventID)
}

// refreshSubscriptions re-derives the desired event set from pending
// questions, subscribes new ids, and forgets stale ones locally. The
// protocol has no unsubscribe, so stale ids are only dropped from the
// map.
func (m *Manager) refreshSubscriptions(ctx context.Context, conn Conn) error {
	desired, err := m.desiredSubscriptions(ctx)
	if err != nil {
		return err
	}

	newIDs := make([]int64, 0, len(desired))
	for eventRefID := range desired {
		if _, ok := m.tracked[eventRefID]; !ok {
			newIDs = append(newIDs, eventRefID)
		}
	}
	sort.Slice(newIDs, func(i, j int) bool { return newIDs[i] < newIDs[j] })

	for _, eventRefID := range newIDs {
		sub := subscribeMessage{
			Action:    "subscribe",
			EventType: "match_updates",
			EventID:   eventRefID,
		}
		if err := conn.WriteJSON(sub); err != nil {
			return fmt.Errorf("subscribe event_ref_id=%d: %w", eventRefID, err)
		}
		m.tracked[eventRefID] = desired[eventRefID]
	}

	for eventRefID := range m.tracked {
		if _, ok := desired[eventRefID]; !ok {
			delete(m.tracked, eventRefID)
		}
	}

	m.logger.InfoContext(ctx, "subscriptions refreshed",
		"tracked", len(m.tracked),
		"subscribed", len(newIDs),
	)
	return nil
}

func (m *Manager) desiredSubscriptions(ctx context.Context) (map[int64]string, error) {
	questions, err := m.questionRepo.ListPendingFuture(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending future questions: %w", err)
	}

	matchIDSet := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if q.MatchID != "" {
			matchIDSet[q.MatchID] = struct{}{}
		}
	}
	if len(matchIDSet) == 0 {
		return map[int64]string{}, nil
	}

	matchIDs := make([]string, 0, len(matchIDSet))
	for matchID := range matchIDSet {
		matchIDs = append(matchIDs, matchID)
	}
	sort.Strings(matchIDs)

	matches, err := m.matchRepo.ListByIDs(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	desired := make(map[int64]string, len(matches))
	for _, item := range matches {
		if item.FeedEventRefID > 0 && !item.HasResult() {
			desired[item.FeedEventRefID] = item.ID
		}
	}
	return desired, nil
}

type subscribeMessage struct {
	Action    string `json:"action"`
	EventType string `json:"eventType"`
	EventID   int64  `json:"eventId"`
}

type pingMessage struct {
	Action string `json:"action"`
}

type inboundMessage struct {
	Type         string `json:"type"`
	EventID      int64  `json:"eventId"`
	StatusTypeID *int   `json:"statusTypeId"`
	StatusID     *int   `json:"statusId"`
	Status       *int   `json:"status"`
}

// statusCode folds the three status field spellings the gateway uses.
func (msg inboundMessage) statusCode() (int, bool) {
	for _, value := range []*int{msg.StatusTypeID, msg.StatusID, msg.Status} {
		if value != nil {
			return *value, true
		}
	}
	return 0, false
}
