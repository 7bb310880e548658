package sportsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultBaseURL = "https://api.sportsfeed.io/v2"

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errFeedTransient = crerr.New("sportsfeed transient failure")
var errFeedNotFound = crerr.New("sportsfeed resource not found")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	// CacheTTL bounds how long a finished-events list is reused across
	// reconciliation passes. Zero disables the cache.
	CacheTTL       time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls finished events and single-event results from the feed's
// REST surface. One breaker and one in-flight group cover all calls.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	cache          *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	var store *cache.Store
	if cfg.CacheTTL > 0 {
		store = cache.NewStore(cfg.CacheTTL)
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          store,
	}
}

// FetchFinishedEvents lists the feed's finished events for one league.
func (c *Client) FetchFinishedEvents(ctx context.Context, leagueRefID int64) ([]usecase.FeedEvent, error) {
	if leagueRefID <= 0 {
		return nil, fmt.Errorf("league ref id must be greater than zero")
	}

	load := func(ctx context.Context) (any, error) {
		path := fmt.Sprintf("/leagues/%d/results", leagueRefID)
		var envelope eventsEnvelope
		if err := c.doJSON(ctx, path, map[string]string{"status": "finished"}, &envelope); err != nil {
			return nil, fmt.Errorf("fetch finished events league_ref_id=%d: %w", leagueRefID, err)
		}

		events := make([]usecase.FeedEvent, 0, len(envelope.Data))
		for _, item := range envelope.Data {
			if item.EventID <= 0 {
				continue
			}
			events = append(events, mapEventPayload(item, leagueRefID))
		}
		return events, nil
	}

	if c.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return out.([]usecase.FeedEvent), nil
	}

	key := fmt.Sprintf("finished-events:%d", leagueRefID)
	out, err := c.cache.GetOrLoad(ctx, key, load)
	if err != nil {
		return nil, err
	}
	events, ok := out.([]usecase.FeedEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return events, nil
}

// FetchEventResult looks up a single event by its feed id. A feed 404
// means the event is not published yet, not an error.
func (c *Client) FetchEventResult(ctx context.Context, eventRefID int64) (usecase.FeedEvent, bool, error) {
	if eventRefID <= 0 {
		return usecase.FeedEvent{}, false, fmt.Errorf("event ref id must be greater than zero")
	}

	path := fmt.Sprintf("/events/%d", eventRefID)
	var envelope eventEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		if stderrors.Is(err, errFeedNotFound) {
			return usecase.FeedEvent{}, false, nil
		}
		return usecase.FeedEvent{}, false, fmt.Errorf("fetch event result event_ref_id=%d: %w", eventRefID, err)
	}
	if envelope.Data.EventID <= 0 {
		return usecase.FeedEvent{}, false, nil
	}
	return mapEventPayload(envelope.Data, envelope.Data.LeagueID), true, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportsfeed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFeedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFeedTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFeedTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: status=404", errFeedNotFound)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "sportsfeed request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

type eventsEnvelope struct {
	Data []eventPayload `json:"data"`
}

type eventEnvelope struct {
	Data eventPayload `json:"data"`
}

type eventPayload struct {
	EventID   int64       `json:"eventId"`
	LeagueID  int64       `json:"leagueId"`
	HomeTeam  teamPayload `json:"homeTeam"`
	AwayTeam  teamPayload `json:"awayTeam"`
	HomeScore *int        `json:"homeScore"`
	AwayScore *int        `json:"awayScore"`
	StartTime string      `json:"startTime"`
	Round     string      `json:"round"`
	Status    string      `json:"status"`
}

type teamPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func mapEventPayload(item eventPayload, leagueRefID int64) usecase.FeedEvent {
	ev := usecase.FeedEvent{
		EventRefID:   item.EventID,
		LeagueRefID:  leagueRefID,
		HomeTeamName: strings.TrimSpace(item.HomeTeam.Name),
		AwayTeamName: strings.TrimSpace(item.AwayTeam.Name),
		HomeScore:    item.HomeScore,
		AwayScore:    item.AwayScore,
		Status:       strings.TrimSpace(item.Status),
		RoundLabel:   strings.TrimSpace(item.Round),
	}
	if parsed := parseFeedTime(item.StartTime); parsed != nil {
		ev.KickoffAt = *parsed
	}
	return ev
}

func parseFeedTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func isFeedCircuitFailure(err error) bool {
	return stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
