// Package riot talks to the League of Legends league-exp and match-v5 APIs.
package riot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/platform/resilience"
	"github.com/riskibarqy/statikk-crawler/internal/platform/tracing"
	"github.com/riskibarqy/statikk-crawler/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultHostTemplate = "https://%s.api.riotgames.com"
	defaultQueue        = ladder.QueueRankedSolo
	maxResponseBytes    = 8 << 20
)

var riotTracer = tracing.New("statikk-crawler/external/riot", nil)

type ClientConfig struct {
	HTTPClient *http.Client
	// HostTemplate receives the lower-cased platform or route, e.g. "na1" or "americas".
	HostTemplate   string
	APIKey         string
	Timeout        time.Duration
	Queue          string
	Routes         ladder.RouteMap
	RateLimits     []RateLimit
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client implements usecase.LadderProvider and usecase.MatchProvider.
type Client struct {
	httpClient   *http.Client
	hostTemplate string
	apiKey       string
	queue        string
	routes       ladder.RouteMap
	limiter      *rateLimiter
	logger       *logging.Logger
	breakers     *resilience.BreakerGroup
	flight       resilience.SingleFlight[[]byte]
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

	hostTemplate := strings.TrimRight(strings.TrimSpace(cfg.HostTemplate), "/")
	if hostTemplate == "" {
		hostTemplate = defaultHostTemplate
	}
	queue := strings.TrimSpace(cfg.Queue)
	if queue == "" {
		queue = defaultQueue
	}
	routes := cfg.Routes
	if len(routes) == 0 {
		routes = ladder.DefaultRouteMap()
	}
	limits := cfg.RateLimits
	if limits == nil {
		limits = DefaultRateLimits()
	}

	return &Client{
		httpClient:   httpClient,
		hostTemplate: hostTemplate,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		queue:        queue,
		routes:       routes,
		limiter:      newRateLimiter(limits),
		logger:       logger,
		breakers:     cfg.CircuitBreaker.Build(),
	}
}

func (c *Client) ListLadder(ctx context.Context, region ladder.Region, pair ladder.Pair, page int) ([]ladder.PlayerEntry, error) {
	if page < 1 {
		page = 1
	}
	path := fmt.Sprintf("/lol/league-exp/v4/entries/%s/%s/%s",
		url.PathEscape(c.queue), url.PathEscape(string(pair.Tier)), url.PathEscape(string(pair.Division)))
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var items []leagueEntry
	if err := c.doJSON(ctx, platformHost(region), path, query, &items); err != nil {
		return nil, fmt.Errorf("list ladder region=%s bracket=%s page=%d: %w", region, pair, page, err)
	}
	return mapLeagueEntries(items, pair), nil
}

func (c *Client) ListMatchIDs(ctx context.Context, region ladder.Region, puuid string, query usecase.MatchIDQuery) ([]string, error) {
	route, ok := c.routes.Route(region)
	if !ok {
		return nil, fmt.Errorf("%w: no route for region=%s", usecase.ErrInvalidInput, region)
	}
	puuid = strings.TrimSpace(puuid)
	if puuid == "" {
		return nil, fmt.Errorf("%w: puuid is required", usecase.ErrInvalidInput)
	}

	values := url.Values{}
	if !query.Start.IsZero() {
		values.Set("startTime", strconv.FormatInt(query.Start.Unix(), 10))
	}
	if !query.End.IsZero() {
		values.Set("endTime", strconv.FormatInt(query.End.Unix(), 10))
	}
	if query.QueueID > 0 {
		values.Set("queue", strconv.Itoa(query.QueueID))
	}
	values.Set("start", "0")
	if query.Count > 0 {
		values.Set("count", strconv.Itoa(query.Count))
	}

	var ids []string
	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	if err := c.doJSON(ctx, routeHost(route), path, values, &ids); err != nil {
		return nil, fmt.Errorf("list match ids region=%s: %w", region, err)
	}
	return ids, nil
}

func (c *Client) GetMatch(ctx context.Context, region ladder.Region, matchID string) (usecase.ExternalMatch, error) {
	route, ok := c.routes.Route(region)
	if !ok {
		return usecase.ExternalMatch{}, fmt.Errorf("%w: no route for region=%s", usecase.ErrInvalidInput, region)
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.ExternalMatch{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	var payload matchResponse
	if err := c.doJSON(ctx, routeHost(route), "/lol/match/v5/matches/"+url.PathEscape(matchID), nil, &payload); err != nil {
		return usecase.ExternalMatch{}, fmt.Errorf("get match id=%s: %w", matchID, err)
	}
	return mapMatch(payload), nil
}

func (c *Client) doJSON(ctx context.Context, host, path string, query url.Values, target any) error {
	fullURL := fmt.Sprintf(c.hostTemplate, host) + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	ctx, span := riotTracer.Child(ctx, "riot.Client.doJSON", trace.WithAttributes(attribute.String("riot.host", host)))
	defer span.End()

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		var out []byte
		err := c.breakers.Guard(host, func() error {
			var reqErr error
			out, reqErr = c.executeRequest(ctx, host, fullURL)
			return reqErr
		}, isCircuitFailure)
		return out, err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "riot circuit breaker rejected request", "host", host, "state", c.breakers.State(host))
		return fmt.Errorf("%w: riot api is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "riot request failed")
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode riot payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, host, fullURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, host); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: send request: %s", usecase.ErrUpstreamTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", usecase.ErrUpstreamTransient, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return append([]byte(nil), buf.B...), nil
	}

	statusErr := fmt.Errorf("riot status=%d url=%s body=%s", resp.StatusCode, fullURL, abbreviateBody(buf.B))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w", usecase.ErrNotFound, statusErr)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.ErrorContext(ctx, "riot api key rejected", "status", resp.StatusCode, "host", host)
		return nil, fmt.Errorf("%w: %w", usecase.ErrUnauthorized, statusErr)
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		c.limiter.Penalize(host, retryAfter)
		c.logger.WarnContext(ctx, "riot rate limit hit", "host", host, "retry_after", retryAfter.String())
		return nil, fmt.Errorf("%w: %w", usecase.ErrUpstreamTransient, statusErr)
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: %w", usecase.ErrUpstreamTransient, statusErr)
	default:
		return nil, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, statusErr)
	}
}

func platformHost(region ladder.Region) string {
	return strings.ToLower(strings.TrimSpace(string(region)))
}

func routeHost(route ladder.Route) string {
	return strings.ToLower(strings.TrimSpace(string(route)))
}

func parseRetryAfter(raw string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds <= 0 {
		return time.Second
	}
	return time.Duration(seconds) * time.Second
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, usecase.ErrUpstreamTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
