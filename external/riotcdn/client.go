// Package riotcdn reads static reference data published by community CDNs.
package riotcdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/platform/resilience"
	"github.com/riskibarqy/statikk-crawler/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultPatchesURL   = "https://cdn.merakianalytics.com/riot/lol/resources/patches.json"
	DefaultChampionsURL = "https://cdn.merakianalytics.com/riot/lol/resources/latest/en-US/champions.json"
	DefaultQueuesURL    = "https://raw.communitydragon.org/latest/plugins/rcp-be-lol-game-data/global/default/v1/queues.json"

	maxResponseBytes = 32 << 20
)

type ClientConfig struct {
	HTTPClient   *http.Client
	PatchesURL   string
	ChampionsURL string
	QueuesURL    string
	Timeout      time.Duration
	Retry        resilience.RetryPolicy
	Logger       *logging.Logger
}

// Client implements usecase.ReferenceDataProvider.
type Client struct {
	httpClient   *http.Client
	patchesURL   string
	championsURL string
	queuesURL    string
	retry        resilience.RetryPolicy
	logger       *logging.Logger
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
		httpClient.Timeout = 30 * time.Second
	}

	retry := cfg.Retry
	if retry.Attempts < 1 {
		retry = resilience.DefaultRetryPolicy()
	}
	if retry.Retryable == nil {
		retry.Retryable = usecase.IsRetryable
	}

	return &Client{
		httpClient:   httpClient,
		patchesURL:   firstNonEmpty(cfg.PatchesURL, DefaultPatchesURL),
		championsURL: firstNonEmpty(cfg.ChampionsURL, DefaultChampionsURL),
		queuesURL:    firstNonEmpty(cfg.QueuesURL, DefaultQueuesURL),
		retry:        retry,
		logger:       logger,
	}
}

type patchesDocument struct {
	Patches []struct {
		Name  string `json:"name"`
		Start int64  `json:"start"`
	} `json:"patches"`
}

type championDocument struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type queueDocument struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

func (c *Client) FetchPatches(ctx context.Context) ([]patch.Patch, error) {
	var doc patchesDocument
	if err := c.getJSON(ctx, c.patchesURL, &doc); err != nil {
		return nil, fmt.Errorf("fetch patches: %w", err)
	}
	if len(doc.Patches) == 0 {
		return nil, fmt.Errorf("fetch patches: %w: empty patch list", usecase.ErrUpstreamTransient)
	}

	out := make([]patch.Patch, 0, len(doc.Patches))
	for _, item := range doc.Patches {
		out = append(out, patch.Patch{
			Version: strings.TrimSpace(item.Name),
			StartAt: time.Unix(item.Start, 0).UTC(),
		})
	}
	return out, nil
}

func (c *Client) FetchChampions(ctx context.Context) ([]catalog.Champion, error) {
	var doc map[string]championDocument
	if err := c.getJSON(ctx, c.championsURL, &doc); err != nil {
		return nil, fmt.Errorf("fetch champions: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("fetch champions: %w: empty champion list", usecase.ErrUpstreamTransient)
	}

	out := make([]catalog.Champion, 0, len(doc))
	for key, item := range doc {
		out = append(out, catalog.Champion{ID: item.ID, Name: firstNonEmpty(item.Name, key)})
	}
	return out, nil
}

func (c *Client) FetchQueues(ctx context.Context) ([]catalog.Queue, error) {
	var doc []queueDocument
	if err := c.getJSON(ctx, c.queuesURL, &doc); err != nil {
		return nil, fmt.Errorf("fetch queues: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("fetch queues: %w: empty queue list", usecase.ErrUpstreamTransient)
	}

	out := make([]catalog.Queue, 0, len(doc))
	for _, item := range doc {
		out = append(out, catalog.Queue{ID: item.ID, Name: firstNonEmpty(item.ShortName, item.Name)})
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, target any) error {
	raw, err := resilience.RetryValue(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.executeRequest(ctx, rawURL)
	})
	if err != nil {
		c.logger.WarnContext(ctx, "reference data request failed", "url", rawURL, "error", err)
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", usecase.ErrInvalidInput, err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: send request: %v", usecase.ErrUpstreamTransient, err)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", usecase.ErrUpstreamTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return append([]byte(nil), buf.B...), nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: status=%d", usecase.ErrNotFound, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status=%d", usecase.ErrUpstreamTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: unexpected status=%d", usecase.ErrInvalidInput, resp.StatusCode)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
