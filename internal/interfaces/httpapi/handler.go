package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/usecase"
)

// JobRunner starts crawler jobs on behalf of the internal job routes.
type JobRunner interface {
	// TriggerCrawl starts a crawl in the background and returns once it is accepted.
	TriggerCrawl(ctx context.Context) error
	LastCrawl() (usecase.CrawlResult, bool)
	SyncReferenceData(ctx context.Context) (usecase.ReferenceSyncResult, error)
}

// ReadinessChecker reports whether the store behind the crawler is reachable.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	jobs    JobRunner
	ready   ReadinessChecker
	metrics http.Handler
	logger  *logging.Logger
}

func NewHandler(jobs JobRunner, ready ReadinessChecker, metrics http.Handler, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		jobs:    jobs,
		ready:   ready,
		metrics: metrics,
		logger:  logger,
	}
}

type crawlResultDTO struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationMS      int64     `json:"duration_ms"`
	WindowStart     time.Time `json:"window_start"`
	WindowEnd       time.Time `json:"window_end"`
	Pages           int       `json:"pages"`
	Players         int       `json:"players"`
	Discovered      int       `json:"discovered"`
	Fetched         int       `json:"fetched"`
	FetchFailed     int       `json:"fetch_failed"`
	Rejected        int       `json:"rejected"`
	Excluded        int       `json:"excluded"`
	Written         int       `json:"written"`
	FailedUnits     int       `json:"failed_units"`
	AggregatesFresh bool      `json:"aggregates_fresh"`
}

func crawlResultToDTO(result usecase.CrawlResult) crawlResultDTO {
	return crawlResultDTO{
		RunID:           result.RunID,
		StartedAt:       result.StartedAt,
		DurationMS:      result.Duration.Milliseconds(),
		WindowStart:     result.Window.Start,
		WindowEnd:       result.Window.End,
		Pages:           result.Pages,
		Players:         result.Players,
		Discovered:      result.Discovered,
		Fetched:         result.Fetched,
		FetchFailed:     result.FetchFailed,
		Rejected:        result.Rejected,
		Excluded:        result.Excluded,
		Written:         result.Written,
		FailedUnits:     result.FailedUnits,
		AggregatesFresh: result.AggregatesFresh,
	}
}

type referenceSyncDTO struct {
	Patches     int    `json:"patches"`
	Champions   int    `json:"champions"`
	Queues      int    `json:"queues"`
	LatestPatch string `json:"latest_patch"`
}
