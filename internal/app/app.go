// Package app wires configuration, stores, upstream clients and services into a runnable crawler.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/statikk-crawler/external/riot"
	"github.com/riskibarqy/statikk-crawler/external/riotcdn"
	"github.com/riskibarqy/statikk-crawler/internal/config"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/interfaces/httpapi"
	"github.com/riskibarqy/statikk-crawler/internal/platform/id"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/platform/metrics"
	"github.com/riskibarqy/statikk-crawler/internal/platform/resilience"
	"github.com/riskibarqy/statikk-crawler/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	cfg     config.Config
	logger  *logging.Logger
	stores  *stores
	metrics *metrics.Manager
	jobs    *jobRunner
	ops     *http.Server
}

// New builds the crawler. The context bounds startup and every job the app runs later.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open stores: %w", err)
	}

	metricsManager := metrics.NewManager()

	riotClient := riot.NewClient(riot.ClientConfig{
		HostTemplate: cfg.Riot.HostTemplate,
		APIKey:       cfg.Riot.APIKey,
		Timeout:      cfg.Riot.Timeout,
		Queue:        ladder.QueueRankedSolo,
		Routes:       cfg.Crawl.Routes,
		RateLimits:   riotRateLimits(cfg.Riot.RateLimits),
		Logger:       logger.Named("riot"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.Riot.CircuitEnabled,
			FailureThreshold: cfg.Riot.CircuitFailureCount,
			OpenTimeout:      cfg.Riot.CircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.Riot.CircuitHalfOpenMaxReq,
		},
	})
	cdnClient := riotcdn.NewClient(riotcdn.ClientConfig{
		Timeout: cfg.Riot.Timeout,
		Logger:  logger.Named("riotcdn"),
	})

	retry := resilience.DefaultRetryPolicy()
	retry.Attempts = cfg.Crawl.RetryAttempts
	retry.BaseDelay = cfg.Crawl.RetryBaseDelay

	crawlService := usecase.NewCrawlService(usecase.CrawlConfig{
		Regions:          cfg.Crawl.Regions,
		Routes:           cfg.Crawl.Routes,
		Pairs:            ladder.Pairs(cfg.Crawl.Tiers, cfg.Crawl.Divisions),
		Queue:            ladder.QueueRankedSolo,
		QueueID:          ladder.QueueIDRankedSolo,
		FetchConcurrency: cfg.Crawl.FetchConcurrency,
		PairWorkers:      cfg.Crawl.PairWorkers,
		MatchWindow:      cfg.Crawl.MatchWindow,
		Retry:            retry,
		PatchLookupSize:  cfg.Crawl.PatchLookupSize,
	}, usecase.CrawlDeps{
		Ladder:    riotClient,
		Matches:   riotClient,
		MatchRepo: st.matches,
		Summoners: st.summoners,
		Ranks:     st.ranks,
		Patches:   st.patches,
		Catalog:   st.catalog,
		Audit:     st.audit,
	}, metricsManager, id.NewUUIDGenerator(), logger.Named("crawl"))

	refSync := usecase.NewReferenceSyncService(cdnClient, st.patches, st.catalog, logger.Named("refdata"))

	a := &App{
		cfg:     cfg,
		logger:  logger,
		stores:  st,
		metrics: metricsManager,
		jobs:    newJobRunner(ctx, crawlService, refSync, cfg.RefDataSyncEnabled, logger.Named("jobs")),
	}

	if cfg.MetricsEnabled || cfg.PprofEnabled {
		var metricsHandler http.Handler
		if cfg.MetricsEnabled {
			metricsHandler = metricsManager.Handler()
		}
		httpLogger := logger.Named("httpapi")
		router := httpapi.NewRouter(httpapi.NewHandler(a.jobs, st, metricsHandler, httpLogger), httpLogger, httpapi.RouterOptions{
			InternalJobToken: cfg.InternalJobToken,
			PprofEnabled:     cfg.PprofEnabled,
		})
		a.ops = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

// Run crawls once, or on every CRAWL_SCHEDULE tick until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.ops != nil {
		go func() {
			a.logger.Info("ops server starting", "addr", a.ops.Addr)
			if err := a.ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("ops server failed", "error", err)
			}
		}()
	}

	if a.cfg.Crawl.Schedule <= 0 {
		result, err := a.jobs.RunCycle(ctx)
		if err != nil {
			return fmt.Errorf("crawl: %w", err)
		}
		a.logger.InfoContext(ctx, "one-shot crawl finished", "run_id", result.RunID, "written", result.Written, "failed_units", result.FailedUnits)
		return nil
	}

	scheduler, err := a.jobs.schedule(a.cfg.Crawl.Schedule)
	if err != nil {
		return err
	}
	scheduler.Start()
	a.logger.InfoContext(ctx, "crawl scheduler started", "every", a.cfg.Crawl.Schedule.String())

	<-ctx.Done()
	if err := scheduler.Shutdown(); err != nil {
		a.logger.Warn("scheduler shutdown failed", "error", err)
	}
	return nil
}

// Close stops the ops server, waits for triggered crawls and releases the store.
func (a *App) Close() error {
	var errs []error
	if a.ops != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.ops.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown ops server: %w", err))
		}
	}
	a.jobs.Wait()
	if err := a.stores.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

func riotRateLimits(in []config.RateLimit) []riot.RateLimit {
	if in == nil {
		return nil
	}
	out := make([]riot.RateLimit, 0, len(in))
	for _, limit := range in {
		out = append(out, riot.RateLimit{Requests: limit.Requests, Window: limit.Window})
	}
	return out
}
