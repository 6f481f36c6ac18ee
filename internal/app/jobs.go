package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/usecase"
)

type crawlRunner interface {
	Run(ctx context.Context) (usecase.CrawlResult, error)
	Running() bool
}

type referenceSyncer interface {
	Sync(ctx context.Context) (usecase.ReferenceSyncResult, error)
}

// jobRunner runs crawl cycles for the scheduler, the one-shot mode and the internal job routes.
type jobRunner struct {
	baseCtx        context.Context
	crawl          crawlRunner
	refSync        referenceSyncer
	refSyncEnabled bool
	logger         *logging.Logger

	// cycling covers the whole cycle, reference sync included; syncing covers any reference sync.
	cycling atomic.Bool
	syncing atomic.Bool

	mu   sync.Mutex
	last *usecase.CrawlResult
	wg   sync.WaitGroup
}

func newJobRunner(baseCtx context.Context, crawl crawlRunner, refSync referenceSyncer, refSyncEnabled bool, logger *logging.Logger) *jobRunner {
	if logger == nil {
		logger = logging.Default()
	}
	return &jobRunner{
		baseCtx:        baseCtx,
		crawl:          crawl,
		refSync:        refSync,
		refSyncEnabled: refSyncEnabled,
		logger:         logger,
	}
}

// RunCycle syncs reference data when enabled and then crawls once. Only one cycle runs at a
// time. A failed reference sync is logged; the crawl still runs against the stored catalogs.
func (r *jobRunner) RunCycle(ctx context.Context) (usecase.CrawlResult, error) {
	if !r.cycling.CompareAndSwap(false, true) {
		return usecase.CrawlResult{}, fmt.Errorf("crawl cycle: %w", usecase.ErrRunInProgress)
	}
	defer r.cycling.Store(false)
	return r.runCycle(ctx)
}

func (r *jobRunner) runCycle(ctx context.Context) (usecase.CrawlResult, error) {
	if r.refSyncEnabled {
		if _, err := r.SyncReferenceData(ctx); err != nil {
			r.logger.WarnContext(ctx, "reference sync failed, crawling with stored reference data", "error", err)
		}
	}

	result, err := r.crawl.Run(ctx)
	if err != nil {
		return usecase.CrawlResult{}, err
	}

	r.mu.Lock()
	r.last = &result
	r.mu.Unlock()
	return result, nil
}

// TriggerCrawl claims the cycle before returning, so a second trigger is refused even while
// the first is still syncing reference data.
func (r *jobRunner) TriggerCrawl(ctx context.Context) error {
	if err := r.baseCtx.Err(); err != nil {
		return fmt.Errorf("%w: crawler is shutting down", usecase.ErrDependencyUnavailable)
	}
	if r.crawl.Running() || !r.cycling.CompareAndSwap(false, true) {
		return fmt.Errorf("crawl: %w", usecase.ErrRunInProgress)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.cycling.Store(false)
		if _, err := r.runCycle(r.baseCtx); err != nil {
			r.logger.WarnContext(r.baseCtx, "triggered crawl failed", "error", err)
		}
	}()
	r.logger.InfoContext(ctx, "crawl triggered")
	return nil
}

func (r *jobRunner) LastCrawl() (usecase.CrawlResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return usecase.CrawlResult{}, false
	}
	return *r.last, true
}

func (r *jobRunner) SyncReferenceData(ctx context.Context) (usecase.ReferenceSyncResult, error) {
	if r.refSync == nil {
		return usecase.ReferenceSyncResult{}, fmt.Errorf("%w: reference sync is not configured", usecase.ErrDependencyUnavailable)
	}
	if !r.syncing.CompareAndSwap(false, true) {
		return usecase.ReferenceSyncResult{}, fmt.Errorf("reference sync: %w", usecase.ErrRunInProgress)
	}
	defer r.syncing.Store(false)
	return r.refSync.Sync(ctx)
}

// Wait blocks until triggered crawls have returned.
func (r *jobRunner) Wait() {
	r.wg.Wait()
}

// schedule registers the periodic crawl. Singleton mode skips a tick while a cycle is still running.
func (r *jobRunner) schedule(every time.Duration) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if _, err := r.RunCycle(r.baseCtx); err != nil {
				r.logger.WarnContext(r.baseCtx, "scheduled crawl failed", "error", err)
			}
		}),
		gocron.WithName("crawl"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("register crawl job: %w", err)
	}
	return scheduler, nil
}
