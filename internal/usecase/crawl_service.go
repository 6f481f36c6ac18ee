package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/statikk-crawler/internal/domain/audit"
	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
	"github.com/riskibarqy/statikk-crawler/internal/platform/id"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/platform/resilience"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
)

const (
	auditMethodPage      = "CrawlService.page"
	auditMethodLadder    = "CrawlService.ladder"
	auditMethodAggregate = "CrawlService.refreshAggregates"

	defaultPatchLookupSize = 5
)

// CrawlConfig is fixed for the lifetime of a CrawlService.
type CrawlConfig struct {
	Regions          []ladder.Region
	Routes           ladder.RouteMap
	Pairs            []ladder.Pair
	Queue            string
	QueueID          int
	FetchConcurrency int
	// PairWorkers bounds brackets crawled in parallel per region. Zero runs every bracket at once.
	PairWorkers     int
	MatchWindow     time.Duration
	Retry           resilience.RetryPolicy
	PatchLookupSize int
}

type CrawlDeps struct {
	Ladder    LadderProvider
	Matches   MatchProvider
	MatchRepo match.Repository
	Summoners summoner.Repository
	Ranks     summoner.RankRepository
	Patches   patch.Repository
	Catalog   catalog.Repository
	Audit     audit.Repository
}

type CrawlResult struct {
	RunID           string
	StartedAt       time.Time
	Duration        time.Duration
	Window          MatchWindow
	Pages           int
	Players         int
	Discovered      int
	Fetched         int
	FetchFailed     int
	Rejected        int
	Excluded        int
	Written         int
	FailedUnits     int
	AggregatesFresh bool
}

// CrawlService drives the walk, discover, fetch, normalize and write pipeline for every
// configured region. Failures are contained to one ladder page.
type CrawlService struct {
	cfg     CrawlConfig
	deps    CrawlDeps
	metrics CrawlMetrics
	ids     id.Generator
	now     func() time.Time
	logger  *logging.Logger
	running atomic.Bool
}

func NewCrawlService(cfg CrawlConfig, deps CrawlDeps, metrics CrawlMetrics, ids id.Generator, logger *logging.Logger) *CrawlService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = noopCrawlMetrics{}
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.Routes == nil {
		cfg.Routes = ladder.DefaultRouteMap()
	}
	if cfg.Pairs == nil {
		cfg.Pairs = ladder.Pairs(ladder.Tiers, ladder.Divisions)
	}
	if cfg.Queue == "" {
		cfg.Queue = ladder.QueueRankedSolo
	}
	if cfg.QueueID <= 0 {
		cfg.QueueID = ladder.QueueIDRankedSolo
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 1
	}
	if cfg.MatchWindow <= 0 {
		cfg.MatchWindow = 24 * time.Hour
	}
	if cfg.PatchLookupSize <= 0 {
		cfg.PatchLookupSize = defaultPatchLookupSize
	}
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry = resilience.DefaultRetryPolicy()
	}

	return &CrawlService{
		cfg:     cfg,
		deps:    deps,
		metrics: metrics,
		ids:     ids,
		now:     time.Now,
		logger:  logger,
	}
}

// crawlRun holds the components and counters scoped to one Run.
type crawlRun struct {
	service    *CrawlService
	runID      string
	window     MatchWindow
	walker     *LadderWalker
	discoverer *MatchDiscoverer
	fetcher    *MatchFetcher
	normalizer *MatchNormalizer
	writer     *MatchWriter

	pages       atomic.Int64
	players     atomic.Int64
	discovered  atomic.Int64
	fetched     atomic.Int64
	fetchFailed atomic.Int64
	rejected    atomic.Int64
	excluded    atomic.Int64
	written     atomic.Int64
	failedUnits atomic.Int64
}

// Run crawls every region once. It returns an error only when the run cannot start;
// failures inside a region are audited and counted in the result.
func (s *CrawlService) Run(ctx context.Context) (CrawlResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return CrawlResult{}, fmt.Errorf("crawl: %w", ErrRunInProgress)
	}
	defer s.running.Store(false)

	if err := s.validate(); err != nil {
		return CrawlResult{}, err
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return CrawlResult{}, fmt.Errorf("generate run id: %w", err)
	}
	startedAt := s.now().UTC()

	ctx, span := startRootSpan(ctx, "usecase.CrawlService.Run")
	defer span.End()
	span.SetAttributes(attribute.String("crawl.run_id", runID), attribute.Int("crawl.regions", len(s.cfg.Regions)))
	ctx = logging.ContextWith(ctx, "run_id", runID)

	run, err := s.prepareRun(ctx, runID, startedAt)
	if err != nil {
		return CrawlResult{}, err
	}

	s.logger.InfoContext(ctx, "crawl run started",
		"regions", len(s.cfg.Regions),
		"brackets", len(s.cfg.Pairs),
		"window_start", run.window.Start,
		"window_end", run.window.End,
	)

	var regions conc.WaitGroup
	for _, region := range s.cfg.Regions {
		regions.Go(func() {
			run.crawlRegion(ctx, region)
		})
	}
	regions.Wait()

	aggregatesFresh := false
	if ctx.Err() == nil {
		if err := s.deps.MatchRepo.RefreshAggregates(ctx); err != nil {
			run.recordFailure(ctx, "", auditMethodAggregate, map[string]any{"run_id": runID}, err, fmt.Sprintf("%+v", err), audit.StatusFailed)
		} else {
			aggregatesFresh = true
		}
	}

	result := run.result(startedAt, s.now().UTC().Sub(startedAt))
	result.AggregatesFresh = aggregatesFresh
	s.metrics.RunCompleted(result.Duration)

	s.logger.InfoContext(ctx, "crawl run finished",
		"pages", result.Pages,
		"players", result.Players,
		"discovered", result.Discovered,
		"fetched", result.Fetched,
		"fetch_failed", result.FetchFailed,
		"rejected", result.Rejected,
		"excluded", result.Excluded,
		"written", result.Written,
		"failed_units", result.FailedUnits,
		"duration", result.Duration.String(),
	)
	return result, nil
}

// Running reports whether a Run is in flight.
func (s *CrawlService) Running() bool {
	return s.running.Load()
}

func (s *CrawlService) validate() error {
	if len(s.cfg.Regions) == 0 {
		return fmt.Errorf("%w: at least one region is required", ErrInvalidInput)
	}
	for _, region := range s.cfg.Regions {
		if _, ok := s.cfg.Routes.Route(region); !ok {
			return fmt.Errorf("%w: region %s has no routing domain", ErrInvalidInput, region)
		}
	}
	if s.deps.Ladder == nil || s.deps.Matches == nil {
		return fmt.Errorf("%w: upstream providers are required", ErrInvalidInput)
	}
	if s.deps.MatchRepo == nil || s.deps.Summoners == nil || s.deps.Ranks == nil ||
		s.deps.Patches == nil || s.deps.Catalog == nil || s.deps.Audit == nil {
		return fmt.Errorf("%w: repositories are required", ErrInvalidInput)
	}
	return nil
}

// prepareRun loads the read-only lookups every page of the run shares.
func (s *CrawlService) prepareRun(ctx context.Context, runID string, startedAt time.Time) (*crawlRun, error) {
	patches, err := s.deps.Patches.ListRecent(ctx, s.cfg.PatchLookupSize)
	if err != nil {
		return nil, fmt.Errorf("load recent patches: %w", err)
	}
	lookup := patch.NewLookup(patches)
	if lookup.Len() == 0 {
		s.logger.WarnContext(ctx, "no patches known, every match will be excluded until reference data is synced")
	}

	championIDs, err := s.deps.Catalog.ListChampionIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load champion ids: %w", err)
	}

	discoverer := NewMatchDiscoverer(s.deps.Matches, s.deps.MatchRepo, NewClaimSet(), MatchDiscovererConfig{
		QueueID:     s.cfg.QueueID,
		Concurrency: s.cfg.FetchConcurrency,
		Retry:       s.cfg.Retry,
	}, s.logger)

	return &crawlRun{
		service:    s,
		runID:      runID,
		window:     DailyWindow(startedAt, s.cfg.MatchWindow),
		walker:     NewLadderWalker(s.deps.Ladder, s.cfg.Retry, s.logger),
		discoverer: discoverer,
		fetcher:    NewMatchFetcher(s.deps.Matches, s.cfg.Retry, s.cfg.FetchConcurrency, s.logger),
		normalizer: NewMatchNormalizer(catalog.NewChampionSet(championIDs), s.cfg.Routes),
		writer:     NewMatchWriter(s.deps.Summoners, s.deps.Ranks, s.deps.MatchRepo, lookup, s.cfg.Queue, s.logger),
	}, nil
}

func (r *crawlRun) crawlRegion(ctx context.Context, region ladder.Region) {
	s := r.service
	workerCount := s.cfg.PairWorkers
	if workerCount <= 0 || workerCount > len(s.cfg.Pairs) {
		workerCount = len(s.cfg.Pairs)
	}
	if workerCount == 0 {
		return
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		r.recordFailure(ctx, region, auditMethodLadder, map[string]any{"region": region}, err, fmt.Sprintf("%+v", err), audit.StatusFailed)
		return
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, pair := range s.cfg.Pairs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			r.crawlPair(ctx, region, pair)
		}); err != nil {
			workers.Done()
			r.recordFailure(ctx, region, auditMethodLadder, pairAuditInput(region, pair, 0), err, fmt.Sprintf("%+v", err), audit.StatusFailed)
		}
	}
	workers.Wait()
}

// crawlPair walks one bracket sequentially; pages never overlap within a bracket.
func (r *crawlRun) crawlPair(ctx context.Context, region ladder.Region, pair ladder.Pair) {
	defer func() {
		if rec := recover(); rec != nil {
			r.recordFailure(ctx, region, auditMethodLadder, pairAuditInput(region, pair, 0),
				fmt.Errorf("panic: %v", rec), string(debug.Stack()), audit.StatusPanicked)
		}
	}()

	for batch, err := range r.walker.Walk(ctx, region, pair) {
		if err != nil {
			if isContextDone(err) {
				return
			}
			r.recordFailure(ctx, region, auditMethodLadder, pairAuditInput(region, pair, batch.Page), err, fmt.Sprintf("%+v", err), audit.StatusFailed)
			return
		}
		r.processPage(ctx, batch)
	}
}

// processPage is the failure boundary of the pipeline: errors and panics are
// audited and the page is abandoned while siblings continue.
func (r *crawlRun) processPage(ctx context.Context, batch ladder.PlayerBatch) {
	defer func() {
		if rec := recover(); rec != nil {
			r.recordFailure(ctx, batch.Region, auditMethodPage, pageAuditInput(batch),
				fmt.Errorf("panic: %v", rec), string(debug.Stack()), audit.StatusPanicked)
		}
	}()

	if err := r.runPage(ctx, batch); err != nil {
		if isContextDone(err) {
			return
		}
		r.recordFailure(ctx, batch.Region, auditMethodPage, pageAuditInput(batch), err, fmt.Sprintf("%+v", err), audit.StatusFailed)
	}
}

func (r *crawlRun) runPage(ctx context.Context, batch ladder.PlayerBatch) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CrawlService.page")
	defer span.End()

	s := r.service
	region := string(batch.Region)
	r.pages.Add(1)
	r.players.Add(int64(len(batch.Players)))
	s.metrics.PageWalked(region)

	discovery, err := r.discoverer.Discover(ctx, batch.Region, r.window, batch.Players)
	if err != nil {
		return err
	}
	r.discovered.Add(int64(len(discovery.MatchIDs)))
	s.metrics.MatchesDiscovered(region, len(discovery.MatchIDs))

	fetched := r.fetcher.Fetch(ctx, batch.Region, discovery.MatchIDs)
	r.fetched.Add(int64(len(fetched.Matches)))
	r.fetchFailed.Add(int64(fetched.Failed))
	s.metrics.MatchesFetched(region, len(fetched.Matches))
	if fetched.Failed > 0 {
		s.metrics.MatchFetchFailed(region, fetched.Failed)
	}

	normalized := make([]match.Match, 0, len(fetched.Matches))
	rejected := 0
	for _, raw := range fetched.Matches {
		item, reason := r.normalizer.Normalize(raw)
		if reason != RejectNone {
			rejected++
			s.metrics.MatchRejected(region, string(reason))
			s.logger.DebugContext(ctx, "match rejected", "match_id", raw.MatchID, "reason", string(reason))
			continue
		}
		normalized = append(normalized, item)
	}
	r.rejected.Add(int64(rejected))

	written, err := r.writer.Write(ctx, WriteInput{
		Region:  batch.Region,
		Players: batch.Players,
		Matches: normalized,
	})
	if err != nil {
		return err
	}
	for reason, n := range written.Excluded {
		s.metrics.MatchesExcluded(region, reason, n)
	}
	r.excluded.Add(int64(written.ExcludedTotal()))
	r.written.Add(int64(len(written.Written)))
	s.metrics.MatchesWritten(region, len(written.Written))

	s.logger.InfoContext(ctx, "ladder page processed",
		"region", batch.Region,
		"bracket", batch.Pair.String(),
		"page", batch.Page,
		"players", len(batch.Players),
		"discovered", len(discovery.MatchIDs),
		"already_stored", discovery.AlreadyStored,
		"fetched", len(fetched.Matches),
		"fetch_failed", fetched.Failed,
		"rejected", rejected,
		"excluded", written.ExcludedTotal(),
		"written", len(written.Written),
	)
	return nil
}

// recordFailure logs and audits an abandoned unit. The audit write outlives run cancellation.
func (r *crawlRun) recordFailure(ctx context.Context, region ladder.Region, method string, input any, err error, stack string, status string) {
	s := r.service
	r.failedUnits.Add(1)
	s.metrics.UnitFailed(string(region), method)
	s.logger.ErrorContext(ctx, "crawl unit abandoned",
		"method", method,
		"region", region,
		"status", status,
		"error", err,
	)

	payload, marshalErr := sonic.Marshal(input)
	if marshalErr != nil {
		payload = []byte(fmt.Sprintf("%q", fmt.Sprint(input)))
	}

	entry := audit.Entry{
		RunID:      r.runID,
		Method:     method,
		Input:      payload,
		Message:    err.Error(),
		StackTrace: stack,
		Status:     status,
		CreatedAt:  s.now().UTC(),
	}
	if auditErr := s.deps.Audit.Insert(context.WithoutCancel(ctx), entry); auditErr != nil {
		s.logger.ErrorContext(ctx, "write audit entry failed", "method", method, "error", auditErr)
	}
}

func (r *crawlRun) result(startedAt time.Time, duration time.Duration) CrawlResult {
	return CrawlResult{
		RunID:       r.runID,
		StartedAt:   startedAt,
		Duration:    duration,
		Window:      r.window,
		Pages:       int(r.pages.Load()),
		Players:     int(r.players.Load()),
		Discovered:  int(r.discovered.Load()),
		Fetched:     int(r.fetched.Load()),
		FetchFailed: int(r.fetchFailed.Load()),
		Rejected:    int(r.rejected.Load()),
		Excluded:    int(r.excluded.Load()),
		Written:     int(r.written.Load()),
		FailedUnits: int(r.failedUnits.Load()),
	}
}

func pairAuditInput(region ladder.Region, pair ladder.Pair, page int) map[string]any {
	return map[string]any{
		"region":   region,
		"tier":     pair.Tier,
		"division": pair.Division,
		"page":     page,
	}
}

func pageAuditInput(batch ladder.PlayerBatch) map[string]any {
	puuids := make([]string, 0, len(batch.Players))
	for _, p := range batch.Players {
		puuids = append(puuids, p.Puuid)
	}
	input := pairAuditInput(batch.Region, batch.Pair, batch.Page)
	input["puuids"] = puuids
	return input
}

func isContextDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
