package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
)

// matchFetchAttempts bounds every match detail download regardless of the shared retry policy.
const matchFetchAttempts = 3

// MatchFetcher downloads full match bodies with bounded parallelism.
type MatchFetcher struct {
	provider    MatchProvider
	retry       resilience.RetryPolicy
	concurrency int
	logger      *logging.Logger
}

type FetchResult struct {
	Matches  []ExternalMatch
	Failed   int
	NotFound int
}

func NewMatchFetcher(provider MatchProvider, retry resilience.RetryPolicy, concurrency int, logger *logging.Logger) *MatchFetcher {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if retry.Retryable == nil {
		retry.Retryable = IsRetryable
	}
	retry.Attempts = matchFetchAttempts
	return &MatchFetcher{
		provider:    provider,
		retry:       retry,
		concurrency: concurrency,
		logger:      logger,
	}
}

type fetchOutcome struct {
	match    ExternalMatch
	ok       bool
	notFound bool
}

// Fetch never fails as a whole: ids that cannot be fetched are logged, counted and dropped.
// Matches are returned ordered by match id.
func (f *MatchFetcher) Fetch(ctx context.Context, region ladder.Region, matchIDs []string) FetchResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFetcher.Fetch")
	defer span.End()

	if len(matchIDs) == 0 {
		return FetchResult{Matches: []ExternalMatch{}}
	}

	p := pool.NewWithResults[fetchOutcome]().WithMaxGoroutines(f.concurrency)
	for _, matchID := range matchIDs {
		p.Go(func() fetchOutcome {
			raw, err := resilience.RetryValue(ctx, f.retry, func(ctx context.Context) (ExternalMatch, error) {
				return f.provider.GetMatch(ctx, region, matchID)
			})
			if err != nil {
				f.logger.WarnContext(ctx, "fetch match failed, dropping",
					"region", region,
					"match_id", matchID,
					"error", err,
				)
				return fetchOutcome{notFound: errors.Is(err, ErrNotFound)}
			}
			if raw.MatchID == "" {
				raw.MatchID = matchID
			}
			return fetchOutcome{match: raw, ok: true}
		})
	}

	result := FetchResult{Matches: make([]ExternalMatch, 0, len(matchIDs))}
	for _, outcome := range p.Wait() {
		if !outcome.ok {
			result.Failed++
			if outcome.notFound {
				result.NotFound++
			}
			continue
		}
		result.Matches = append(result.Matches, outcome.match)
	}
	sort.Slice(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchID < result.Matches[j].MatchID
	})
	return result
}
