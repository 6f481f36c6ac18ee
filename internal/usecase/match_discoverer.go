package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
)

const defaultMatchIDPageSize = 100

type MatchDiscovererConfig struct {
	QueueID     int
	Concurrency int
	Retry       resilience.RetryPolicy
}

// MatchDiscoverer turns a page of players into the match ids nobody has stored or claimed yet.
type MatchDiscoverer struct {
	provider MatchProvider
	matches  match.Repository
	claims   *ClaimSet
	cfg      MatchDiscovererConfig
	logger   *logging.Logger
}

type DiscoveryResult struct {
	MatchIDs       []string
	Listed         int
	AlreadyStored  int
	AlreadyClaimed int
	PlayersFailed  int
}

// NewMatchDiscoverer builds a discoverer. claims may be nil, in which case only the
// store is consulted.
func NewMatchDiscoverer(provider MatchProvider, matches match.Repository, claims *ClaimSet, cfg MatchDiscovererConfig, logger *logging.Logger) *MatchDiscoverer {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.QueueID <= 0 {
		cfg.QueueID = ladder.QueueIDRankedSolo
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = IsRetryable
	}
	return &MatchDiscoverer{
		provider: provider,
		matches:  matches,
		claims:   claims,
		cfg:      cfg,
		logger:   logger,
	}
}

// Discover lists each player's matches inside window and returns the union minus
// stored and claimed games, sorted. A player whose listing keeps failing is skipped.
func (d *MatchDiscoverer) Discover(ctx context.Context, region ladder.Region, window MatchWindow, players []ladder.PlayerEntry) (DiscoveryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchDiscoverer.Discover")
	defer span.End()

	result := DiscoveryResult{MatchIDs: []string{}}
	if len(players) == 0 {
		return result, nil
	}

	query := MatchIDQuery{
		QueueID: d.cfg.QueueID,
		Start:   window.Start,
		End:     window.End,
		Count:   defaultMatchIDPageSize,
	}

	var failed atomic.Int64
	p := pool.NewWithResults[[]string]().WithMaxGoroutines(d.cfg.Concurrency)
	for _, player := range players {
		puuid := player.Puuid
		p.Go(func() []string {
			ids, err := resilience.RetryValue(ctx, d.cfg.Retry, func(ctx context.Context) ([]string, error) {
				return d.provider.ListMatchIDs(ctx, region, puuid, query)
			})
			if err != nil {
				failed.Add(1)
				d.logger.WarnContext(ctx, "list match ids failed, skipping player",
					"region", region,
					"puuid", puuid,
					"error", err,
				)
				return nil
			}
			return ids
		})
	}
	listed := p.Wait()
	result.PlayersFailed = int(failed.Load())

	candidates := make(map[int64]struct{})
	for _, ids := range listed {
		for _, raw := range ids {
			gameID, err := match.ParseGameID(raw)
			if err != nil {
				d.logger.WarnContext(ctx, "skip malformed match id", "region", region, "match_id", raw)
				continue
			}
			candidates[gameID] = struct{}{}
		}
	}
	result.Listed = len(candidates)
	if len(candidates) == 0 {
		return result, nil
	}

	gameIDs := make([]int64, 0, len(candidates))
	for gameID := range candidates {
		gameIDs = append(gameIDs, gameID)
	}
	sort.Slice(gameIDs, func(i, j int) bool { return gameIDs[i] < gameIDs[j] })

	existing, err := d.matches.ExistingGameIDs(ctx, region, gameIDs)
	if err != nil {
		return DiscoveryResult{}, fmt.Errorf("query existing matches region=%s: %w", region, err)
	}

	for _, gameID := range gameIDs {
		if _, ok := existing[gameID]; ok {
			result.AlreadyStored++
			continue
		}
		if d.claims != nil && !d.claims.Claim(region, gameID) {
			result.AlreadyClaimed++
			continue
		}
		result.MatchIDs = append(result.MatchIDs, match.FormatMatchID(region, gameID))
	}
	return result, nil
}
