package usecase

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/platform/resilience"
)

// LadderWalker pages through one ranked bracket of one region.
type LadderWalker struct {
	provider LadderProvider
	retry    resilience.RetryPolicy
	logger   *logging.Logger
}

func NewLadderWalker(provider LadderProvider, retry resilience.RetryPolicy, logger *logging.Logger) *LadderWalker {
	if logger == nil {
		logger = logging.Default()
	}
	if retry.Retryable == nil {
		retry.Retryable = IsRetryable
	}
	return &LadderWalker{
		provider: provider,
		retry:    retry,
		logger:   logger,
	}
}

// Walk yields non-empty pages starting at page 1 and stops at the first empty one.
// A page that still fails after retries is yielded as an error and ends the walk.
// Brackets that do not exist upstream yield nothing.
func (w *LadderWalker) Walk(ctx context.Context, region ladder.Region, pair ladder.Pair) iter.Seq2[ladder.PlayerBatch, error] {
	return func(yield func(ladder.PlayerBatch, error) bool) {
		if !pair.Exists() {
			return
		}

		for page := 1; ; page++ {
			if err := ctx.Err(); err != nil {
				yield(ladder.PlayerBatch{Region: region, Pair: pair, Page: page}, err)
				return
			}

			entries, err := resilience.RetryValue(ctx, w.retry, func(ctx context.Context) ([]ladder.PlayerEntry, error) {
				return w.provider.ListLadder(ctx, region, pair, page)
			})
			if err != nil {
				yield(ladder.PlayerBatch{Region: region, Pair: pair, Page: page},
					fmt.Errorf("list ladder region=%s bracket=%s page=%d: %w", region, pair, page, err))
				return
			}
			if len(entries) == 0 {
				w.logger.DebugContext(ctx, "ladder bracket exhausted",
					"region", region,
					"bracket", pair.String(),
					"pages", page-1,
				)
				return
			}

			batch := ladder.PlayerBatch{
				Region:  region,
				Pair:    pair,
				Page:    page,
				Players: normalizeLadderEntries(entries, pair),
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

// normalizeLadderEntries drops rows without a puuid and fills the bracket when a row omits it.
func normalizeLadderEntries(entries []ladder.PlayerEntry, pair ladder.Pair) []ladder.PlayerEntry {
	out := make([]ladder.PlayerEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Puuid = strings.TrimSpace(entry.Puuid)
		if entry.Puuid == "" {
			continue
		}
		if entry.Tier == "" || entry.Tier == ladder.TierNone {
			entry.Tier = pair.Tier
		}
		if entry.Division == "" || entry.Division == ladder.DivisionNone {
			entry.Division = pair.Division
		}
		out = append(out, entry)
	}
	return out
}
