package match

import (
	"context"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
)

// Repository describes match persistence needs.
type Repository interface {
	// ExistingGameIDs returns the subset of gameIDs already stored for region.
	ExistingGameIDs(ctx context.Context, region ladder.Region, gameIDs []int64) (map[int64]struct{}, error)
	// InsertMatches stores the graphs and returns those actually inserted with generated ids set.
	InsertMatches(ctx context.Context, matches []Match) ([]Match, error)
	// RefreshAggregates recomputes derived statistics after ingest.
	RefreshAggregates(ctx context.Context) error
}
