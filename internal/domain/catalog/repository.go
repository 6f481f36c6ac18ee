package catalog

import "context"

// Repository stores champion and queue reference data.
type Repository interface {
	ListChampionIDs(ctx context.Context) ([]int, error)
	UpsertChampions(ctx context.Context, champions []Champion) error
	UpsertQueues(ctx context.Context, queues []Queue) error
}
