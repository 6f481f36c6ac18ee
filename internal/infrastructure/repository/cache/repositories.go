// Package cache decorates reference repositories with in-process read caches.
package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
	basecache "github.com/riskibarqy/statikk-crawler/internal/platform/cache"
)

const (
	patchKeyPrefix    = "patch:recent:"
	championKeyPrefix = "champion:"
	championIDsKey    = championKeyPrefix + "ids"
)

type PatchRepository struct {
	next  patch.Repository
	cache *basecache.Store[[]patch.Patch]
}

func NewPatchRepository(next patch.Repository, cache *basecache.Store[[]patch.Patch]) *PatchRepository {
	return &PatchRepository{next: next, cache: cache}
}

func (r *PatchRepository) ListRecent(ctx context.Context, limit int) ([]patch.Patch, error) {
	items, err := r.cache.GetOrLoad(ctx, patchKeyPrefix+strconv.Itoa(limit), func(ctx context.Context) ([]patch.Patch, error) {
		items, err := r.next.ListRecent(ctx, limit)
		if err != nil {
			return nil, err
		}
		return append([]patch.Patch(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]patch.Patch(nil), items...), nil
}

func (r *PatchRepository) UpsertPatches(ctx context.Context, patches []patch.Patch) error {
	if err := r.next.UpsertPatches(ctx, patches); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, patchKeyPrefix)
	return nil
}

type CatalogRepository struct {
	next  catalog.Repository
	cache *basecache.Store[[]int]
}

func NewCatalogRepository(next catalog.Repository, cache *basecache.Store[[]int]) *CatalogRepository {
	return &CatalogRepository{next: next, cache: cache}
}

func (r *CatalogRepository) ListChampionIDs(ctx context.Context) ([]int, error) {
	ids, err := r.cache.GetOrLoad(ctx, championIDsKey, func(ctx context.Context) ([]int, error) {
		ids, err := r.next.ListChampionIDs(ctx)
		if err != nil {
			return nil, err
		}
		return append([]int(nil), ids...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]int(nil), ids...), nil
}

func (r *CatalogRepository) UpsertChampions(ctx context.Context, champions []catalog.Champion) error {
	if err := r.next.UpsertChampions(ctx, champions); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, championKeyPrefix)
	return nil
}

func (r *CatalogRepository) UpsertQueues(ctx context.Context, queues []catalog.Queue) error {
	return r.next.UpsertQueues(ctx, queues)
}
