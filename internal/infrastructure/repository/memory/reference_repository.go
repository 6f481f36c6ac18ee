package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
)

type PatchRepository struct {
	mu        sync.RWMutex
	nextID    int
	byVersion map[string]patch.Patch
}

func NewPatchRepository(seed ...patch.Patch) *PatchRepository {
	r := &PatchRepository{byVersion: make(map[string]patch.Patch)}
	_ = r.UpsertPatches(context.Background(), seed)
	return r
}

func (r *PatchRepository) ListRecent(_ context.Context, limit int) ([]patch.Patch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]patch.Patch, 0, len(r.byVersion))
	for _, item := range r.byVersion {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartAt.After(out[j].StartAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpsertPatches keeps ids stable per version. A latest flag in the input clears it elsewhere.
func (r *PatchRepository) UpsertPatches(_ context.Context, patches []patch.Patch) error {
	for _, item := range patches {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert patch: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	latest := ""
	for _, item := range patches {
		if existing, ok := r.byVersion[item.Version]; ok {
			item.ID = existing.ID
		} else {
			r.nextID++
			item.ID = r.nextID
		}
		if item.IsLatest {
			latest = item.Version
		}
		r.byVersion[item.Version] = item
	}
	if latest != "" {
		for version, item := range r.byVersion {
			item.IsLatest = version == latest
			r.byVersion[version] = item
		}
	}
	return nil
}

type CatalogRepository struct {
	mu        sync.RWMutex
	champions map[int]catalog.Champion
	queues    map[int]catalog.Queue
}

func NewCatalogRepository(champions ...catalog.Champion) *CatalogRepository {
	r := &CatalogRepository{
		champions: make(map[int]catalog.Champion),
		queues:    make(map[int]catalog.Queue),
	}
	for _, item := range champions {
		r.champions[item.ID] = item
	}
	return r
}

func (r *CatalogRepository) ListChampionIDs(context.Context) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0, len(r.champions))
	for id := range r.champions {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

func (r *CatalogRepository) UpsertChampions(_ context.Context, champions []catalog.Champion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range champions {
		r.champions[item.ID] = item
	}
	return nil
}

func (r *CatalogRepository) UpsertQueues(_ context.Context, queues []catalog.Queue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range queues {
		r.queues[item.ID] = item
	}
	return nil
}

func (r *CatalogRepository) QueueCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.queues)
}
