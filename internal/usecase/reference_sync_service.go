package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
)

// ReferenceSyncService refreshes patches, champions and queues. Crawl runs depend on
// it having populated patches first.
type ReferenceSyncService struct {
	provider ReferenceDataProvider
	patches  patch.Repository
	catalog  catalog.Repository
	logger   *logging.Logger
}

type ReferenceSyncResult struct {
	Patches     int
	Champions   int
	Queues      int
	LatestPatch string
}

func NewReferenceSyncService(provider ReferenceDataProvider, patches patch.Repository, catalogRepo catalog.Repository, logger *logging.Logger) *ReferenceSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReferenceSyncService{
		provider: provider,
		patches:  patches,
		catalog:  catalogRepo,
		logger:   logger,
	}
}

func (s *ReferenceSyncService) Sync(ctx context.Context) (ReferenceSyncResult, error) {
	ctx, span := startRootSpan(ctx, "usecase.ReferenceSyncService.Sync")
	defer span.End()

	var result ReferenceSyncResult

	patches, err := s.syncPatches(ctx)
	if err != nil {
		return result, err
	}
	result.Patches = len(patches)
	for _, p := range patches {
		if p.IsLatest {
			result.LatestPatch = p.Version
		}
	}

	champions, err := s.provider.FetchChampions(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch champions: %w", err)
	}
	champions = normalizeChampions(champions)
	if err := s.catalog.UpsertChampions(ctx, champions); err != nil {
		return result, fmt.Errorf("upsert champions: %w", err)
	}
	result.Champions = len(champions)

	queues, err := s.provider.FetchQueues(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch queues: %w", err)
	}
	queues = normalizeQueues(queues)
	if err := s.catalog.UpsertQueues(ctx, queues); err != nil {
		return result, fmt.Errorf("upsert queues: %w", err)
	}
	result.Queues = len(queues)

	s.logger.InfoContext(ctx, "reference data synced",
		"patches", result.Patches,
		"latest_patch", result.LatestPatch,
		"champions", result.Champions,
		"queues", result.Queues,
	)
	return result, nil
}

func (s *ReferenceSyncService) syncPatches(ctx context.Context) ([]patch.Patch, error) {
	raw, err := s.provider.FetchPatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch patches: %w", err)
	}

	byVersion := make(map[string]patch.Patch, len(raw))
	for _, p := range raw {
		version, ok := match.PatchVersion(p.Version)
		if !ok {
			s.logger.WarnContext(ctx, "skip patch with invalid version", "version", p.Version)
			continue
		}
		p.Version = version
		p.StartAt = p.StartAt.UTC()
		if existing, ok := byVersion[version]; ok && !p.StartAt.Before(existing.StartAt) {
			continue
		}
		byVersion[version] = p
	}

	patches := make([]patch.Patch, 0, len(byVersion))
	for _, p := range byVersion {
		p.IsLatest = false
		patches = append(patches, p)
	}
	sort.Slice(patches, func(i, j int) bool {
		if patches[i].StartAt.Equal(patches[j].StartAt) {
			return patches[i].Version < patches[j].Version
		}
		return patches[i].StartAt.Before(patches[j].StartAt)
	})
	if len(patches) == 0 {
		return patches, nil
	}
	patches[len(patches)-1].IsLatest = true

	if err := s.patches.UpsertPatches(ctx, patches); err != nil {
		return nil, fmt.Errorf("upsert patches: %w", err)
	}
	return patches, nil
}

func normalizeChampions(in []catalog.Champion) []catalog.Champion {
	byID := make(map[int]catalog.Champion, len(in))
	for _, c := range in {
		if c.ID <= 0 {
			continue
		}
		c.Name = catalog.TruncateName(c.Name)
		byID[c.ID] = c
	}
	out := make([]catalog.Champion, 0, len(byID))
	for _, c := range byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func normalizeQueues(in []catalog.Queue) []catalog.Queue {
	byID := make(map[int]catalog.Queue, len(in))
	for _, q := range in {
		if q.ID <= 0 {
			continue
		}
		q.Name = catalog.TruncateName(q.Name)
		byID[q.ID] = q
	}
	out := make([]catalog.Queue, 0, len(byID))
	for _, q := range byID {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
