package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
	catalogmock "github.com/riskibarqy/statikk-crawler/internal/mocks/domain/catalog"
	patchmock "github.com/riskibarqy/statikk-crawler/internal/mocks/domain/patch"
	basecache "github.com/riskibarqy/statikk-crawler/internal/platform/cache"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPatchRepository_CachesUntilUpsert(t *testing.T) {
	ctx := context.Background()
	next := patchmock.NewRepository(t)
	recent := []patch.Patch{{ID: 2, Version: "14.2"}, {ID: 1, Version: "14.1"}}
	next.On("ListRecent", mock.Anything, 3).Return(recent, nil).Twice()
	next.On("UpsertPatches", mock.Anything, mock.Anything).Return(nil).Once()

	repo := NewPatchRepository(next, basecache.NewStore[[]patch.Patch](time.Hour))

	first, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	first[0].Version = "mutated"

	second, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "14.2", second[0].Version)

	require.NoError(t, repo.UpsertPatches(ctx, []patch.Patch{{Version: "14.3"}}))
	_, err = repo.ListRecent(ctx, 3)
	require.NoError(t, err)
}

func TestCatalogRepository_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := catalogmock.NewRepository(t)
	next.On("ListChampionIDs", mock.Anything).Return(nil, errors.New("db down")).Once()
	next.On("ListChampionIDs", mock.Anything).Return([]int{1, 2}, nil).Once()
	next.On("UpsertChampions", mock.Anything, mock.Anything).Return(nil).Once()
	next.On("ListChampionIDs", mock.Anything).Return([]int{1, 2, 3}, nil).Once()

	repo := NewCatalogRepository(next, basecache.NewStore[[]int](0))

	_, err := repo.ListChampionIDs(ctx)
	require.Error(t, err)

	ids, err := repo.ListChampionIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, ids)

	ids, err = repo.ListChampionIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, ids)

	require.NoError(t, repo.UpsertChampions(ctx, []catalog.Champion{{ID: 3, Name: "Three"}}))
	ids, err = repo.ListChampionIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, ids)
}
