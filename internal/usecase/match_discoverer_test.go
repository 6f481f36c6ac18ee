package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/statikk-crawler/internal/mocks/domain/match"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testWindow() MatchWindow {
	return DailyWindow(time.Date(2024, 2, 21, 9, 0, 0, 0, time.UTC), 24*time.Hour)
}

func players(puuids ...string) []ladder.PlayerEntry {
	out := make([]ladder.PlayerEntry, 0, len(puuids))
	for _, puuid := range puuids {
		out = append(out, ladder.PlayerEntry{Puuid: puuid, Tier: ladder.TierGold, Division: ladder.DivisionI})
	}
	return out
}

func TestMatchDiscoverer_EmptyBatchMakesNoCalls(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	repo := matchmock.NewRepository(t)
	discoverer := NewMatchDiscoverer(provider, repo, NewClaimSet(), MatchDiscovererConfig{Concurrency: 4, Retry: testRetryPolicy()}, testLogger())

	result, err := discoverer.Discover(context.Background(), "NA1", testWindow(), nil)
	require.NoError(t, err)
	require.Empty(t, result.MatchIDs)
	require.Zero(t, provider.ListCalls())
}

func TestMatchDiscoverer_SubtractsStoredMatches(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.idsByPuuid = map[string][]string{
		"P1": {"NA1_101", "NA1_102"},
		"P2": {"NA1_103"},
		"P3": {"NA1_104", "NA1_101"},
		"P4": {"NA1_105"},
	}

	repo := matchmock.NewRepository(t)
	repo.
		On("ExistingGameIDs", mock.Anything, ladder.Region("NA1"), []int64{101, 102, 103, 104, 105}).
		Return(map[int64]struct{}{101: {}, 102: {}, 103: {}}, nil).
		Once()

	discoverer := NewMatchDiscoverer(provider, repo, nil, MatchDiscovererConfig{Concurrency: 2, Retry: testRetryPolicy()}, testLogger())
	result, err := discoverer.Discover(context.Background(), "NA1", testWindow(), players("P1", "P2", "P3", "P4", "P5"))
	require.NoError(t, err)

	require.Equal(t, []string{"NA1_104", "NA1_105"}, result.MatchIDs)
	require.Equal(t, 5, result.Listed)
	require.Equal(t, 3, result.AlreadyStored)
	require.Equal(t, 5, provider.ListCalls())
}

func TestMatchDiscoverer_SecondPassIsEmpty(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.idsByPuuid = map[string][]string{
		"P1": {"KR_7", "KR_8"},
		"P2": {"KR_8", "KR_9"},
	}
	repo := memory.NewMatchRepository(match.Match{Region: "KR", GameID: 9})
	discoverer := NewMatchDiscoverer(provider, repo, NewClaimSet(), MatchDiscovererConfig{Concurrency: 2, Retry: testRetryPolicy()}, testLogger())

	first, err := discoverer.Discover(context.Background(), "KR", testWindow(), players("P1", "P2"))
	require.NoError(t, err)
	require.Equal(t, []string{"KR_7", "KR_8"}, first.MatchIDs)

	second, err := discoverer.Discover(context.Background(), "KR", testWindow(), players("P1", "P2"))
	require.NoError(t, err)
	require.Empty(t, second.MatchIDs)
	require.Equal(t, 2, second.AlreadyClaimed)
	require.Equal(t, 1, second.AlreadyStored)
}

func TestMatchDiscoverer_SkipsFailingPlayers(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.idsByPuuid = map[string][]string{"P1": {"NA1_1", "garbage"}}
	provider.listErr = map[string]error{"P2": ErrUpstreamTransient}

	discoverer := NewMatchDiscoverer(provider, memory.NewMatchRepository(), nil, MatchDiscovererConfig{Concurrency: 1, Retry: testRetryPolicy()}, testLogger())
	result, err := discoverer.Discover(context.Background(), "NA1", testWindow(), players("P1", "P2"))
	require.NoError(t, err)

	require.Equal(t, []string{"NA1_1"}, result.MatchIDs)
	require.Equal(t, 1, result.PlayersFailed)
	require.Equal(t, 4, provider.ListCalls(), "one call for P1, three attempts for P2")
}

func TestMatchDiscoverer_StoreFailureAbandonsBatch(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.idsByPuuid = map[string][]string{"P1": {"NA1_1"}}

	repo := matchmock.NewRepository(t)
	repo.On("ExistingGameIDs", mock.Anything, ladder.Region("NA1"), []int64{1}).Return(nil, errors.New("connection reset"))

	discoverer := NewMatchDiscoverer(provider, repo, NewClaimSet(), MatchDiscovererConfig{Retry: testRetryPolicy()}, testLogger())
	_, err := discoverer.Discover(context.Background(), "NA1", testWindow(), players("P1"))
	require.ErrorContains(t, err, "connection reset")
}

func TestDailyWindow(t *testing.T) {
	t.Parallel()

	window := DailyWindow(time.Date(2024, 2, 21, 23, 59, 0, 0, time.FixedZone("WIB", 7*3600)), 0)
	require.Equal(t, time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC), window.End)
	require.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), window.Start)
}

func TestClaimSet_FirstClaimWins(t *testing.T) {
	t.Parallel()

	claims := NewClaimSet()
	require.True(t, claims.Claim("NA1", 1))
	require.False(t, claims.Claim("NA1", 1))
	require.True(t, claims.Claim("KR", 1))
	require.Equal(t, 2, claims.Len())
}
