package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchFetcher_DropsAfterExactlyThreeAttempts(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.matches["NA1_1"] = testRawMatch("NA1", 1, testLobby("a")...)
	provider.matches["NA1_3"] = testRawMatch("NA1", 3, testLobby("c")...)
	provider.getErr["NA1_2"] = []error{ErrUpstreamTransient, ErrUpstreamTransient, ErrUpstreamTransient, ErrUpstreamTransient}

	fetcher := NewMatchFetcher(provider, testRetryPolicy(), 2, testLogger())
	result := fetcher.Fetch(context.Background(), "NA1", []string{"NA1_3", "NA1_2", "NA1_1"})

	require.Len(t, result.Matches, 2)
	require.Equal(t, "NA1_1", result.Matches[0].MatchID)
	require.Equal(t, "NA1_3", result.Matches[1].MatchID)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, 3, provider.GetCalls("NA1_2"))
}

func TestMatchFetcher_IgnoresLargerAttemptBudget(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.getErr["NA1_7"] = []error{
		ErrUpstreamTransient, ErrUpstreamTransient, ErrUpstreamTransient, ErrUpstreamTransient,
		ErrUpstreamTransient, ErrUpstreamTransient, ErrUpstreamTransient,
	}
	retry := testRetryPolicy()
	retry.Attempts = 7

	result := NewMatchFetcher(provider, retry, 1, testLogger()).Fetch(context.Background(), "NA1", []string{"NA1_7"})

	require.Empty(t, result.Matches)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, 3, provider.GetCalls("NA1_7"))
}

func TestMatchFetcher_RecoversFromTransientFailure(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.matches["EUW1_9"] = testRawMatch("EUW1", 9, testLobby("e")...)
	provider.getErr["EUW1_9"] = []error{ErrUpstreamTransient}

	result := NewMatchFetcher(provider, testRetryPolicy(), 1, testLogger()).Fetch(context.Background(), "EUW1", []string{"EUW1_9"})

	require.Len(t, result.Matches, 1)
	require.Zero(t, result.Failed)
	require.Equal(t, 2, provider.GetCalls("EUW1_9"))
}

func TestMatchFetcher_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	result := NewMatchFetcher(provider, testRetryPolicy(), 4, testLogger()).Fetch(context.Background(), "KR", []string{"KR_404"})

	require.Empty(t, result.Matches)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, 1, result.NotFound)
	require.Equal(t, 1, provider.GetCalls("KR_404"))
}

func TestMatchFetcher_ZeroSuccessIsNotAnError(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.getErr["NA1_1"] = []error{ErrUpstreamTransient, ErrUpstreamTransient, ErrUpstreamTransient}
	provider.getErr["NA1_2"] = []error{ErrDependencyUnavailable, ErrDependencyUnavailable, ErrDependencyUnavailable}

	result := NewMatchFetcher(provider, testRetryPolicy(), 2, testLogger()).Fetch(context.Background(), "NA1", []string{"NA1_1", "NA1_2"})
	require.NotNil(t, result.Matches)
	require.Empty(t, result.Matches)
	require.Equal(t, 2, result.Failed)
}

func TestMatchFetcher_EmptyInput(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	result := NewMatchFetcher(provider, testRetryPolicy(), 2, testLogger()).Fetch(context.Background(), "NA1", nil)
	require.Empty(t, result.Matches)
	require.Zero(t, result.Failed)
}
