package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/config"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func testConfig(riotURL string) config.Config {
	return config.Config{
		AppEnv:       config.EnvDev,
		ServiceName:  "statikk-crawler",
		StoreBackend: config.StoreMemory,
		CacheEnabled: true,
		CacheTTL:     time.Minute,
		Riot: config.RiotConfig{
			APIKey:       "RGAPI-test",
			HostTemplate: riotURL + "/%s",
			Timeout:      5 * time.Second,
			RateLimits:   []config.RateLimit{},
		},
		Crawl: config.CrawlConfig{
			Regions:          []ladder.Region{"NA1"},
			Routes:           ladder.DefaultRouteMap(),
			Tiers:            []ladder.Tier{ladder.TierGold},
			Divisions:        []ladder.Division{ladder.DivisionI},
			FetchConcurrency: 2,
			MatchWindow:      24 * time.Hour,
			RetryAttempts:    1,
			PatchLookupSize:  5,
		},
	}
}

func TestApp_RunOneShotWithMemoryStore(t *testing.T) {
	var ladderCalls, idCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/lol/league-exp/v4/entries/"):
			ladderCalls.Add(1)
			if r.URL.Query().Get("page") == "1" {
				_, _ = w.Write([]byte(`[{"tier":"GOLD","rank":"I","puuid":"P1","summonerId":"S1","leaguePoints":40}]`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		case strings.Contains(r.URL.Path, "/by-puuid/"):
			idCalls.Add(1)
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	a, err := New(ctx, testConfig(srv.URL), logging.NewNop())
	require.NoError(t, err)
	require.Nil(t, a.ops, "ops server is off unless metrics or pprof are enabled")

	require.NoError(t, a.Run(ctx))
	require.NoError(t, a.Close())

	require.Equal(t, int32(2), ladderCalls.Load())
	require.Equal(t, int32(1), idCalls.Load())

	last, ok := a.jobs.LastCrawl()
	require.True(t, ok)
	require.Equal(t, 1, last.Pages)
	require.Equal(t, 1, last.Players)
	require.True(t, last.AggregatesFresh)
}

func TestApp_BuildsOpsServerWhenMetricsEnabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MetricsEnabled = true
	cfg.MetricsAddr = "127.0.0.1:0"

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.ops)

	rec := httptest.NewRecorder()
	a.ops.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")

	rec = httptest.NewRecorder()
	a.ops.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, a.Close())
}

func TestRiotRateLimits(t *testing.T) {
	require.Nil(t, riotRateLimits(nil))
	require.Empty(t, riotRateLimits([]config.RateLimit{}))
	require.NotNil(t, riotRateLimits([]config.RateLimit{}))

	out := riotRateLimits([]config.RateLimit{{Requests: 20, Window: time.Second}})
	require.Len(t, out, 1)
	require.Equal(t, 20, out[0].Requests)
}
