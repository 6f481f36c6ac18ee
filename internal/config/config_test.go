package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresRiotAPIKey(t *testing.T) {
	setRequired(t)
	t.Setenv("RIOT_API_KEY", " ")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without RIOT_API_KEY")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("CRAWL_REGIONS", "")
	t.Setenv("CRAWL_TIERS", "")
	t.Setenv("CRAWL_DIVISIONS", "")
	t.Setenv("CRAWL_SCHEDULE", "")
	t.Setenv("RIOT_RATE_LIMITS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StorePostgres, cfg.StoreBackend)
	require.Equal(t, []ladder.Region{"NA1", "EUW1", "KR"}, cfg.Crawl.Regions)
	require.Equal(t, ladder.Tiers, cfg.Crawl.Tiers)
	require.Equal(t, ladder.Divisions, cfg.Crawl.Divisions)
	require.Equal(t, 10, cfg.Crawl.FetchConcurrency)
	require.Equal(t, 3, cfg.Crawl.RetryAttempts)
	require.Equal(t, 24*time.Hour, cfg.Crawl.MatchWindow)
	require.Zero(t, cfg.Crawl.Schedule)
	require.Nil(t, cfg.Riot.RateLimits)
	require.Equal(t, 20*time.Second, cfg.Riot.Timeout)
}

func TestLoad_CrawlOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CRAWL_REGIONS", "euw1, xx9")
	t.Setenv("CRAWL_REGION_ROUTES", "XX9:europe")
	t.Setenv("CRAWL_TIERS", "gold,challenger")
	t.Setenv("CRAWL_DIVISIONS", "I,IV")
	t.Setenv("CRAWL_SCHEDULE", "30m")
	t.Setenv("CRAWL_PAIR_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []ladder.Region{"EUW1", "XX9"}, cfg.Crawl.Regions)
	route, ok := cfg.Crawl.Routes.Route("XX9")
	require.True(t, ok)
	require.Equal(t, ladder.RouteEurope, route)
	require.Equal(t, []ladder.Tier{ladder.TierGold, ladder.TierChallenger}, cfg.Crawl.Tiers)
	require.Equal(t, []ladder.Division{ladder.DivisionI, ladder.DivisionIV}, cfg.Crawl.Divisions)
	require.Equal(t, 30*time.Minute, cfg.Crawl.Schedule)
	require.Equal(t, 4, cfg.Crawl.PairWorkers)
}

func TestLoad_CrawlValidation(t *testing.T) {
	cases := map[string][2]string{
		"unrouted region":   {"CRAWL_REGIONS", "ZZ1"},
		"bad tier":          {"CRAWL_TIERS", "WOOD"},
		"bad division":      {"CRAWL_DIVISIONS", "V"},
		"zero concurrency":  {"CRAWL_FETCH_CONCURRENCY", "0"},
		"zero attempts":     {"CRAWL_RETRY_ATTEMPTS", "0"},
		"four attempts":     {"CRAWL_RETRY_ATTEMPTS", "4"},
		"negative window":   {"CRAWL_MATCH_WINDOW", "-1h"},
		"bad route":         {"CRAWL_REGION_ROUTES", "NA1:MOON"},
		"negative schedule": {"CRAWL_SCHEDULE", "-5m"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoad_RiotRateLimits(t *testing.T) {
	setRequired(t)
	t.Setenv("RIOT_RATE_LIMITS", "20:1s, 100:2m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []RateLimit{{Requests: 20, Window: time.Second}, {Requests: 100, Window: 2 * time.Minute}}, cfg.Riot.RateLimits)

	t.Setenv("RIOT_RATE_LIMITS", "20")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_StoreBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", "Memory")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.StoreBackend)

	t.Setenv("STORE_BACKEND", "redis")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setRequired(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://token@api.uptrace.dev?grpc=4317", cfg.UptraceDSN)
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}
