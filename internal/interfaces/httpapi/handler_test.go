package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/usecase"
	"github.com/stretchr/testify/require"
)

type fakeJobRunner struct {
	mu        sync.Mutex
	triggered int
	triggerFn func() error
	last      *usecase.CrawlResult
	syncErr   error
}

func (f *fakeJobRunner) TriggerCrawl(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered++
	if f.triggerFn != nil {
		return f.triggerFn()
	}
	return nil
}

func (f *fakeJobRunner) LastCrawl() (usecase.CrawlResult, bool) {
	if f.last == nil {
		return usecase.CrawlResult{}, false
	}
	return *f.last, true
}

func (f *fakeJobRunner) SyncReferenceData(context.Context) (usecase.ReferenceSyncResult, error) {
	if f.syncErr != nil {
		return usecase.ReferenceSyncResult{}, f.syncErr
	}
	return usecase.ReferenceSyncResult{Patches: 2, Champions: 160, Queues: 40, LatestPatch: "14.10"}, nil
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

const testJobToken = "job-secret"

func newTestRouter(jobs JobRunner, ready ReadinessChecker, pprofEnabled bool) http.Handler {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("crawler_pages_walked_total 1\n"))
	})
	handler := NewHandler(jobs, ready, metrics, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), RouterOptions{InternalJobToken: testJobToken, PprofEnabled: pprofEnabled})
}

func doRequest(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("X-Internal-Job-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Probes(t *testing.T) {
	healthy := newTestRouter(nil, pingerFunc(func(context.Context) error { return nil }), false)
	require.Equal(t, http.StatusOK, doRequest(healthy, http.MethodGet, "/healthz", "").Code)
	require.Equal(t, http.StatusOK, doRequest(healthy, http.MethodGet, "/readyz", "").Code)

	metrics := doRequest(healthy, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, metrics.Code)
	require.Contains(t, metrics.Body.String(), "crawler_pages_walked_total")

	down := newTestRouter(nil, pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }), false)
	require.Equal(t, http.StatusServiceUnavailable, doRequest(down, http.MethodGet, "/readyz", "").Code)
}

func TestRouter_PprofOnlyWhenEnabled(t *testing.T) {
	require.Equal(t, http.StatusNotFound, doRequest(newTestRouter(nil, nil, false), http.MethodGet, "/debug/pprof/", "").Code)
	require.Equal(t, http.StatusOK, doRequest(newTestRouter(nil, nil, true), http.MethodGet, "/debug/pprof/", "").Code)
}

func TestRouter_CrawlJobRequiresToken(t *testing.T) {
	jobs := &fakeJobRunner{}
	router := newTestRouter(jobs, nil, false)

	require.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodPost, "/v1/internal/jobs/crawl", "").Code)
	require.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodPost, "/v1/internal/jobs/crawl", "wrong").Code)
	require.Zero(t, jobs.triggered)

	rec := doRequest(router, http.MethodPost, "/v1/internal/jobs/crawl", testJobToken)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, jobs.triggered)
}

func TestRouter_CrawlJobConflictWhileRunning(t *testing.T) {
	jobs := &fakeJobRunner{triggerFn: func() error { return usecase.ErrRunInProgress }}
	router := newTestRouter(jobs, nil, false)

	rec := doRequest(router, http.MethodPost, "/v1/internal/jobs/crawl", testJobToken)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_LastCrawl(t *testing.T) {
	jobs := &fakeJobRunner{}
	router := newTestRouter(jobs, nil, false)
	require.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/v1/internal/jobs/crawl/last", testJobToken).Code)

	jobs.last = &usecase.CrawlResult{RunID: "run-1", Written: 7, Duration: 1500 * time.Millisecond, AggregatesFresh: true}
	rec := doRequest(router, http.MethodGet, "/v1/internal/jobs/crawl/last", testJobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data crawlResultDTO `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "run-1", body.Data.RunID)
	require.Equal(t, 7, body.Data.Written)
	require.Equal(t, int64(1500), body.Data.DurationMS)
	require.True(t, body.Data.AggregatesFresh)
}

func TestRouter_ReferenceSync(t *testing.T) {
	jobs := &fakeJobRunner{}
	router := newTestRouter(jobs, nil, false)

	rec := doRequest(router, http.MethodPost, "/v1/internal/jobs/reference-sync", testJobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"latest_patch":"14.10"`)

	jobs.syncErr = usecase.ErrUpstreamTransient
	rec = doRequest(router, http.MethodPost, "/v1/internal/jobs/reference-sync", testJobToken)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_JobRoutesWithoutRunner(t *testing.T) {
	router := newTestRouter(nil, nil, false)
	require.Equal(t, http.StatusServiceUnavailable, doRequest(router, http.MethodPost, "/v1/internal/jobs/crawl", testJobToken).Code)
}
