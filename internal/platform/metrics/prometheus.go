// Package metrics exposes Prometheus counters for the crawl pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the pipeline metrics and the registry they live on.
type Manager struct {
	namespace  string
	subsystem  string
	runBuckets []float64
	registry   *prometheus.Registry

	pages           *prometheus.CounterVec
	matchesFound    *prometheus.CounterVec
	matchesFetched  *prometheus.CounterVec
	fetchFailures   *prometheus.CounterVec
	matchesRejected *prometheus.CounterVec
	matchesExcluded *prometheus.CounterVec
	matchesWritten  *prometheus.CounterVec
	unitFailures    *prometheus.CounterVec
	runDuration     prometheus.Histogram
	lastRunUnix     prometheus.Gauge
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:  "statikk",
		subsystem:  "crawler",
		runBuckets: []float64{30, 60, 300, 900, 1800, 3600, 7200},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}

	m.pages = counter("ladder_pages_total", "Ladder pages walked", "region")
	m.matchesFound = counter("matches_discovered_total", "Unseen match ids discovered", "region")
	m.matchesFetched = counter("matches_fetched_total", "Match bodies fetched", "region")
	m.fetchFailures = counter("match_fetch_failures_total", "Match ids dropped after retries", "region")
	m.matchesRejected = counter("matches_rejected_total", "Matches rejected by normalization", "region", "reason")
	m.matchesExcluded = counter("matches_excluded_total", "Matches excluded at write time", "region", "reason")
	m.matchesWritten = counter("matches_written_total", "Matches inserted", "region")
	m.unitFailures = counter("unit_failures_total", "Abandoned units of work", "region", "method")

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Duration of full crawl runs",
		Buckets:   m.runBuckets,
	})
	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_completed_unix",
		Help:      "Unix time of the last completed crawl run",
	})
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) PageWalked(region string) {
	m.pages.WithLabelValues(region).Inc()
}

func (m *Manager) MatchesDiscovered(region string, n int) {
	m.matchesFound.WithLabelValues(region).Add(float64(n))
}

func (m *Manager) MatchesFetched(region string, n int) {
	m.matchesFetched.WithLabelValues(region).Add(float64(n))
}

func (m *Manager) MatchFetchFailed(region string, n int) {
	m.fetchFailures.WithLabelValues(region).Add(float64(n))
}

func (m *Manager) MatchRejected(region, reason string) {
	m.matchesRejected.WithLabelValues(region, reason).Inc()
}

func (m *Manager) MatchesExcluded(region, reason string, n int) {
	m.matchesExcluded.WithLabelValues(region, reason).Add(float64(n))
}

func (m *Manager) MatchesWritten(region string, n int) {
	m.matchesWritten.WithLabelValues(region).Add(float64(n))
}

func (m *Manager) UnitFailed(region, method string) {
	m.unitFailures.WithLabelValues(region, method).Inc()
}

func (m *Manager) RunCompleted(duration time.Duration) {
	m.runDuration.Observe(duration.Seconds())
	m.lastRunUnix.SetToCurrentTime()
}
