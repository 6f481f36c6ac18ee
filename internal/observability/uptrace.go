// Package observability starts the optional trace exporter and continuous profiler.
package observability

import (
	"context"
	"errors"
	"strings"

	"github.com/riskibarqy/statikk-crawler/internal/config"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// Telemetry stops what Start started, in reverse order.
type Telemetry struct {
	stops []func(context.Context) error
}

// Start brings up Uptrace and Pyroscope according to cfg. Disabled exporters are skipped.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	t := &Telemetry{}

	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, err
	}
	t.stops = append(t.stops, shutdownTracing)

	stopProfiler, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	t.stops = append(t.stops, func(context.Context) error { return stopProfiler() })
	return t, nil
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(t.stops) - 1; i >= 0; i-- {
		if err := t.stops[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InitUptrace configures the global OpenTelemetry providers for Uptrace.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func(context.Context) error { return nil }

	switch {
	case !cfg.UptraceEnabled:
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return noop, nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(crawlAttributes(cfg)...),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)
	return uptrace.Shutdown, nil
}

func crawlAttributes(cfg config.Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("crawler.store", cfg.StoreBackend),
		attribute.String("crawler.regions", regionList(cfg)),
	}
}

func regionList(cfg config.Config) string {
	names := make([]string, 0, len(cfg.Crawl.Regions))
	for _, region := range cfg.Crawl.Regions {
		names = append(names, string(region))
	}
	return strings.Join(names, ",")
}
