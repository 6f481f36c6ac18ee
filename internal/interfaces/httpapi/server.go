package httpapi

import (
	"net/http"

	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
)

type RouterOptions struct {
	InternalJobToken string
	PprofEnabled     bool
}

// NewRouter serves the crawler's operational surface: probes, metrics, pprof and job triggers.
func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	if opts.PprofEnabled {
		registerPprofRoutes(mux)
	}
	registerInternalJobRoutes(mux, handler, opts.InternalJobToken)

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
