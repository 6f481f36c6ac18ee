package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/usecase"
)

const readinessTimeout = 2 * time.Second

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if h.ready != nil {
		pingCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
		defer cancel()
		if err := h.ready.Ping(pingCtx); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: store ping failed", usecase.ErrDependencyUnavailable))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		http.NotFound(w, r)
		return
	}
	h.metrics.ServeHTTP(w, r)
}
