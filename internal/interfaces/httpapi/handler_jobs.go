package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/statikk-crawler/internal/usecase"
)

func (h *Handler) RunCrawlJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCrawlJob")
	defer span.End()

	if h.jobs == nil {
		writeError(ctx, w, fmt.Errorf("%w: job runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	if err := h.jobs.TriggerCrawl(ctx); err != nil {
		h.logger.WarnContext(ctx, "trigger crawl job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) GetLastCrawl(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLastCrawl")
	defer span.End()

	if h.jobs == nil {
		writeError(ctx, w, fmt.Errorf("%w: job runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, ok := h.jobs.LastCrawl()
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no crawl has finished yet", usecase.ErrNotFound))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, crawlResultToDTO(result))
}

func (h *Handler) RunReferenceSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReferenceSyncJob")
	defer span.End()

	if h.jobs == nil {
		writeError(ctx, w, fmt.Errorf("%w: job runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.jobs.SyncReferenceData(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "reference sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, referenceSyncDTO{
		Patches:     result.Patches,
		Champions:   result.Champions,
		Queues:      result.Queues,
		LatestPatch: result.LatestPatch,
	})
}
