package httpapi

import (
	"net/http"
	"net/http/pprof"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	mux.HandleFunc("GET /metrics", handler.Metrics)
}

func registerPprofRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/crawl", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCrawlJob)))
	mux.Handle("GET /v1/internal/jobs/crawl/last", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetLastCrawl)))
	mux.Handle("POST /v1/internal/jobs/reference-sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReferenceSyncJob)))
}
