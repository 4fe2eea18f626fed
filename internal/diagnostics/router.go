// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package diagnostics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/plexintel/internal/logging"
	"github.com/tomtom215/plexintel/internal/recommend"
)

// ViewSource exposes the recommendation view for inspection.
type ViewSource interface {
	Snapshot() recommend.Snapshot
}

// Options wires the diagnostics endpoints. Nil fields disable what they feed.
type Options struct {
	// View backs /debug/view.
	View ViewSource

	// BreakerState reports the backend circuit breaker state for /healthz.
	BreakerState func() string

	// StartTime is reported as uptime. Default: time of NewRouter
	StartTime time.Time
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Backend       string  `json:"backend_breaker,omitempty"`
}

// NewRouter builds the local diagnostics server:
//
//	GET /healthz     liveness plus backend breaker state
//	GET /metrics     Prometheus exposition
//	GET /debug/view  JSON snapshot of the recommendation view
func NewRouter(opts Options) http.Handler {
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	h := &handler{opts: opts}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog)

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/debug/view", h.view)
	return r
}

type handler struct {
	opts Options
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.opts.StartTime).Seconds(),
	}
	status := http.StatusOK
	if h.opts.BreakerState != nil {
		resp.Backend = h.opts.BreakerState()
		if resp.Backend == "open" {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

func (h *handler) view(w http.ResponseWriter, _ *http.Request) {
	if h.opts.View == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no recommendation view is active"})
		return
	}
	writeJSON(w, http.StatusOK, h.opts.View.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to encode diagnostics response")
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	//nolint:errcheck // HTTP response write errors are not recoverable
	w.Write(body)
}

// accessLog logs each request at debug with chi's request ID.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logging.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("diagnostics request")
	})
}
