// Package server exposes the local status endpoints: liveness, Prometheus
// metrics and the current health-score snapshot.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/bizpulse/bizpulse/internal/api"
	"github.com/bizpulse/bizpulse/internal/insights"
	"github.com/bizpulse/bizpulse/internal/metrics"
	"github.com/bizpulse/bizpulse/internal/score"
)

// SnapshotSource provides the current insight snapshot.
type SnapshotSource interface {
	Snapshot() *api.InsightsResponse
}

// QualitySource provides the poller's current classification and state.
type QualitySource interface {
	Quality() insights.Quality
	State() insights.PollState
}

// Server serves the status endpoints.
type Server struct {
	addr     string
	snapshot SnapshotSource
	quality  QualitySource
	registry *metrics.Registry
	httpSrv  *http.Server
}

// New creates a status server bound to addr.
func New(addr string, snapshot SnapshotSource, quality QualitySource, registry *metrics.Registry) *Server {
	s := &Server{
		addr:     addr,
		snapshot: snapshot,
		quality:  quality,
		registry: registry,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/score", s.handleScore).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(registry.Prometheus(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.addr).Msg("status server listening")
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the configured router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

type healthResponse struct {
	Status    string `json:"status"`
	PollState string `json:"poll_state"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		PollState: string(s.quality.State()),
	})
}

type scoreResponse struct {
	Score        int                     `json:"score"`
	Status       string                  `json:"status"`
	StatusColor  string                  `json:"status_color"`
	Narrative    string                  `json:"narrative"`
	DataQuality  insights.Quality        `json:"data_quality"`
	Breakdown    []score.BreakdownMetric `json:"breakdown"`
	CalculatedAt *time.Time              `json:"calculated_at"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot loaded"})
		return
	}

	value := score.HeuristicScoreFromSnapshot(snap)
	s.registry.SetHealthScore(value)

	writeJSON(w, http.StatusOK, scoreResponse{
		Score:        value,
		Status:       score.HealthStatus(value),
		StatusColor:  score.HealthStatusColor(value),
		Narrative:    score.HealthNarrative(value),
		DataQuality:  s.quality.Quality(),
		Breakdown:    score.Breakdown(snap),
		CalculatedAt: snap.CalculatedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("encode status response")
	}
}
