// Package metrics holds the Prometheus instrumentation for the insight
// engine, exposed by the status server's /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all BizPulse metrics.
type Registry struct {
	APIRequests  *prometheus.CounterVec
	APIDuration  *prometheus.HistogramVec
	CacheHits    *prometheus.CounterVec
	CacheMisses  *prometheus.CounterVec
	PollCycles   *prometheus.CounterVec
	Mutations    *prometheus.CounterVec
	HealthScore  prometheus.Gauge
	DataQuality  *prometheus.GaugeVec
	promRegistry *prometheus.Registry
}

// NewRegistry creates and registers all metrics on a fresh Prometheus
// registry.
func NewRegistry() *Registry {
	r := &Registry{
		APIRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_api_requests_total",
				Help: "Total backend API requests by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		APIDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizpulse_api_request_duration_seconds",
				Help:    "Backend API request duration in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"endpoint"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_cache_hits_total",
				Help: "Cache hits by store",
			},
			[]string{"store"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_cache_misses_total",
				Help: "Cache misses by store",
			},
			[]string{"store"},
		),
		PollCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_poll_cycles_total",
				Help: "Generation poll cycles by outcome",
			},
			[]string{"outcome"},
		),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_insight_mutations_total",
				Help: "Insight mutations by action and result",
			},
			[]string{"action", "result"},
		),
		HealthScore: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bizpulse_health_score",
				Help: "Most recently computed business health score (0-100)",
			},
		),
		DataQuality: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bizpulse_data_quality",
				Help: "Current data quality classification (1 for the active class)",
			},
			[]string{"quality"},
		),
		promRegistry: prometheus.NewRegistry(),
	}

	r.promRegistry.MustRegister(
		r.APIRequests, r.APIDuration,
		r.CacheHits, r.CacheMisses,
		r.PollCycles, r.Mutations,
		r.HealthScore, r.DataQuality,
	)
	return r
}

// Prometheus exposes the underlying registry for the /metrics handler.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.promRegistry
}

// ObserveAPIRequest records one backend request. Matches the API client's
// metrics callback signature.
func (r *Registry) ObserveAPIRequest(endpoint, result string, elapsed time.Duration) {
	r.APIRequests.WithLabelValues(endpoint, result).Inc()
	r.APIDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveCache records a hit or miss for one store. Matches the cache
// observer signature.
func (r *Registry) ObserveCache(store string, hit bool) {
	if hit {
		r.CacheHits.WithLabelValues(store).Inc()
		return
	}
	r.CacheMisses.WithLabelValues(store).Inc()
}

// ObserveMutation records one insight mutation attempt. Matches the
// manager's metrics callback signature.
func (r *Registry) ObserveMutation(action, result string) {
	r.Mutations.WithLabelValues(action, result).Inc()
}

// SetHealthScore records the latest heuristic score.
func (r *Registry) SetHealthScore(score int) {
	r.HealthScore.Set(float64(score))
}

// SetDataQuality marks the active quality class, clearing the others.
func (r *Registry) SetDataQuality(quality string) {
	for _, q := range []string{"Good", "Mixed", "Low"} {
		v := 0.0
		if q == quality {
			v = 1.0
		}
		r.DataQuality.WithLabelValues(q).Set(v)
	}
}
