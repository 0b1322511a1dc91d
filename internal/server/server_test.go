package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizpulse/bizpulse/internal/api"
	"github.com/bizpulse/bizpulse/internal/insights"
	"github.com/bizpulse/bizpulse/internal/metrics"
)

type staticSnapshot struct {
	resp *api.InsightsResponse
}

func (s *staticSnapshot) Snapshot() *api.InsightsResponse { return s.resp }

type staticQuality struct {
	quality insights.Quality
	state   insights.PollState
}

func (s *staticQuality) Quality() insights.Quality { return s.quality }
func (s *staticQuality) State() insights.PollState { return s.state }

func newTestServer(snapshot *api.InsightsResponse) *Server {
	return New(":0",
		&staticSnapshot{resp: snapshot},
		&staticQuality{quality: insights.QualityGood, state: insights.StateIdle},
		metrics.NewRegistry(),
	)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "idle", body["poll_state"])
}

func TestServer_ScoreWithoutSnapshot(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/score", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Score(t *testing.T) {
	snap := &api.InsightsResponse{
		CashRunway:    &api.CashRunwayMetrics{Status: "healthy", ConfidenceLevel: "High"},
		CashPressure:  &api.CashPressureMetrics{Status: "GREEN", Confidence: "high"},
		Profitability: &api.ProfitabilityMetrics{RiskLevel: "low"},
	}
	srv := newTestServer(snap)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/score", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Score       int    `json:"score"`
		Status      string `json:"status"`
		StatusColor string `json:"status_color"`
		DataQuality string `json:"data_quality"`
		Breakdown   []struct {
			Name string `json:"name"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 100, body.Score, "best case clamps at 100")
	assert.Equal(t, "Healthy", body.Status)
	assert.Equal(t, "#079455", body.StatusColor)
	assert.Equal(t, "Good", body.DataQuality)
	assert.Len(t, body.Breakdown, 3)
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bizpulse_")
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/score", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
