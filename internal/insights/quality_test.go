package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bizpulse/bizpulse/internal/api"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		resp *api.InsightsResponse
		want Quality
	}{
		{"nil snapshot", nil, QualityGood},
		{"no metric blocks", &api.InsightsResponse{}, QualityGood},
		{
			"all high",
			&api.InsightsResponse{
				CashRunway:   &api.CashRunwayMetrics{ConfidenceLevel: "High"},
				CashPressure: &api.CashPressureMetrics{Confidence: "high"},
			},
			QualityGood,
		},
		{
			"runway medium",
			&api.InsightsResponse{
				CashRunway:   &api.CashRunwayMetrics{ConfidenceLevel: "Medium"},
				CashPressure: &api.CashPressureMetrics{Confidence: "high"},
			},
			QualityMixed,
		},
		{
			"pressure low wins over medium",
			&api.InsightsResponse{
				CashRunway:   &api.CashRunwayMetrics{ConfidenceLevel: "Medium"},
				CashPressure: &api.CashPressureMetrics{Confidence: "low"},
			},
			QualityLow,
		},
		{
			"mixed casing from backend",
			&api.InsightsResponse{
				CashRunway: &api.CashRunwayMetrics{ConfidenceLevel: "Low"},
			},
			QualityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.resp))
		})
	}
}
