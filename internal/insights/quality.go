package insights

import (
	"strings"

	"github.com/bizpulse/bizpulse/internal/api"
)

// Quality is the derived data-quality classification shown on the
// dashboard.
type Quality string

const (
	QualityGood  Quality = "Good"
	QualityMixed Quality = "Mixed"
	QualityLow   Quality = "Low"
)

// Classify derives data quality from the confidence fields of a snapshot:
// any low confidence wins, then any medium, otherwise good. The backend is
// inconsistent about confidence casing across metrics, so matching is
// case-insensitive.
func Classify(resp *api.InsightsResponse) Quality {
	if resp == nil {
		return QualityGood
	}

	var levels []string
	if resp.CashRunway != nil {
		levels = append(levels, resp.CashRunway.ConfidenceLevel)
	}
	if resp.CashPressure != nil {
		levels = append(levels, resp.CashPressure.Confidence)
	}

	hasMedium := false
	for _, level := range levels {
		switch strings.ToLower(level) {
		case "low":
			return QualityLow
		case "medium":
			hasMedium = true
		}
	}
	if hasMedium {
		return QualityMixed
	}
	return QualityGood
}
