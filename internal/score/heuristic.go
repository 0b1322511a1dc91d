// Package score turns backend-supplied health data into the displayed
// business health score, grade, drivers and breakdown metrics.
package score

import "github.com/bizpulse/bizpulse/internal/api"

// Health status labels and their display colors. The UI depends on these
// exact thresholds and values.
const (
	StatusHealthy    = "Healthy"
	StatusAtRisk     = "At Risk"
	StatusTakeAction = "Take Action"

	ColorGood = "#079455"
	ColorWarn = "#f59e0b"
	ColorBad  = "#d92d20"
)

const heuristicBase = 50

// HeuristicScore derives a 0-100 health score from the three independent
// status signals when no full scorecard is available. Unrecognized statuses
// contribute nothing; the result is clamped to [0, 100].
func HeuristicScore(cashRunwayStatus, cashPressureStatus, profitabilityRisk string) int {
	score := heuristicBase

	// "infinite" (cash-flow positive) earns the same full credit as
	// "healthy"; a runway can only be one of the two.
	switch cashRunwayStatus {
	case "healthy", "infinite":
		score += 30
	case "warning":
		score += 15
	case "critical":
		score += 5
	case "negative":
		score -= 20
	}

	switch cashPressureStatus {
	case "GREEN":
		score += 25
	case "AMBER":
		score += 12
	case "RED":
		score -= 10
	}

	switch profitabilityRisk {
	case "low":
		score += 25
	case "medium":
		score += 10
	case "high":
		score -= 10
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// HeuristicScoreFromSnapshot applies HeuristicScore to an insights
// snapshot, treating absent metric blocks as unrecognized statuses.
func HeuristicScoreFromSnapshot(resp *api.InsightsResponse) int {
	if resp == nil {
		return 0
	}
	var runway, pressure, risk string
	if resp.CashRunway != nil {
		runway = resp.CashRunway.Status
	}
	if resp.CashPressure != nil {
		pressure = resp.CashPressure.Status
	}
	if resp.Profitability != nil {
		risk = resp.Profitability.RiskLevel
	}
	return HeuristicScore(runway, pressure, risk)
}

// HealthStatus maps a 0-100 score to its display label.
func HealthStatus(score int) string {
	switch {
	case score >= 60:
		return StatusHealthy
	case score >= 40:
		return StatusAtRisk
	default:
		return StatusTakeAction
	}
}

// HealthStatusColor maps a 0-100 score to the label's display color.
func HealthStatusColor(score int) string {
	switch {
	case score >= 60:
		return ColorGood
	case score >= 40:
		return ColorWarn
	default:
		return ColorBad
	}
}

// HealthNarrative is the one-line summary shown under the score.
func HealthNarrative(score int) string {
	switch {
	case score >= 60:
		return "Your business is performing well with stable cash flow and manageable risks. A few items need attention but nothing urgent."
	case score >= 40:
		return "Your business shows some areas of concern. Monitor cash flow closely and address key issues promptly."
	default:
		return "Your business requires immediate attention. Take action on critical issues to improve financial health."
	}
}
