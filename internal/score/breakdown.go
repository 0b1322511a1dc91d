package score

import "github.com/bizpulse/bizpulse/internal/api"

// TrendDirection is the arrow shown next to a breakdown metric.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendFlat TrendDirection = "flat"
	TrendDown TrendDirection = "down"
	TrendNA   TrendDirection = "n/a"
)

// Trend pairs an arrow direction with its display color.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	Color     string         `json:"color"`
}

var trendNeutral = Trend{Direction: TrendFlat, Color: "#9ca3af"}

// BreakdownMetric is one of the three lightweight dashboard boxes.
type BreakdownMetric struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Trend Trend  `json:"trend"`
}

// Breakdown derives the cash position, revenue and expenses boxes from an
// insights snapshot. Missing metric blocks score 0 with a neutral trend.
func Breakdown(resp *api.InsightsResponse) []BreakdownMetric {
	return []BreakdownMetric{
		{Name: "Cash position", Score: cashPositionScore(resp), Trend: cashTrend(resp)},
		{Name: "Revenue", Score: revenueScore(resp), Trend: revenueTrend(resp)},
		{Name: "Expenses", Score: expensesScore(resp), Trend: expensesTrend(resp)},
	}
}

func cashPositionScore(resp *api.InsightsResponse) int {
	if resp == nil || resp.CashRunway == nil {
		return 0
	}
	switch resp.CashRunway.Status {
	case "infinite", "healthy":
		return 85
	case "warning":
		return 65
	case "critical":
		return 45
	default:
		return 25
	}
}

func revenueScore(resp *api.InsightsResponse) int {
	if resp == nil || resp.Profitability == nil {
		return 0
	}
	switch resp.Profitability.RiskLevel {
	case "low":
		return 85
	case "medium":
		return 65
	default:
		return 45
	}
}

func expensesScore(resp *api.InsightsResponse) int {
	if resp == nil || resp.Profitability == nil {
		return 0
	}
	switch resp.Profitability.RiskLevel {
	case "low":
		return 80
	case "medium":
		return 60
	default:
		return 40
	}
}

func cashTrend(resp *api.InsightsResponse) Trend {
	if resp == nil || resp.CashRunway == nil {
		return trendNeutral
	}
	switch resp.CashRunway.Status {
	case "infinite", "healthy":
		return Trend{Direction: TrendUp, Color: ColorGood}
	case "warning":
		return Trend{Direction: TrendFlat, Color: ColorWarn}
	default:
		return Trend{Direction: TrendDown, Color: ColorBad}
	}
}

func revenueTrend(resp *api.InsightsResponse) Trend {
	if resp == nil || resp.Profitability == nil {
		return trendNeutral
	}
	switch resp.Profitability.RiskLevel {
	case "low":
		return Trend{Direction: TrendUp, Color: ColorGood}
	case "medium":
		return Trend{Direction: TrendFlat, Color: ColorWarn}
	default:
		return Trend{Direction: TrendDown, Color: ColorBad}
	}
}

// Expenses read inversely: low profitability risk means spending is under
// control, high risk means expenses are climbing.
func expensesTrend(resp *api.InsightsResponse) Trend {
	if resp == nil || resp.Profitability == nil {
		return trendNeutral
	}
	switch resp.Profitability.RiskLevel {
	case "low":
		return Trend{Direction: TrendFlat, Color: ColorGood}
	case "medium":
		return Trend{Direction: TrendFlat, Color: ColorWarn}
	default:
		return Trend{Direction: TrendUp, Color: ColorBad}
	}
}
