package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizpulse/bizpulse/internal/api"
	"github.com/bizpulse/bizpulse/internal/score"
)

// formatDate renders timestamps the way the dashboard does: "Today, 3:04 pm"
// for same-day values, a full date otherwise, "Never" when absent.
func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "Never"
	}
	local := t.Local()
	now := time.Now()
	if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
		return "Today, " + strings.ToLower(local.Format("3:04 pm"))
	}
	return local.Format("Jan 2, 2006, 3:04 pm")
}

// trendArrow maps a trend direction to its terminal glyph.
func trendArrow(t score.Trend) string {
	switch t.Direction {
	case score.TrendUp:
		return "↑"
	case score.TrendDown:
		return "↓"
	case score.TrendNA:
		return "·"
	default:
		return "→"
	}
}

// severityTag renders the presentation bucket for an insight.
func severityTag(s api.Severity) string {
	switch s {
	case api.SeverityHigh:
		return "WATCH"
	case api.SeverityMedium:
		return "OK"
	default:
		return "INFO"
	}
}

// insightLine renders a one-line summary of an insight for list output.
func insightLine(i api.Insight) string {
	state := "active"
	if i.IsMarkedDone {
		state = "resolved"
	} else if i.IsAcknowledged {
		state = "acknowledged"
	}
	return fmt.Sprintf("%-6s %-12s %-10s %s", severityTag(i.Severity), state, i.InsightID, i.Title)
}
