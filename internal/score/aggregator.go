package score

import (
	"math"
	"sort"

	"github.com/bizpulse/bizpulse/internal/api"
)

// keyDriverLimit caps each ranked driver list in the summary.
const keyDriverLimit = 3

// Grade display metadata, keyed by the backend-owned letter grade.
var gradeInfo = map[string]struct {
	Label       string
	Description string
}{
	"A": {"Healthy", "Your business is performing excellently with strong cash flow and low risks."},
	"B": {"Healthy", "Your business is performing well with stable cash flow and manageable risks. A few items need attention but nothing urgent."},
	"C": {"At Risk", "Your business needs attention. Cash flow challenges and some risks require monitoring."},
	"D": {"Critical", "Your business requires immediate attention. Significant cash flow and risk concerns."},
}

// CategoryBreakdown is one category row of the aggregated scorecard.
type CategoryBreakdown struct {
	CategoryID    string  `json:"category_id"`
	Name          string  `json:"name"`
	PointsAwarded float64 `json:"points_awarded"`
	MaxPoints     float64 `json:"max_points"`
	Percent       float64 `json:"percent"`
	Trend         Trend   `json:"trend"`
}

// Summary is the display-ready aggregation of one scorecard snapshot.
type Summary struct {
	FinalScore       float64             `json:"final_score"`
	Grade            string              `json:"grade"`
	GradeLabel       string              `json:"grade_label"`
	GradeDescription string              `json:"grade_description"`
	Confidence       api.Confidence      `json:"confidence"`
	Categories       []CategoryBreakdown `json:"categories"`
	KeyNegative      []api.Driver        `json:"key_negative"`
	KeyPositive      []api.Driver        `json:"key_positive"`
	FixFirst         []api.Driver        `json:"fix_first"`
	Warnings         []string            `json:"warnings"`
}

// Aggregate transforms a scorecard snapshot into its display summary. The
// input is not mutated; grade is trusted as supplied by the backend.
func Aggregate(data *api.HealthScoreData) *Summary {
	if data == nil {
		return nil
	}

	final := math.Min(data.Scorecard.RawScore, data.Scorecard.ConfidenceCap)

	info := gradeInfo[data.Scorecard.Grade]

	categories := make([]CategoryBreakdown, 0, len(data.CategoryScores))
	for key, cat := range data.CategoryScores {
		categories = append(categories, categoryBreakdown(key, cat))
	}
	// Map iteration order is random; categories display as A through E.
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].CategoryID < categories[j].CategoryID
	})

	negative := rankDrivers(data.Drivers.TopNegative)
	positive := rankDrivers(data.Drivers.TopPositive)

	return &Summary{
		FinalScore:       final,
		Grade:            data.Scorecard.Grade,
		GradeLabel:       info.Label,
		GradeDescription: info.Description,
		Confidence:       data.Scorecard.Confidence,
		Categories:       categories,
		KeyNegative:      negative,
		KeyPositive:      positive,
		FixFirst:         negative,
		Warnings:         data.DataQuality.Warnings,
	}
}

func categoryBreakdown(key string, cat api.CategoryScore) CategoryBreakdown {
	b := CategoryBreakdown{
		CategoryID:    key,
		Name:          cat.Name,
		PointsAwarded: cat.PointsAwarded,
		MaxPoints:     cat.MaxPoints,
	}
	if cat.MaxPoints <= 0 {
		b.Percent = 0
		b.Trend = Trend{Direction: TrendNA, Color: trendNeutral.Color}
		return b
	}
	b.Percent = cat.PointsAwarded / cat.MaxPoints * 100
	b.Trend = categoryTrend(b.Percent)
	return b
}

func categoryTrend(percent float64) Trend {
	switch {
	case percent >= 70:
		return Trend{Direction: TrendUp, Color: ColorGood}
	case percent >= 50:
		return Trend{Direction: TrendFlat, Color: trendNeutral.Color}
	default:
		return Trend{Direction: TrendDown, Color: ColorWarn}
	}
}

// rankDrivers sorts by descending absolute impact before truncating, so the
// result is deterministic even when the backend sends unsorted lists.
func rankDrivers(drivers []api.Driver) []api.Driver {
	ranked := make([]api.Driver, len(drivers))
	copy(ranked, drivers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].ImpactPoints) > math.Abs(ranked[j].ImpactPoints)
	})
	if len(ranked) > keyDriverLimit {
		ranked = ranked[:keyDriverLimit]
	}
	return ranked
}
