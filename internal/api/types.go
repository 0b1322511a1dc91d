package api

import "time"

// Severity buckets insights into presentation tiers.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Confidence reflects how much the backend trusts the underlying data.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SupportingNumber is a labeled figure attached to an insight. Value may be
// numeric or preformatted text, so it is kept as an opaque JSON value.
type SupportingNumber struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// Insight is a single generated observation about the business.
type Insight struct {
	InsightID          string             `json:"insight_id"`
	InsightType        string             `json:"insight_type"`
	Title              string             `json:"title"`
	Severity           Severity           `json:"severity"`
	ConfidenceLevel    Confidence         `json:"confidence_level"`
	Summary            string             `json:"summary"`
	WhyItMatters       string             `json:"why_it_matters"`
	RecommendedActions []string           `json:"recommended_actions"`
	SupportingNumbers  []SupportingNumber `json:"supporting_numbers"`
	DataNotes          string             `json:"data_notes,omitempty"`
	GeneratedAt        time.Time          `json:"generated_at"`
	IsAcknowledged     bool               `json:"is_acknowledged"`
	IsMarkedDone       bool               `json:"is_marked_done"`
}

// CashRunwayMetrics describes how long current cash lasts at the present
// burn rate. RunwayMonths is nil when the business is cash-flow positive.
type CashRunwayMetrics struct {
	CurrentCash     float64  `json:"current_cash"`
	MonthlyBurnRate float64  `json:"monthly_burn_rate"`
	RunwayMonths    *float64 `json:"runway_months"`
	Status          string   `json:"status"`
	ConfidenceLevel string   `json:"confidence_level,omitempty"`
}

// CashPressureMetrics is the short-horizon cash squeeze signal.
type CashPressureMetrics struct {
	Status     string `json:"status"`
	Confidence string `json:"confidence"`
}

// ProfitabilityMetrics summarizes margin health.
type ProfitabilityMetrics struct {
	Revenue        float64 `json:"revenue,omitempty"`
	GrossMarginPct float64 `json:"gross_margin_pct,omitempty"`
	NetProfit      float64 `json:"net_profit,omitempty"`
	RiskLevel      string  `json:"risk_level"`
}

// UpcomingBill is one large payment due in the look-ahead window.
type UpcomingBill struct {
	Label   string    `json:"label"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

// UpcomingCommitmentsMetrics aggregates payments due soon.
type UpcomingCommitmentsMetrics struct {
	UpcomingAmount     float64        `json:"upcoming_amount"`
	UpcomingCount      int            `json:"upcoming_count"`
	DaysAhead          int            `json:"days_ahead"`
	LargeUpcomingBills []UpcomingBill `json:"large_upcoming_bills"`
	SqueezeRisk        string         `json:"squeeze_risk"`
}

// InsightsResponse is the payload of GET /api/insights/.
type InsightsResponse struct {
	CashRunway          *CashRunwayMetrics          `json:"cash_runway"`
	CashPressure        *CashPressureMetrics        `json:"cash_pressure"`
	Profitability       *ProfitabilityMetrics       `json:"profitability"`
	UpcomingCommitments *UpcomingCommitmentsMetrics `json:"upcoming_commitments"`
	Insights            []Insight                   `json:"insights"`
	Pagination          *Pagination                 `json:"pagination,omitempty"`
	CalculatedAt        *time.Time                  `json:"calculated_at"`
}

// Pagination mirrors the backend's page envelope. Totals are computed
// server-side from the severity filter only.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// InsightUpdate is the PATCH body for insight flag mutations. Only set
// fields are sent.
type InsightUpdate struct {
	IsMarkedDone   *bool `json:"is_marked_done,omitempty"`
	IsAcknowledged *bool `json:"is_acknowledged,omitempty"`
}

// FeedbackRequest is the POST /api/feedback/ body.
type FeedbackRequest struct {
	InsightID    string `json:"insight_id"`
	InsightType  string `json:"insight_type"`
	InsightTitle string `json:"insight_title"`
	IsHelpful    bool   `json:"is_helpful"`
	Comment      string `json:"comment,omitempty"`
}

// XeroIntegration describes the accounting data-source connection.
type XeroIntegration struct {
	IsConnected    bool       `json:"is_connected"`
	Status         string     `json:"status"`
	ConnectedAt    *time.Time `json:"connected_at"`
	LastSyncedAt   *time.Time `json:"last_synced_at"`
	NeedsReconnect bool       `json:"needs_reconnect"`
}

// SettingsData is the payload of GET /settings/.
type SettingsData struct {
	Email           string          `json:"email"`
	XeroIntegration XeroIntegration `json:"xero_integration"`
	LastSyncTime    *time.Time      `json:"last_sync_time"`
	SupportLink     string          `json:"support_link"`
}

// XeroConnectResponse carries the OAuth hand-off for the external
// accounting connection flow.
type XeroConnectResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// AIProviderSettings configures the generation backend's model provider.
type AIProviderSettings struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key,omitempty"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// AIProviderTestResult reports the outcome of a provider connectivity test.
type AIProviderTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CategoryScore is one of the five fixed scorecard categories (A-E).
type CategoryScore struct {
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	MaxPoints     float64  `json:"max_points"`
	PointsAwarded float64  `json:"points_awarded"`
	Metrics       []string `json:"metrics"`
}

// SubScore is a single metric feeding a category.
type SubScore struct {
	MetricID      string   `json:"metric_id"`
	Name          string   `json:"name"`
	MaxPoints     float64  `json:"max_points"`
	PointsAwarded float64  `json:"points_awarded"`
	Status        string   `json:"status"` // "ok", "missing", "estimated"
	Value         *float64 `json:"value"`
	Formula       string   `json:"formula"`
	InputsUsed    []string `json:"inputs_used"`
}

// Driver is a metric identified as moving the score up or down.
type Driver struct {
	MetricID          string  `json:"metric_id"`
	Label             string  `json:"label"`
	ImpactPoints      float64 `json:"impact_points"`
	WhyItMatters      string  `json:"why_it_matters"`
	RecommendedAction string  `json:"recommended_action"`
}

// DataQualitySignal flags a data issue discovered during scoring.
type DataQualitySignal struct {
	SignalID string `json:"signal_id"`
	Severity string `json:"severity"` // "info", "warning", "critical"
	Message  string `json:"message"`
}

// DataQuality bundles scoring data-quality signals and display warnings.
type DataQuality struct {
	Signals  []DataQualitySignal `json:"signals"`
	Warnings []string            `json:"warnings"`
}

// Scorecard is the backend's headline scoring block. Grade is backend-owned
// and trusted as supplied.
type Scorecard struct {
	RawScore      float64    `json:"raw_score"`
	Confidence    Confidence `json:"confidence"`
	ConfidenceCap float64    `json:"confidence_cap"`
	FinalScore    float64    `json:"final_score"`
	Grade         string     `json:"grade"` // "A".."D"
}

// HealthScoreData is one full aggregation snapshot.
type HealthScoreData struct {
	SchemaVersion  string                   `json:"schema_version"`
	GeneratedAt    time.Time                `json:"generated_at"`
	Scorecard      Scorecard                `json:"scorecard"`
	CategoryScores map[string]CategoryScore `json:"category_scores"`
	Subscores      map[string]SubScore      `json:"subscores"`
	Drivers        struct {
		TopPositive []Driver `json:"top_positive"`
		TopNegative []Driver `json:"top_negative"`
	} `json:"drivers"`
	DataQuality DataQuality `json:"data_quality"`
}
