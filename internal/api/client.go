package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrCircuitOpen is returned when the breaker is rejecting requests.
var ErrCircuitOpen = errors.New("api circuit breaker is open")

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Status)
}

// MetricsCallback is invoked after each request with the endpoint label,
// the outcome ("ok" or "error") and the elapsed time.
type MetricsCallback func(endpoint, result string, elapsed time.Duration)

// Config holds API client configuration.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	AuthToken      string        `yaml:"auth_token"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
	BreakerName    string        `yaml:"-"`

	// Breaker tuning; consecutive failures before the circuit opens and
	// how long it stays open.
	BreakerFailures uint32        `yaml:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"`

	UserAgent string `yaml:"user_agent"`
}

// Client is the HTTP/JSON client over the fixed insights API surface. All
// calls are rate limited and routed through a shared circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
	userAgent  string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	metrics    MetricsCallback
}

// NewClient creates an API client, filling unset config with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 5.0
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 10
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = "insights-api"
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "BizPulse/1.0"
	}

	settings := gobreaker.Settings{
		Name:        cfg.BreakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("api breaker state change")
		},
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		baseURL:   cfg.BaseURL,
		authToken: cfg.AuthToken,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		breaker:   gobreaker.NewCircuitBreaker(settings),
	}
}

// SetMetricsCallback sets the per-request metrics hook.
func (c *Client) SetMetricsCallback(cb MetricsCallback) {
	c.metrics = cb
}

// GetInsights fetches the current insight snapshot. Page and severity are
// optional; zero page means the backend default, empty or "all" severity
// means no filter.
func (c *Client) GetInsights(ctx context.Context, page int, severity Severity) (*InsightsResponse, error) {
	endpoint := "/api/insights/"
	if page > 0 || (severity != "" && severity != "all") {
		q := url.Values{}
		if page > 0 {
			q.Set("page", strconv.Itoa(page))
		}
		if severity != "" && severity != "all" {
			q.Set("severity", string(severity))
		}
		endpoint += "?" + q.Encode()
	}

	var out InsightsResponse
	if err := c.do(ctx, http.MethodGet, endpoint, "insights", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInsight patches acknowledgment/resolution flags on one insight.
func (c *Client) UpdateInsight(ctx context.Context, id string, update InsightUpdate) (*Insight, error) {
	var out Insight
	endpoint := "/api/insights/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, endpoint, "insight_update", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TriggerGeneration kicks off asynchronous insight generation.
func (c *Client) TriggerGeneration(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/insights/trigger", "trigger", nil, nil)
}

// GetSettings fetches account settings, including the Xero connection state.
func (c *Client) GetSettings(ctx context.Context) (*SettingsData, error) {
	var out SettingsData
	if err := c.do(ctx, http.MethodGet, "/settings/", "settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitFeedback records whether an insight was helpful.
func (c *Client) SubmitFeedback(ctx context.Context, fb FeedbackRequest) error {
	return c.do(ctx, http.MethodPost, "/api/feedback/", "feedback", fb, nil)
}

// GetHealthScore fetches the latest full scorecard snapshot.
func (c *Client) GetHealthScore(ctx context.Context) (*HealthScoreData, error) {
	var out HealthScoreData
	if err := c.do(ctx, http.MethodGet, "/api/health-score/", "health_score", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetXeroConnectURL starts the accounting-system OAuth hand-off.
func (c *Client) GetXeroConnectURL(ctx context.Context) (*XeroConnectResponse, error) {
	var out XeroConnectResponse
	if err := c.do(ctx, http.MethodGet, "/integrations/xero/connect", "xero_connect", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAIProvider reads the generation backend's provider settings.
func (c *Client) GetAIProvider(ctx context.Context) (*AIProviderSettings, error) {
	var out AIProviderSettings
	if err := c.do(ctx, http.MethodGet, "/settings/ai-provider", "ai_provider", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutAIProvider replaces the generation backend's provider settings.
func (c *Client) PutAIProvider(ctx context.Context, s AIProviderSettings) error {
	return c.do(ctx, http.MethodPut, "/settings/ai-provider", "ai_provider", s, nil)
}

// TestAIProvider asks the backend to verify provider connectivity.
func (c *Client) TestAIProvider(ctx context.Context) (*AIProviderTestResult, error) {
	var out AIProviderTestResult
	if err := c.do(ctx, http.MethodPost, "/settings/ai-provider/test", "ai_provider_test", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one request through the rate limiter and circuit breaker,
// decoding the JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, endpoint, label string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	requestID := uuid.NewString()
	start := time.Now()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("encode request: %w", err)
			}
			reader = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.authToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.authToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       string(bytes.TrimSpace(raw)),
			}
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("decode %s response: %w", label, err)
			}
		}
		return nil, nil
	})

	elapsed := time.Since(start)
	result := "ok"
	if err != nil {
		result = "error"
	}
	if c.metrics != nil {
		c.metrics(label, result, elapsed)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.Debug().Str("endpoint", label).Str("request_id", requestID).Msg("request rejected by open breaker")
		return ErrCircuitOpen
	}
	if err != nil {
		log.Debug().Err(err).Str("endpoint", label).Str("request_id", requestID).
			Dur("elapsed", elapsed).Msg("api request failed")
		return err
	}

	log.Debug().Str("endpoint", label).Str("request_id", requestID).
		Dur("elapsed", elapsed).Msg("api request ok")
	return nil
}
