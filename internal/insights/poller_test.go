package insights

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizpulse/bizpulse/internal/api"
)

type staticConnection bool

func (c staticConnection) XeroConnected(ctx context.Context) bool { return bool(c) }

// pollClient serves empty snapshots until ready, then a populated one.
type pollClient struct {
	mu           sync.Mutex
	triggerCalls int32
	triggerErr   error
	fetchCalls   int32
	fetchErr     error
	ready        bool
	snapshot     *api.InsightsResponse
	lastCtx      context.Context
}

func (c *pollClient) TriggerGeneration(ctx context.Context) error {
	atomic.AddInt32(&c.triggerCalls, 1)
	return c.triggerErr
}

func (c *pollClient) GetInsights(ctx context.Context, page int, severity api.Severity) (*api.InsightsResponse, error) {
	atomic.AddInt32(&c.fetchCalls, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCtx = ctx
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	if !c.ready {
		return &api.InsightsResponse{}, nil
	}
	return c.snapshot, nil
}

func (c *pollClient) setReady(snapshot *api.InsightsResponse) {
	c.mu.Lock()
	c.ready = true
	c.snapshot = snapshot
	c.mu.Unlock()
}

func (c *pollClient) setFetchErr(err error) {
	c.mu.Lock()
	c.fetchErr = err
	c.mu.Unlock()
}

func (c *pollClient) pollContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCtx
}

func readySnapshot() *api.InsightsResponse {
	return &api.InsightsResponse{
		CashRunway: &api.CashRunwayMetrics{Status: "healthy", ConfidenceLevel: "High"},
		Insights:   []api.Insight{makeInsight("g1", api.SeverityHigh, false)},
	}
}

func TestPoller_NotConnectedNeverTriggers(t *testing.T) {
	client := &pollClient{}
	p := NewPoller(client, staticConnection(false), nil, PollerConfig{})

	err := p.Start(context.Background())
	assert.ErrorIs(t, err, ErrConnectionRequired)
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.triggerCalls), "trigger endpoint never called")
	assert.Equal(t, StateIdle, p.State())
}

func TestPoller_TriggerFailureSkipsPolling(t *testing.T) {
	client := &pollClient{triggerErr: errors.New("generation backend down")}
	p := NewPoller(client, staticConnection(true), nil, PollerConfig{})

	err := p.Start(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConnectionRequired)
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.fetchCalls), "no polling after trigger failure")
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, OutcomeFailed, p.LastOutcome())
}

func TestPoller_CompletesWhenInsightsAppear(t *testing.T) {
	client := &pollClient{}
	var published *api.InsightsResponse
	var publishMu sync.Mutex
	p := NewPoller(client, staticConnection(true), func(resp *api.InsightsResponse) {
		publishMu.Lock()
		published = resp
		publishMu.Unlock()
	}, PollerConfig{Interval: 5 * time.Millisecond, Timeout: time.Second})

	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, StatePolling, p.State())

	// Insights appear after a couple of empty polls.
	time.Sleep(15 * time.Millisecond)
	client.setReady(readySnapshot())

	outcome := p.Wait()
	assert.Equal(t, OutcomeCompleted, outcome)
	assert.Equal(t, StateIdle, p.State())

	publishMu.Lock()
	defer publishMu.Unlock()
	require.NotNil(t, published)
	assert.Len(t, published.Insights, 1)
	assert.Equal(t, QualityGood, p.Quality())
}

func TestPoller_TimesOutAndReturnsToIdle(t *testing.T) {
	client := &pollClient{}
	p := NewPoller(client, staticConnection(true), nil, PollerConfig{
		Interval: 5 * time.Millisecond,
		Timeout:  40 * time.Millisecond,
	})

	require.NoError(t, p.Start(context.Background()))
	outcome := p.Wait()

	assert.Equal(t, OutcomeTimedOut, outcome)
	assert.Equal(t, StateIdle, p.State())
	// Polls happened, plus the final best-effort fetch.
	assert.Greater(t, atomic.LoadInt32(&client.fetchCalls), int32(1))
}

func TestPoller_TransientErrorsAreSwallowed(t *testing.T) {
	client := &pollClient{}
	client.setFetchErr(errors.New("flaky network"))
	p := NewPoller(client, staticConnection(true), nil, PollerConfig{
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
	})

	require.NoError(t, p.Start(context.Background()))

	// Errors for a while, then recovery with results.
	time.Sleep(20 * time.Millisecond)
	client.setFetchErr(nil)
	client.setReady(readySnapshot())

	assert.Equal(t, OutcomeCompleted, p.Wait())
}

func TestPoller_OverlappingStartRejected(t *testing.T) {
	client := &pollClient{}
	p := NewPoller(client, staticConnection(true), nil, PollerConfig{
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
	})

	require.NoError(t, p.Start(context.Background()))
	err := p.Start(context.Background())
	assert.ErrorIs(t, err, ErrGenerationInProgress)
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.triggerCalls), "second start never re-triggers")

	p.Cancel()
	assert.Equal(t, OutcomeCanceled, p.Wait())

	// Idle again: a new cycle may start.
	client.setReady(readySnapshot())
	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, OutcomeCompleted, p.Wait())
}

func TestPoller_ReleasesPollContextWhenFinished(t *testing.T) {
	client := &pollClient{}
	client.setReady(readySnapshot())
	p := NewPoller(client, staticConnection(true), nil, PollerConfig{
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
	})

	require.NoError(t, p.Start(context.Background()))
	require.Equal(t, OutcomeCompleted, p.Wait())

	// The derived poll context must not outlive the cycle.
	require.NotNil(t, client.pollContext())
	assert.ErrorIs(t, client.pollContext().Err(), context.Canceled)
}

func TestPoller_QualityReclassifiedOnEveryFetch(t *testing.T) {
	client := &pollClient{}
	snapshot := readySnapshot()
	snapshot.CashRunway.ConfidenceLevel = "Medium"
	client.setReady(snapshot)

	p := NewPoller(client, staticConnection(true), nil, PollerConfig{
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
	})
	require.NoError(t, p.Start(context.Background()))
	require.Equal(t, OutcomeCompleted, p.Wait())
	assert.Equal(t, QualityMixed, p.Quality())
}
