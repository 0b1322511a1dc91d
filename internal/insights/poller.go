package insights

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bizpulse/bizpulse/internal/api"
)

var (
	// ErrConnectionRequired means the data source is not connected, so
	// generation was never triggered.
	ErrConnectionRequired = errors.New("accounting connection required before generating insights")
	// ErrGenerationInProgress rejects a new cycle while one is active.
	ErrGenerationInProgress = errors.New("insight generation already in progress")
)

// PollState is the poller's lifecycle state.
type PollState string

const (
	StateIdle       PollState = "idle"
	StateTriggering PollState = "triggering"
	StatePolling    PollState = "polling"
)

// Outcome records how the last generation cycle ended.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCompleted Outcome = "completed"
	OutcomeTimedOut  Outcome = "timed_out"
	OutcomeFailed    Outcome = "failed"
	OutcomeCanceled  Outcome = "canceled"
)

// GenerationClient is the slice of the API surface the poller needs.
type GenerationClient interface {
	TriggerGeneration(ctx context.Context) error
	GetInsights(ctx context.Context, page int, severity api.Severity) (*api.InsightsResponse, error)
}

// ConnectionSource reports whether the accounting data source is connected.
// A source that cannot answer should report false.
type ConnectionSource interface {
	XeroConnected(ctx context.Context) bool
}

// PollerConfig tunes the generation cycle.
type PollerConfig struct {
	Interval time.Duration // poll spacing, default 2s
	Timeout  time.Duration // wall-clock bound, default 60s
}

// Poller triggers backend insight generation and polls until insights
// appear or the wall-clock budget runs out. Only one cycle may be active;
// a Start during an active cycle is rejected with ErrGenerationInProgress.
type Poller struct {
	client   GenerationClient
	conn     ConnectionSource
	publish  func(*api.InsightsResponse)
	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	state   PollState
	outcome Outcome
	quality Quality
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoller creates a poller that hands each fresh snapshot to publish.
func NewPoller(client GenerationClient, conn ConnectionSource, publish func(*api.InsightsResponse), cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Poller{
		client:   client,
		conn:     conn,
		publish:  publish,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		state:    StateIdle,
		quality:  QualityGood,
	}
}

// Start gates on the data-source connection, triggers generation and, on
// success, begins polling in the background. Trigger errors are returned
// directly and no polling begins.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return ErrGenerationInProgress
	}
	p.state = StateTriggering
	p.mu.Unlock()

	if !p.conn.XeroConnected(ctx) {
		p.finish(OutcomeFailed)
		return ErrConnectionRequired
	}

	if err := p.client.TriggerGeneration(ctx); err != nil {
		p.finish(OutcomeFailed)
		return fmt.Errorf("trigger generation: %w", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.state = StatePolling
	p.outcome = OutcomeNone
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	log.Info().Dur("interval", p.interval).Dur("timeout", p.timeout).Msg("insight generation triggered, polling")
	go p.loop(pollCtx, done)
	return nil
}

// Cancel stops an active cycle. An in-flight poll request is allowed to
// complete but its result is discarded. No-op when idle.
func (p *Poller) Cancel() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done returns a channel closed when the current cycle finishes. Nil when
// no cycle has been started.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Wait blocks until the current cycle finishes and returns its outcome.
func (p *Poller) Wait() Outcome {
	done := p.Done()
	if done != nil {
		<-done
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

// State returns the current lifecycle state.
func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastOutcome returns how the most recent cycle ended.
func (p *Poller) LastOutcome() Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

// Quality returns the data-quality classification from the most recent
// successful fetch.
func (p *Poller) Quality() Quality {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quality
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Monotonic wall-clock bound; the scheduler is not trusted to keep
	// ticks on time.
	deadline := time.Now().Add(p.timeout)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("insight polling canceled")
			p.finish(OutcomeCanceled)
			return

		case <-ticker.C:
			if time.Now().After(deadline) {
				p.timedOut(ctx)
				return
			}

			resp, err := p.client.GetInsights(ctx, 0, "all")
			if err != nil {
				// Transient poll errors are swallowed; the
				// deadline is the only thing that stops us.
				log.Debug().Err(err).Msg("poll fetch failed, continuing")
				continue
			}
			if ctx.Err() != nil {
				// Canceled while the fetch was in flight; drop
				// the late result.
				p.finish(OutcomeCanceled)
				return
			}

			p.adopt(resp)
			if len(resp.Insights) > 0 {
				log.Info().Int("insights", len(resp.Insights)).Msg("insight generation completed")
				p.finish(OutcomeCompleted)
				return
			}

			if time.Now().After(deadline) {
				p.timedOut(ctx)
				return
			}
		}
	}
}

// timedOut issues one final best-effort fetch, then returns to idle
// regardless of its result.
func (p *Poller) timedOut(ctx context.Context) {
	log.Warn().Dur("timeout", p.timeout).Msg("insight generation timed out")
	if resp, err := p.client.GetInsights(ctx, 0, "all"); err == nil && ctx.Err() == nil {
		p.adopt(resp)
	}
	p.finish(OutcomeTimedOut)
}

// adopt publishes a snapshot and reclassifies data quality. Runs after
// every successful fetch, not only at completion.
func (p *Poller) adopt(resp *api.InsightsResponse) {
	quality := Classify(resp)
	p.mu.Lock()
	p.quality = quality
	p.mu.Unlock()
	if p.publish != nil {
		p.publish(resp)
	}
}

func (p *Poller) finish(outcome Outcome) {
	p.mu.Lock()
	cancel := p.cancel
	p.state = StateIdle
	p.outcome = outcome
	p.cancel = nil
	p.mu.Unlock()
	// Release the derived poll context on every exit path, not only on
	// explicit Cancel.
	if cancel != nil {
		cancel()
	}
}
