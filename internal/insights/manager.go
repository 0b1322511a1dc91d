// Package insights owns the insight collection for the current user: the
// acknowledge/resolve lifecycle, severity and status filtering, and the
// background generation poller.
package insights

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bizpulse/bizpulse/internal/api"
)

var (
	// ErrMutationInFlight rejects a second mutation for an insight that
	// already has one pending.
	ErrMutationInFlight = errors.New("mutation already in flight for insight")
	// ErrUnknownInsight is returned when an id is not in the current
	// collection.
	ErrUnknownInsight = errors.New("insight not found in current collection")
)

// StatusFilter selects insights by lifecycle state. Applied client-side
// over the already-paginated page.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusResolved StatusFilter = "resolved"
)

// Client is the slice of the API surface the manager needs.
type Client interface {
	GetInsights(ctx context.Context, page int, severity api.Severity) (*api.InsightsResponse, error)
	UpdateInsight(ctx context.Context, id string, update api.InsightUpdate) (*api.Insight, error)
	SubmitFeedback(ctx context.Context, fb api.FeedbackRequest) error
}

// Manager owns the insight collection and its lifecycle transitions. All
// methods are safe for concurrent use; at most one mutation per insight id
// is in flight at a time.
type Manager struct {
	client Client

	mu       sync.RWMutex
	snapshot *api.InsightsResponse
	page     int
	severity api.Severity
	status   StatusFilter
	pending  map[string]struct{}
	metrics  func(action, result string)
}

// NewManager creates a manager with no snapshot and "all"/"all" filters.
func NewManager(client Client) *Manager {
	return &Manager{
		client:   client,
		page:     1,
		severity: "all",
		status:   StatusAll,
		pending:  make(map[string]struct{}),
	}
}

// SetMetricsCallback sets the per-mutation metrics hook.
func (m *Manager) SetMetricsCallback(cb func(action, result string)) {
	m.mu.Lock()
	m.metrics = cb
	m.mu.Unlock()
}

// Fetch loads the page selected by the current page and severity filter and
// replaces the local snapshot.
func (m *Manager) Fetch(ctx context.Context) error {
	m.mu.RLock()
	page, severity := m.page, m.severity
	m.mu.RUnlock()

	resp, err := m.client.GetInsights(ctx, page, severity)
	if err != nil {
		return fmt.Errorf("fetch insights: %w", err)
	}

	m.Adopt(resp)
	return nil
}

// Adopt replaces the local snapshot with an externally fetched one. Used by
// the poller so a generation cycle and a page fetch share one code path.
func (m *Manager) Adopt(resp *api.InsightsResponse) {
	m.mu.Lock()
	m.snapshot = resp
	m.mu.Unlock()
}

// Snapshot returns the current snapshot, which may be nil before the first
// successful fetch.
func (m *Manager) Snapshot() *api.InsightsResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Pagination returns the backend page envelope from the last fetch. The
// totals reflect the severity filter only; the client-side status filter
// does not change them.
func (m *Manager) Pagination() *api.Pagination {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil
	}
	return m.snapshot.Pagination
}

// SetPage selects a page and refetches.
func (m *Manager) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	m.mu.Lock()
	m.page = page
	m.mu.Unlock()
	return m.Fetch(ctx)
}

// SetSeverityFilter sets the server-side severity filter, resets to the
// first page and refetches.
func (m *Manager) SetSeverityFilter(ctx context.Context, severity api.Severity) error {
	m.mu.Lock()
	m.severity = severity
	m.page = 1
	m.mu.Unlock()
	return m.Fetch(ctx)
}

// Query sets the page and server-side severity filter together and
// refetches once, for one-shot listings.
func (m *Manager) Query(ctx context.Context, page int, severity api.Severity) error {
	if page < 1 {
		page = 1
	}
	m.mu.Lock()
	m.page = page
	m.severity = severity
	m.mu.Unlock()
	return m.Fetch(ctx)
}

// SetStatusFilter sets the client-side status filter. No refetch: it only
// changes which of the current page's insights are visible.
func (m *Manager) SetStatusFilter(status StatusFilter) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

// Filtered returns the current page's insights after the status filter.
func (m *Manager) Filtered() []api.Insight {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil
	}
	switch m.status {
	case StatusActive:
		return selectInsights(m.snapshot.Insights, func(i api.Insight) bool { return !i.IsMarkedDone })
	case StatusResolved:
		return selectInsights(m.snapshot.Insights, func(i api.Insight) bool { return i.IsMarkedDone })
	default:
		out := make([]api.Insight, len(m.snapshot.Insights))
		copy(out, m.snapshot.Insights)
		return out
	}
}

// Watch returns up to three unresolved high-severity insights, the
// dashboard's "what needs your attention" bucket.
func (m *Manager) Watch() []api.Insight {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil
	}
	watch := selectInsights(m.snapshot.Insights, func(i api.Insight) bool {
		return i.Severity == api.SeverityHigh && !i.IsMarkedDone
	})
	if len(watch) > 3 {
		watch = watch[:3]
	}
	return watch
}

// OK returns unresolved medium-severity insights, the "also worth knowing"
// bucket.
func (m *Manager) OK() []api.Insight {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil
	}
	return selectInsights(m.snapshot.Insights, func(i api.Insight) bool {
		return i.Severity == api.SeverityMedium && !i.IsMarkedDone
	})
}

// Resolved returns up to five resolved insights for the dashboard footer.
func (m *Manager) Resolved() []api.Insight {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil
	}
	resolved := selectInsights(m.snapshot.Insights, func(i api.Insight) bool { return i.IsMarkedDone })
	if len(resolved) > 5 {
		resolved = resolved[:5]
	}
	return resolved
}

// Acknowledge transitions an active insight to acknowledged. Acknowledging
// an already-acknowledged insight still round-trips; the backend stays the
// source of truth either way.
func (m *Manager) Acknowledge(ctx context.Context, id string) error {
	acked := true
	return m.mutate(ctx, id, "acknowledge", api.InsightUpdate{IsAcknowledged: &acked})
}

// Resolve transitions an insight to resolved. Terminal: there is no
// reverse transition, and resolving twice succeeds both times.
func (m *Manager) Resolve(ctx context.Context, id string) error {
	done := true
	return m.mutate(ctx, id, "resolve", api.InsightUpdate{IsMarkedDone: &done})
}

// mutate is the shared transition path: lock the id, issue the update,
// refetch on success, unlock either way.
func (m *Manager) mutate(ctx context.Context, id, action string, update api.InsightUpdate) error {
	m.mu.Lock()
	if _, inFlight := m.pending[id]; inFlight {
		m.mu.Unlock()
		return ErrMutationInFlight
	}
	m.pending[id] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
	}()

	if _, err := m.client.UpdateInsight(ctx, id, update); err != nil {
		m.observeMutation(action, "error")
		log.Warn().Err(err).Str("insight_id", id).Str("action", action).Msg("insight mutation failed")
		return fmt.Errorf("%s insight %s: %w", action, id, err)
	}
	m.observeMutation(action, "ok")

	// Confirm the optimistic update against the backend.
	if err := m.Fetch(ctx); err != nil {
		return err
	}

	log.Info().Str("insight_id", id).Str("action", action).Msg("insight updated")
	return nil
}

func (m *Manager) observeMutation(action, result string) {
	m.mu.RLock()
	cb := m.metrics
	m.mu.RUnlock()
	if cb != nil {
		cb(action, result)
	}
}

// Pending reports whether a mutation for the id is currently in flight.
func (m *Manager) Pending(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.pending[id]
	return ok
}

// Feedback submits helpfulness feedback for an insight in the current
// collection, filling the type and title from the local copy.
func (m *Manager) Feedback(ctx context.Context, id string, helpful bool, comment string) error {
	m.mu.RLock()
	var found *api.Insight
	if m.snapshot != nil {
		for i := range m.snapshot.Insights {
			if m.snapshot.Insights[i].InsightID == id {
				found = &m.snapshot.Insights[i]
				break
			}
		}
	}
	m.mu.RUnlock()

	if found == nil {
		return ErrUnknownInsight
	}

	fb := api.FeedbackRequest{
		InsightID:    found.InsightID,
		InsightType:  found.InsightType,
		InsightTitle: found.Title,
		IsHelpful:    helpful,
		Comment:      comment,
	}
	if err := m.client.SubmitFeedback(ctx, fb); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	return nil
}

func selectInsights(insights []api.Insight, keep func(api.Insight) bool) []api.Insight {
	var out []api.Insight
	for _, i := range insights {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}
