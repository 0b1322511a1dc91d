// Package cache provides time-boxed memoization of a single fetched
// resource, with a single-flight guard so concurrent refreshes collapse
// into one upstream call.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL matches the settings freshness window of the dashboard.
const DefaultTTL = 5 * time.Minute

// FetchFunc loads the authoritative value from upstream.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Observer is notified of the hit/miss outcome of each Get.
type Observer func(store string, hit bool)

// Store memoizes one named resource for a TTL. Callers arriving while a
// fetch is in flight await the shared result rather than issuing a
// duplicate fetch.
type Store[T any] struct {
	name    string
	ttl     time.Duration
	fetch   FetchFunc[T]
	now     func() time.Time
	observe Observer

	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
	valid     bool

	group singleflight.Group
}

// NewStore creates a store for one resource. A non-positive ttl falls back
// to DefaultTTL.
func NewStore[T any](name string, ttl time.Duration, fetch FetchFunc[T]) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[T]{
		name:  name,
		ttl:   ttl,
		fetch: fetch,
		now:   time.Now,
	}
}

// Get returns the cached value while fresh, otherwise fetches, stores the
// result with a fresh timestamp and returns it.
func (s *Store[T]) Get(ctx context.Context) (T, error) {
	if v, ok := s.fresh(); ok {
		s.observed(true)
		return v, nil
	}
	s.observed(false)

	res, err, _ := s.group.Do(s.name, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have
		// completed the fetch while we waited for the group slot.
		if v, ok := s.fresh(); ok {
			return v, nil
		}
		v, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.value = v
		s.fetchedAt = s.now()
		s.valid = true
		s.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Peek returns the cached value without fetching, along with whether it is
// present and still fresh.
func (s *Store[T]) Peek() (T, bool) {
	return s.fresh()
}

// Update sets the value directly, used when a mutation elsewhere confirms a
// new authoritative value without a fresh fetch.
func (s *Store[T]) Update(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.fetchedAt = s.now()
	s.valid = true
}

// Invalidate clears the value and timestamp unconditionally.
func (s *Store[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.fetchedAt = time.Time{}
	s.valid = false
}

// FetchedAt reports when the current value was stored. Zero when empty.
func (s *Store[T]) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

func (s *Store[T]) fresh() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid || s.now().Sub(s.fetchedAt) >= s.ttl {
		var zero T
		return zero, false
	}
	return s.value, true
}

// SetClock overrides the time source for tests.
func (s *Store[T]) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetObserver sets the hit/miss hook, used for metrics.
func (s *Store[T]) SetObserver(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe = fn
}

func (s *Store[T]) observed(hit bool) {
	s.mu.RLock()
	fn := s.observe
	s.mu.RUnlock()
	if fn != nil {
		fn(s.name, hit)
	}
}
