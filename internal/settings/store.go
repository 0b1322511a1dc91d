// Package settings caches slowly-changing account settings behind a TTL so
// dashboard loads do not refetch them on every render.
package settings

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bizpulse/bizpulse/internal/api"
	"github.com/bizpulse/bizpulse/internal/cache"
)

// Client is the slice of the API surface the store needs.
type Client interface {
	GetSettings(ctx context.Context) (*api.SettingsData, error)
}

// Store owns the cached settings for the current account.
type Store struct {
	cache *cache.Store[*api.SettingsData]
}

// NewStore creates a settings store with the given freshness window. A
// non-positive ttl uses the 5-minute default.
func NewStore(client Client, ttl time.Duration) *Store {
	return &Store{
		cache: cache.NewStore("settings", ttl, func(ctx context.Context) (*api.SettingsData, error) {
			return client.GetSettings(ctx)
		}),
	}
}

// Get returns the cached settings, fetching when stale.
func (s *Store) Get(ctx context.Context) (*api.SettingsData, error) {
	return s.cache.Get(ctx)
}

// XeroConnected reports whether the accounting data source is connected.
// Settings are non-critical: a fetch failure degrades to "not connected"
// rather than propagating.
func (s *Store) XeroConnected(ctx context.Context) bool {
	settings, err := s.Get(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("settings fetch failed, treating as not connected")
		return false
	}
	if settings == nil {
		return false
	}
	return settings.XeroIntegration.IsConnected
}

// Update replaces the cached settings with a confirmed authoritative value.
func (s *Store) Update(data *api.SettingsData) {
	s.cache.Update(data)
}

// Invalidate drops the cached settings.
func (s *Store) Invalidate() {
	s.cache.Invalidate()
}

// SetObserver forwards cache hit/miss events, used for metrics.
func (s *Store) SetObserver(fn cache.Observer) {
	s.cache.SetObserver(fn)
}
