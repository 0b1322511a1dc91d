package settings

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizpulse/bizpulse/internal/api"
)

type fakeSettingsClient struct {
	calls int32
	err   error
	data  *api.SettingsData
}

func (f *fakeSettingsClient) GetSettings(ctx context.Context) (*api.SettingsData, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func connectedSettings() *api.SettingsData {
	return &api.SettingsData{
		Email: "owner@example.com",
		XeroIntegration: api.XeroIntegration{
			IsConnected: true,
			Status:      "active",
		},
	}
}

func TestStore_GetCaches(t *testing.T) {
	client := &fakeSettingsClient{data: connectedSettings()}
	store := NewStore(client, 5*time.Minute)

	ctx := context.Background()
	s, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", s.Email)

	_, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.calls))
}

func TestStore_XeroConnected(t *testing.T) {
	client := &fakeSettingsClient{data: connectedSettings()}
	store := NewStore(client, time.Minute)
	assert.True(t, store.XeroConnected(context.Background()))
}

func TestStore_FetchFailureDegradesToNotConnected(t *testing.T) {
	client := &fakeSettingsClient{err: errors.New("settings endpoint down")}
	store := NewStore(client, time.Minute)
	assert.False(t, store.XeroConnected(context.Background()), "settings are non-critical")
}

func TestStore_UpdateAndInvalidate(t *testing.T) {
	client := &fakeSettingsClient{data: connectedSettings()}
	store := NewStore(client, time.Minute)

	pushed := connectedSettings()
	pushed.XeroIntegration.IsConnected = false
	store.Update(pushed)

	assert.False(t, store.XeroConnected(context.Background()))
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.calls), "pushed value avoids the fetch")

	store.Invalidate()
	assert.True(t, store.XeroConnected(context.Background()), "invalidate forces a refetch")
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.calls))
}
