package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetCachesWithinTTL(t *testing.T) {
	var calls int32
	store := NewStore("test", 5*time.Minute, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	})

	ctx := context.Background()
	v, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second get within TTL must not refetch")
}

func TestStore_ExpiryTriggersRefetch(t *testing.T) {
	var calls int32
	store := NewStore("test", 5*time.Minute, func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	now := time.Now()
	store.SetClock(func() time.Time { return now })

	ctx := context.Background()
	v, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	firstFetchedAt := store.FetchedAt()

	// Advance past the TTL.
	now = now.Add(5*time.Minute + time.Second)

	v, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.True(t, store.FetchedAt().After(firstFetchedAt), "fetchedAt updated on refetch")
}

func TestStore_FetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("upstream down")
	store := NewStore("test", time.Minute, func(ctx context.Context) (string, error) {
		return "", fetchErr
	})

	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, fetchErr)

	_, ok := store.Peek()
	assert.False(t, ok, "failed fetch must not populate the cache")
}

func TestStore_InvalidateClears(t *testing.T) {
	store := NewStore("test", time.Minute, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})

	_, err := store.Get(context.Background())
	require.NoError(t, err)

	store.Invalidate()
	_, ok := store.Peek()
	assert.False(t, ok)
	assert.True(t, store.FetchedAt().IsZero())
}

func TestStore_UpdatePushesValue(t *testing.T) {
	var calls int32
	store := NewStore("test", time.Minute, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "fetched", nil
	})

	store.Update("pushed")

	v, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pushed", v)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "pushed value satisfies Get without a fetch")
}

func TestStore_ObserverSeesHitsAndMisses(t *testing.T) {
	store := NewStore("settings", time.Minute, func(ctx context.Context) (string, error) {
		return "v", nil
	})

	var mu sync.Mutex
	var hits []bool
	store.SetObserver(func(name string, hit bool) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "settings", name)
		hits = append(hits, hit)
	})

	ctx := context.Background()
	_, err := store.Get(ctx)
	require.NoError(t, err)
	_, err = store.Get(ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true}, hits, "cold get misses, warm get hits")
}

func TestStore_SingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	store := NewStore("test", time.Minute, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	})

	const goroutines = 8
	var wg sync.WaitGroup
	results := make([]string, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.Get(context.Background())
		}(i)
	}

	// Let all goroutines pile onto the in-flight fetch before it returns.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent gets share one fetch")
	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}
}
