package lru_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/clipper"
	"github.com/fwojciec/clipper/lru"
	"github.com/fwojciec/clipper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingFetcher(calls *atomic.Int32) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			calls.Add(1)
			return "<html>" + url + "</html>", nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("serves repeats from the cache", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f, err := lru.NewFetcher(countingFetcher(&calls), 8)
		require.NoError(t, err)

		first, err := f.Fetch(context.Background(), "https://e.com/a")
		require.NoError(t, err)
		second, err := f.Fetch(context.Background(), "https://e.com/a")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("evicts the least recently used page", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f, err := lru.NewFetcher(countingFetcher(&calls), 2)
		require.NoError(t, err)
		ctx := context.Background()

		for _, url := range []string{"a", "b", "a", "c", "a", "b"} {
			_, err := f.Fetch(ctx, url)
			require.NoError(t, err)
		}

		// a, b, c miss; a stays warm; b was evicted by c.
		assert.Equal(t, int32(4), calls.Load())
		assert.Equal(t, 2, f.Len())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f, err := lru.NewFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				if calls.Add(1) == 1 {
					return "", clipper.Errorf(clipper.ENOTFOUND, "gone")
				}
				return "ok", nil
			},
		}, 0)
		require.NoError(t, err)

		_, err = f.Fetch(context.Background(), "u")
		assert.Equal(t, clipper.ENOTFOUND, clipper.ErrorCode(err))

		got, err := f.Fetch(context.Background(), "u")
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	})

	t.Run("concurrent misses share one fetch", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		release := make(chan struct{})
		f, err := lru.NewFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				calls.Add(1)
				<-release
				return "page", nil
			},
		}, 4)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := f.Fetch(context.Background(), "u")
				assert.NoError(t, err)
				assert.Equal(t, "page", got)
			}()
		}
		require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, time.Millisecond)
		close(release)
		wg.Wait()

		assert.LessOrEqual(t, calls.Load(), int32(5))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("a canceled caller does not cancel the shared fetch", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		started := make(chan struct{})
		release := make(chan struct{})
		f, err := lru.NewFetcher(&mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) (string, error) {
				if calls.Add(1) == 1 {
					close(started)
				}
				select {
				case <-release:
					return "page", nil
				case <-ctx.Done():
					return "", ctx.Err()
				}
			},
		}, 4)
		require.NoError(t, err)

		// Given a first caller that gives up while the fetch is in flight
		ctx, cancel := context.WithCancel(context.Background())
		errs := make(chan error, 1)
		go func() {
			_, err := f.Fetch(ctx, "u")
			errs <- err
		}()
		<-started
		cancel()
		require.ErrorIs(t, <-errs, context.Canceled)

		// When the underlying fetch completes
		close(release)
		require.Eventually(t, func() bool { return f.Len() == 1 }, time.Second, time.Millisecond)

		// Then the page is available to the next caller without refetching
		got, err := f.Fetch(context.Background(), "u")
		require.NoError(t, err)
		assert.Equal(t, "page", got)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	closed := false
	var calls atomic.Int32
	next := countingFetcher(&calls)
	next.CloseFn = func() error {
		closed = true
		return errors.New("close failed")
	}
	f, err := lru.NewFetcher(next, 4)
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), "u")
	require.NoError(t, err)

	err = f.Close()

	assert.EqualError(t, err, "close failed")
	assert.True(t, closed)
	assert.Zero(t, f.Len())
}
