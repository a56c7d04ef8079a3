// Package lru caches fetched pages in memory with a least-recently-used
// eviction policy.
package lru

import (
	"context"

	"github.com/fwojciec/clipper"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the number of pages kept by NewFetcher when size is not
// positive.
const DefaultSize = 256

// Ensure Fetcher implements clipper.Fetcher at compile time.
var _ clipper.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a clipper.Fetcher and serves repeated URLs from memory.
// Concurrent fetches of the same URL share one underlying request. Errors
// are not cached.
type Fetcher struct {
	next  clipper.Fetcher
	cache *lru.Cache[string, string]
	group singleflight.Group
}

// NewFetcher creates a Fetcher holding up to size pages.
func NewFetcher(next clipper.Fetcher, size int) (*Fetcher, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Fetcher{next: next, cache: cache}, nil
}

// Fetch returns the cached page for url, fetching it on a miss. The shared
// fetch runs detached from any one caller's cancellation, so a caller that
// gives up does not fail the others waiting on the same URL; the wrapped
// fetcher's own timeout still bounds it.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if html, ok := f.cache.Get(url); ok {
		return html, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(url, func() (any, error) {
		html, err := f.next.Fetch(shared, url)
		if err != nil {
			return "", err
		}
		f.cache.Add(url, html)
		return html, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Len returns the number of cached pages.
func (f *Fetcher) Len() int {
	return f.cache.Len()
}

// Close purges the cache and closes the wrapped fetcher.
func (f *Fetcher) Close() error {
	f.cache.Purge()
	return f.next.Close()
}
