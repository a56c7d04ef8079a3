package mock

import (
	"context"

	"github.com/fwojciec/clipper"
)

var _ clipper.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of clipper.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ clipper.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher is a mock implementation of clipper.AssetFetcher.
type AssetFetcher struct {
	FetchAssetFn func(ctx context.Context, url string) (*clipper.Asset, error)
}

func (f *AssetFetcher) FetchAsset(ctx context.Context, url string) (*clipper.Asset, error) {
	return f.FetchAssetFn(ctx, url)
}

var _ clipper.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of clipper.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
