package clipper

import "context"

// DefaultUserAgent identifies clipper when fetching pages.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ObsidianClipper/1.0)"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// AssetFetcher downloads binary assets such as featured images.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, url string) (*Asset, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
