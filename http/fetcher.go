// Package http provides HTTP implementations of clipper.Fetcher and
// clipper.AssetFetcher for pages that don't require JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/clipper"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout bounds a single fetch. Kept consistent with
// rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// Ensure Fetcher implements clipper.Fetcher at compile time.
var _ clipper.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML with a single GET request. It does not execute
// JavaScript. Bodies are decoded to UTF-8 using the declared or sniffed
// character set.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// Option configures a Fetcher or AssetFetcher.
type Option func(*config)

type config struct {
	timeout   time.Duration
	userAgent string
	maxBody   int64
}

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
// Defaults to clipper.DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the largest response body accepted, in bytes.
func WithMaxBodySize(n int64) Option {
	return func(c *config) {
		c.maxBody = n
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		timeout:   DefaultFetchTimeout,
		userAgent: clipper.DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	c := newConfig(opts)
	return &Fetcher{
		client:    &http.Client{Timeout: c.timeout},
		userAgent: c.userAgent,
		maxBody:   c.maxBody,
	}
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := get(ctx, f.client, url, f.userAgent)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", url, err)
	}

	body, err := readLimited(r, f.maxBody)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func get(ctx context.Context, client *http.Client, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, clipper.Errorf(clipper.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, clipper.Errorf(clipper.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
		}
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return resp, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response exceeds %d bytes", limit)
	}
	return body, nil
}
