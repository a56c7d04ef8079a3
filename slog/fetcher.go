// Package slog provides logging decorators for clipper services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/clipper"
)

// Ensure LoggingFetcher implements clipper.Fetcher.
var _ clipper.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   clipper.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next clipper.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingAssetFetcher implements clipper.AssetFetcher.
var _ clipper.AssetFetcher = (*LoggingAssetFetcher)(nil)

// LoggingAssetFetcher wraps an AssetFetcher with logging.
type LoggingAssetFetcher struct {
	next   clipper.AssetFetcher
	logger *slog.Logger
}

// NewLoggingAssetFetcher creates a new LoggingAssetFetcher.
func NewLoggingAssetFetcher(next clipper.AssetFetcher, logger *slog.Logger) *LoggingAssetFetcher {
	return &LoggingAssetFetcher{next: next, logger: logger}
}

// FetchAsset delegates to the wrapped fetcher and logs the download.
func (f *LoggingAssetFetcher) FetchAsset(ctx context.Context, url string) (asset *clipper.Asset, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin), "err", err}
		if asset != nil {
			attrs = append(attrs, "filename", asset.Filename, "bytes", len(asset.Data))
		}
		f.logger.Info("fetch asset", attrs...)
	}(time.Now())
	return f.next.FetchAsset(ctx, url)
}
