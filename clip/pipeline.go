// Package clip orchestrates clipping: fetching and extracting a page,
// choosing a template, rendering, and saving the note into a vault.
package clip

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/clipper"
)

// DefaultTimeout bounds a single page extraction.
const DefaultTimeout = 10 * time.Second

// Pipeline fetches a page and extracts its metadata and readable content.
type Pipeline struct {
	Fetcher  clipper.Fetcher
	Metadata clipper.MetadataExtractor
	Content  clipper.ContentExtractor
	Timeout  time.Duration
}

// Extract never fails. The fetch is attempted once within the timeout; any
// fetch or parse failure yields a degraded result whose title and content
// describe the problem and whose Err holds the cause.
func (p *Pipeline) Extract(ctx context.Context, url string) *clipper.ExtractedContent {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return degraded(url, fmt.Errorf("fetch: %w", err))
	}

	meta, err := p.Metadata.ExtractMetadata(html, url)
	if err != nil {
		return degraded(url, fmt.Errorf("metadata: %w", err))
	}

	content, err := p.Content.ExtractContent(html)
	if err != nil {
		return degraded(url, fmt.Errorf("content: %w", err))
	}

	return &clipper.ExtractedContent{
		URL:      url,
		Title:    meta.Title,
		Content:  content,
		Metadata: meta,
		RawHTML:  html,
	}
}

func degraded(url string, err error) *clipper.ExtractedContent {
	return &clipper.ExtractedContent{
		URL:     url,
		Title:   "Error loading page",
		Content: "Failed to extract content: " + err.Error(),
		Metadata: &clipper.Metadata{
			Title:       "Error",
			Description: "Failed to load page",
			SiteName:    clipper.Domain(url),
		},
		Err: err,
	}
}
