package clip

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/clipper"
	"github.com/fwojciec/clipper/render"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of clips ClipAll processes at once.
const DefaultConcurrency = 4

// Request describes one clip. Non-empty fields override what is extracted
// from the page. A request without a URL clips only the supplied text.
type Request struct {
	URL          string
	TemplateID   string
	Title        string
	SelectedText string
	Note         string
	Tags         []string
	Folder       string
	Highlights   []clipper.Highlight

	// Images downloads the page's featured image next to the note.
	Images bool
}

// RequestFromShare builds a request from text shared by another application.
func RequestFromShare(text, subject string) Request {
	data := clipper.ParseShare(text, subject)
	return Request{
		URL:          data.URL,
		Title:        data.Title,
		SelectedText: data.SelectedText,
	}
}

// Result is the outcome of one clip.
type Result struct {
	URL       string
	Title     string
	Template  *clipper.Template
	Extracted *clipper.ExtractedContent
	Rendered  *clipper.RenderedClip
	Saved     *clipper.SaveResult
	Clip      *clipper.Clip

	// Err is set by ClipAll when this clip could not be saved.
	Err error
}

// Service clips pages into a vault.
type Service struct {
	Pipeline    *Pipeline
	Templates   clipper.TemplateService
	Renderer    clipper.Renderer
	Vault       clipper.VaultWriter
	Clips       clipper.ClipService
	Assets      clipper.AssetFetcher
	RateLimiter clipper.DomainLimiter
	Concurrency int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Preview extracts and renders req without saving anything.
func (s *Service) Preview(ctx context.Context, req Request) (*Result, error) {
	result := &Result{URL: req.URL}

	data, meta := s.collect(ctx, req, result)
	result.Title = render.Title(data, meta)

	tmpl, err := SelectTemplate(ctx, s.Templates, req.TemplateID, data.URL, meta)
	if err != nil {
		return nil, err
	}
	result.Template = tmpl
	result.Rendered = s.Renderer.Render(tmpl, data, meta, req.Highlights)
	return result, nil
}

// Clip extracts, renders and saves req under dst, then records it in the
// clip history when a ClipService is configured. A page that cannot be
// fetched is still saved, with a diagnostic in place of its content.
func (s *Service) Clip(ctx context.Context, dst clipper.Folder, req Request) (*Result, error) {
	result, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	var assets []*clipper.Asset
	if req.Images && s.Assets != nil && result.Extracted != nil && result.Extracted.Err == nil {
		if img := result.Extracted.Metadata.FeaturedImage; img != "" {
			if asset, err := s.Assets.FetchAsset(ctx, img); err == nil {
				assets = append(assets, asset)
			}
		}
	}

	saved, err := s.Vault.Write(ctx, dst, result.Rendered, assets)
	if err != nil {
		return nil, fmt.Errorf("save clip: %w", err)
	}
	result.Saved = saved

	if s.Clips != nil {
		record := &clipper.Clip{
			TemplateID:   result.Template.ID,
			URL:          req.URL,
			Title:        result.Title,
			Filename:     saved.Filename,
			MarkdownPath: saved.MarkdownPath,
			AssetPaths:   saved.AssetPaths,
			CreatedAt:    s.now(),
		}
		if err := s.Clips.CreateClip(ctx, record); err != nil {
			return nil, fmt.Errorf("record clip: %w", err)
		}
		result.Clip = record
	}

	return result, nil
}

// collect builds the clip input for req, extracting the page when req has a
// URL.
func (s *Service) collect(ctx context.Context, req Request, result *Result) (*clipper.ClipData, *clipper.Metadata) {
	data := &clipper.ClipData{}
	meta := &clipper.Metadata{}

	if req.URL != "" {
		extracted := s.Pipeline.Extract(ctx, req.URL)
		result.Extracted = extracted
		data = extracted.ClipData()
		if extracted.Metadata != nil {
			meta = extracted.Metadata
		}
	}

	if req.Title != "" {
		data.Title = req.Title
	}
	if req.SelectedText != "" {
		data.SelectedText = req.SelectedText
	}
	data.Note = req.Note
	data.Tags = req.Tags
	data.Folder = req.Folder
	return data, meta
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ProgressEvent reports progress during ClipAll.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// ClipAll clips every request into dst with bounded concurrency, waiting on
// the rate limiter for each request's domain. Results are returned in
// request order; a failed clip sets the result's Err and does not stop the
// others. Progress events are delivered one at a time. The returned error is
// only set when ctx is canceled.
func (s *Service) ClipAll(ctx context.Context, dst clipper.Folder, reqs []Request, progress ProgressFunc) ([]*Result, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(reqs)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	results := make([]*Result, total)
	var completed atomic.Int64
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			result := s.clipOne(gctx, dst, req)
			results[i] = result

			n := int(completed.Add(1))
			if progress != nil {
				event := ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: req.URL}
				if result.Err != nil {
					event.Type = ProgressFailed
					event.Error = result.Err
				}
				mu.Lock()
				progress(event)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return results, ctx.Err()
}

func (s *Service) clipOne(ctx context.Context, dst clipper.Folder, req Request) *Result {
	if s.RateLimiter != nil && req.URL != "" {
		if err := s.RateLimiter.Wait(ctx, clipper.Domain(req.URL)); err != nil {
			return &Result{URL: req.URL, Err: err}
		}
	}

	result, err := s.Clip(ctx, dst, req)
	if err != nil {
		return &Result{URL: req.URL, Err: err}
	}
	return result
}
