package clip_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/clipper"
	"github.com/fwojciec/clipper/clip"
	"github.com/fwojciec/clipper/goquery"
	"github.com/fwojciec/clipper/mock"
	"github.com/fwojciec/clipper/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head>
<title>Doc title</title>
<meta property="og:title" content="Open Graph Title">
</head><body><article><p>Readable body text.</p></article></body></html>`

func staticFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) { return html, nil },
	}
}

func newPipeline(fetcher clipper.Fetcher) *clip.Pipeline {
	return &clip.Pipeline{
		Fetcher:  fetcher,
		Metadata: goquery.NewMetadataExtractor(),
		Content:  goquery.NewContentExtractor(),
	}
}

func TestPipeline_Extract(t *testing.T) {
	t.Parallel()

	t.Run("packages metadata and content", func(t *testing.T) {
		t.Parallel()

		got := newPipeline(staticFetcher(articleHTML)).Extract(context.Background(), "https://www.example.com/a")

		require.NoError(t, got.Err)
		assert.Equal(t, "https://www.example.com/a", got.URL)
		assert.Equal(t, "Open Graph Title", got.Title)
		assert.Equal(t, "Readable body text.", got.Content)
		assert.Equal(t, articleHTML, got.RawHTML)
		assert.Equal(t, "example.com", got.Metadata.SiteName)
	})

	t.Run("fetch failure degrades", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("connection refused")
			},
		}

		got := newPipeline(fetcher).Extract(context.Background(), "https://www.example.com/a")

		require.Error(t, got.Err)
		assert.Equal(t, "Error loading page", got.Title)
		assert.Equal(t, "Failed to extract content: fetch: connection refused", got.Content)
		assert.Equal(t, &clipper.Metadata{
			Title:       "Error",
			Description: "Failed to load page",
			SiteName:    "example.com",
		}, got.Metadata)
		assert.Empty(t, got.RawHTML)
	})

	t.Run("extraction failure degrades", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(staticFetcher(""))

		got := p.Extract(context.Background(), "https://e.com")

		require.Error(t, got.Err)
		assert.Equal(t, clipper.EINVALID, clipper.ErrorCode(got.Err))
		assert.Equal(t, "Error loading page", got.Title)
	})

	t.Run("fetch is attempted once", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				calls++
				return "", errors.New("flaky")
			},
		}

		newPipeline(fetcher).Extract(context.Background(), "https://e.com")

		assert.Equal(t, 1, calls)
	})
}

func TestPipeline_Extract_TimeoutStillRenders(t *testing.T) {
	t.Parallel()

	// Given a fetcher that never answers and a short timeout
	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	p := newPipeline(fetcher)
	p.Timeout = 20 * time.Millisecond

	// When the page is extracted
	start := time.Now()
	extracted := p.Extract(context.Background(), "https://slow.example.com/post")

	// Then a diagnostic comes back within the timeout
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, extracted.Err, context.DeadlineExceeded)
	assert.NotEmpty(t, extracted.Content)
	assert.Contains(t, extracted.Content, "Failed to extract content")

	// And rendering the degraded page still yields a usable note
	renderer := render.NewRenderer(render.NewEvaluator(render.NewFilterRegistry()))
	rendered := renderer.Render(nil, extracted.ClipData(), extracted.Metadata, nil)

	assert.NotEmpty(t, rendered.Content)
	assert.Equal(t, "Error loading page", rendered.Filename)
}
