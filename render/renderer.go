package render

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/clipper"
)

// DefaultFolder is where notes go when neither the template nor the clip
// names a folder.
const DefaultFolder = "Clips"

// Ensure Renderer implements clipper.Renderer at compile time.
var _ clipper.Renderer = (*Renderer)(nil)

// Renderer renders clips through templates. It performs no I/O and is safe
// for concurrent use.
type Renderer struct {
	evaluator *Evaluator
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger that receives template diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithClock sets the function that supplies the render time.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a Renderer that evaluates templates with evaluator.
func NewRenderer(evaluator *Evaluator, opts ...Option) *Renderer {
	r := &Renderer{
		evaluator: evaluator,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders clip through tmpl. It never fails: when the template cannot
// be evaluated, the content is the raw template text prefixed with an error
// line, while frontmatter, filename and folder are still computed.
func (r *Renderer) Render(tmpl *clipper.Template, clip *clipper.ClipData, meta *clipper.Metadata, highlights []clipper.Highlight) *clipper.RenderedClip {
	if tmpl == nil {
		tmpl = clipper.DefaultTemplate()
	}
	if clip == nil {
		clip = &clipper.ClipData{}
	}

	now := r.now()
	ctx := BuildContext(clip, meta, highlights, now)

	content, err := r.evaluator.Evaluate(tmpl.Content, ctx)
	if err != nil {
		r.logger.Warn("template evaluation failed",
			"template", tmpl.ID,
			"url", clip.URL,
			"err", err,
		)
		content = fmt.Sprintf("Error processing template: %v\n\n%s", err, tmpl.Content)
	}

	frontmatter, err := Frontmatter(clip, meta, highlights, now)
	if err != nil {
		r.logger.Warn("frontmatter encoding failed", "url", clip.URL, "err", err)
		frontmatter = "---\nclipper: " + Generator + "\n---\n"
	}

	insert := tmpl.Behavior.InsertLocation
	if insert == "" {
		insert = clipper.InsertBottom
	}

	return &clipper.RenderedClip{
		Content:        content,
		Frontmatter:    frontmatter,
		Filename:       r.filename(tmpl, ctx),
		Folder:         r.folder(tmpl, clip, ctx),
		Action:         tmpl.Behavior.Action,
		InsertLocation: insert,
	}
}

// filename renders the template's note name, falling back to the captured
// date for daily notes and to the title otherwise.
func (r *Renderer) filename(tmpl *clipper.Template, ctx *Context) string {
	title := Resolve("title", ctx).String()

	pattern := tmpl.Behavior.NoteName
	if pattern == "" && tmpl.Behavior.Action == clipper.ActionAddToDailyNote {
		pattern = ctx.Now.Format("2006-01-02")
	}
	if pattern == "" {
		return clipper.SanitizeFilename(title)
	}

	name, err := r.evaluator.Substitute(pattern, ctx)
	if err != nil {
		r.logger.Warn("note name evaluation failed", "pattern", pattern, "err", err)
		name = title
	}
	return clipper.SanitizeFilename(name)
}

func (r *Renderer) folder(tmpl *clipper.Template, clip *clipper.ClipData, ctx *Context) string {
	b := tmpl.Behavior
	switch {
	case b.NoteLocation == clipper.LocationVaultRoot:
		return ""
	case b.NoteLocation == clipper.LocationPromptUser && clip.Folder != "":
		return clip.Folder
	case b.Folder != "":
		folder, err := r.evaluator.Substitute(b.Folder, ctx)
		if err != nil {
			r.logger.Warn("folder evaluation failed", "pattern", b.Folder, "err", err)
			return DefaultFolder
		}
		if strings.TrimSpace(folder) == "" {
			return DefaultFolder
		}
		return strings.TrimSpace(folder)
	case clip.Folder != "":
		return clip.Folder
	}
	return DefaultFolder
}
