package mock

import "github.com/fwojciec/clipper"

var _ clipper.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of clipper.Renderer.
type Renderer struct {
	RenderFn func(tmpl *clipper.Template, clip *clipper.ClipData, meta *clipper.Metadata, highlights []clipper.Highlight) *clipper.RenderedClip
}

func (r *Renderer) Render(tmpl *clipper.Template, clip *clipper.ClipData, meta *clipper.Metadata, highlights []clipper.Highlight) *clipper.RenderedClip {
	return r.RenderFn(tmpl, clip, meta, highlights)
}
