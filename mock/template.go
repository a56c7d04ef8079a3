package mock

import (
	"context"

	"github.com/fwojciec/clipper"
)

var _ clipper.TemplateService = (*TemplateService)(nil)

// TemplateService is a mock implementation of clipper.TemplateService.
type TemplateService struct {
	CreateTemplateFn   func(ctx context.Context, tmpl *clipper.Template) error
	FindTemplateByIDFn func(ctx context.Context, id string) (*clipper.Template, error)
	FindTemplatesFn    func(ctx context.Context, filter clipper.TemplateFilter) ([]*clipper.Template, error)
	DeleteTemplateFn   func(ctx context.Context, id string) error
}

func (s *TemplateService) CreateTemplate(ctx context.Context, tmpl *clipper.Template) error {
	return s.CreateTemplateFn(ctx, tmpl)
}

func (s *TemplateService) FindTemplateByID(ctx context.Context, id string) (*clipper.Template, error) {
	return s.FindTemplateByIDFn(ctx, id)
}

func (s *TemplateService) FindTemplates(ctx context.Context, filter clipper.TemplateFilter) ([]*clipper.Template, error) {
	return s.FindTemplatesFn(ctx, filter)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	return s.DeleteTemplateFn(ctx, id)
}

var _ clipper.ClipService = (*ClipService)(nil)

// ClipService is a mock implementation of clipper.ClipService.
type ClipService struct {
	CreateClipFn   func(ctx context.Context, clip *clipper.Clip) error
	FindClipByIDFn func(ctx context.Context, id string) (*clipper.Clip, error)
	FindClipsFn    func(ctx context.Context, filter clipper.ClipFilter) ([]*clipper.Clip, error)
}

func (s *ClipService) CreateClip(ctx context.Context, clip *clipper.Clip) error {
	return s.CreateClipFn(ctx, clip)
}

func (s *ClipService) FindClipByID(ctx context.Context, id string) (*clipper.Clip, error) {
	return s.FindClipByIDFn(ctx, id)
}

func (s *ClipService) FindClips(ctx context.Context, filter clipper.ClipFilter) ([]*clipper.Clip, error) {
	return s.FindClipsFn(ctx, filter)
}
