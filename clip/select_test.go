package clip_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/clipper"
	"github.com/fwojciec/clipper/clip"
	"github.com/fwojciec/clipper/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	recipe := &clipper.Metadata{SchemaOrg: map[string]any{
		"@type":  "Recipe",
		"name":   "Soup",
		"author": map[string]any{"name": "Chef"},
	}}
	multi := &clipper.Metadata{SchemaOrg: map[string]any{"@type": []any{"Article", "NewsArticle"}}}

	tests := []struct {
		name    string
		trigger clipper.Trigger
		url     string
		meta    *clipper.Metadata
		want    bool
	}{
		{name: "simple prefix", trigger: clipper.Trigger{Type: clipper.TriggerURLSimple, Pattern: "https://github.com/"}, url: "https://github.com/x/y", want: true},
		{name: "simple is not contains", trigger: clipper.Trigger{Type: clipper.TriggerURLSimple, Pattern: "github.com"}, url: "https://github.com/x", want: false},
		{name: "simple with no url", trigger: clipper.Trigger{Type: clipper.TriggerURLSimple, Pattern: ""}, url: "", want: false},
		{name: "regex", trigger: clipper.Trigger{Type: clipper.TriggerURLRegex, Pattern: `youtube\.com/watch`}, url: "https://www.youtube.com/watch?v=1", want: true},
		{name: "invalid regex", trigger: clipper.Trigger{Type: clipper.TriggerURLRegex, Pattern: `(`}, url: "https://e.com", want: false},
		{name: "schema type", trigger: clipper.Trigger{Type: clipper.TriggerSchemaOrg, Pattern: "@Recipe"}, meta: recipe, want: true},
		{name: "schema other type", trigger: clipper.Trigger{Type: clipper.TriggerSchemaOrg, Pattern: "@Movie"}, meta: recipe, want: false},
		{name: "schema type list", trigger: clipper.Trigger{Type: clipper.TriggerSchemaOrg, Pattern: "@NewsArticle"}, meta: multi, want: true},
		{name: "schema path exists", trigger: clipper.Trigger{Type: clipper.TriggerSchemaOrg, Pattern: "@Recipe.author.name"}, meta: recipe, want: true},
		{name: "schema path value", trigger: clipper.Trigger{Type: clipper.TriggerSchemaOrg, Pattern: "@Recipe.name", Value: "Soup"}, meta: recipe, want: true},
		{name: "schema path wrong value", trigger: clipper.Trigger{Type: clipper.TriggerSchemaOrg, Pattern: "@Recipe.name", Value: "Stew"}, meta: recipe, want: false},
		{name: "schema missing path", trigger: clipper.Trigger{Type: clipper.TriggerSchemaOrg, Pattern: "@Recipe.yield"}, meta: recipe, want: false},
		{name: "schema without metadata", trigger: clipper.Trigger{Type: clipper.TriggerSchemaOrg, Pattern: "@Recipe"}, want: false},
		{name: "unknown type", trigger: clipper.Trigger{Type: "other", Pattern: "x"}, url: "x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, clip.Matches(tt.trigger, tt.url, tt.meta))
		})
	}
}

func TestSelectTemplate(t *testing.T) {
	t.Parallel()

	github := &clipper.Template{ID: "gh", Name: "GitHub", Triggers: []clipper.Trigger{
		{Type: clipper.TriggerURLSimple, Pattern: "https://github.com/"},
	}}
	stored := &clipper.Template{ID: "mine", Name: "Mine", IsDefault: true}

	listing := func(templates ...*clipper.Template) *mock.TemplateService {
		return &mock.TemplateService{
			FindTemplatesFn: func(context.Context, clipper.TemplateFilter) ([]*clipper.Template, error) {
				return templates, nil
			},
		}
	}

	t.Run("explicit id", func(t *testing.T) {
		t.Parallel()

		svc := &mock.TemplateService{
			FindTemplateByIDFn: func(_ context.Context, id string) (*clipper.Template, error) {
				assert.Equal(t, "gh", id)
				return github, nil
			},
		}

		got, err := clip.SelectTemplate(context.Background(), svc, "gh", "https://e.com", nil)

		require.NoError(t, err)
		assert.Same(t, github, got)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		svc := &mock.TemplateService{
			FindTemplateByIDFn: func(context.Context, string) (*clipper.Template, error) {
				return nil, clipper.Errorf(clipper.ENOTFOUND, "template not found")
			},
		}

		_, err := clip.SelectTemplate(context.Background(), svc, "nope", "", nil)

		assert.Equal(t, clipper.ENOTFOUND, clipper.ErrorCode(err))
	})

	t.Run("trigger beats stored default", func(t *testing.T) {
		t.Parallel()

		got, err := clip.SelectTemplate(context.Background(), listing(stored, github), "", "https://github.com/a/b", nil)

		require.NoError(t, err)
		assert.Same(t, github, got)
	})

	t.Run("stored default", func(t *testing.T) {
		t.Parallel()

		got, err := clip.SelectTemplate(context.Background(), listing(github, stored), "", "https://e.com", nil)

		require.NoError(t, err)
		assert.Same(t, stored, got)
	})

	t.Run("built-in default", func(t *testing.T) {
		t.Parallel()

		got, err := clip.SelectTemplate(context.Background(), listing(github), "", "https://e.com", nil)

		require.NoError(t, err)
		assert.Equal(t, clipper.DefaultTemplate(), got)
	})

	t.Run("no template service", func(t *testing.T) {
		t.Parallel()

		got, err := clip.SelectTemplate(context.Background(), nil, "", "https://e.com", nil)

		require.NoError(t, err)
		assert.Equal(t, "default", got.ID)
	})

	t.Run("listing failure", func(t *testing.T) {
		t.Parallel()

		svc := &mock.TemplateService{
			FindTemplatesFn: func(context.Context, clipper.TemplateFilter) ([]*clipper.Template, error) {
				return nil, errors.New("db gone")
			},
		}

		_, err := clip.SelectTemplate(context.Background(), svc, "", "https://e.com", nil)

		assert.ErrorContains(t, err, "db gone")
	})
}
