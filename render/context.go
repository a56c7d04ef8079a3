// Package render implements the clip template language and renders clips
// into Markdown notes with YAML frontmatter.
package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/clipper"
)

// Context is the variable space a render resolves paths against.
// A Context is never modified after construction; With returns a copy.
type Context struct {
	// Now is the time captured at the start of the render. Every date
	// variable and the date filter use it.
	Now time.Time

	vars map[string]clipper.Value
}

// NewContext returns a Context holding vars.
func NewContext(now time.Time, vars map[string]clipper.Value) *Context {
	if vars == nil {
		vars = map[string]clipper.Value{}
	}
	return &Context{Now: now, vars: vars}
}

// Lookup returns the top-level variable name.
func (c *Context) Lookup(name string) (clipper.Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// With returns a copy of c with name bound to v.
func (c *Context) With(name string, v clipper.Value) *Context {
	vars := make(map[string]clipper.Value, len(c.vars)+1)
	for k, item := range c.vars {
		vars[k] = item
	}
	vars[name] = v
	return &Context{Now: c.Now, vars: vars}
}

// Resolve looks up a dotted path such as "schema.author.name" or
// "highlights.0.text". Maps are indexed by key and lists by non-negative
// position. Any miss yields clipper.Null.
func Resolve(path string, ctx *Context) clipper.Value {
	segments := strings.Split(strings.TrimSpace(path), ".")
	current, ok := ctx.Lookup(segments[0])
	if !ok {
		return clipper.Null
	}

	for _, seg := range segments[1:] {
		switch current.Kind() {
		case clipper.KindMap:
			current, ok = current.Field(seg)
		case clipper.KindList:
			var i int
			i, ok = parseIndex(seg)
			if ok {
				current, ok = current.Index(i)
			}
		default:
			ok = false
		}
		if !ok {
			return clipper.Null
		}
	}
	return current
}

func parseIndex(s string) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// BuildContext returns the variables available to a template for one clip.
// The current-time variables all derive from now.
func BuildContext(clip *clipper.ClipData, meta *clipper.Metadata, highlights []clipper.Highlight, now time.Time) *Context {
	if meta == nil {
		meta = &clipper.Metadata{}
	}

	vars := map[string]clipper.Value{
		"title":       clipper.NewString(Title(clip, meta)),
		"url":         clipper.NewString(clip.URL),
		"domain":      clipper.NewString(clip.Domain),
		"favicon":     optional(meta.Favicon),
		"published":   optional(meta.PublishedAt),
		"author":      optional(meta.Author),
		"excerpt":     optional(meta.Description),
		"description": optional(meta.Description),
		"site_name":   optional(meta.SiteName),
		"image":       optional(meta.FeaturedImage),
		"canonical":   optional(meta.Canonical),

		"content":   clipper.NewString(clip.ExtractedContent),
		"selection": clipper.NewString(clip.SelectedText),
		"note":      clipper.NewString(clip.Note),

		"highlights":      highlightList(highlights),
		"highlight_count": clipper.NewInt(int64(len(highlights))),

		"date":      clipper.NewString(now.Format("2006-01-02")),
		"time":      clipper.NewString(now.Format("15:04:05")),
		"datetime":  clipper.NewString(now.Format("2006-01-02T15:04:05")),
		"timestamp": clipper.NewInt(now.Unix()),

		"tags":     clipper.NewStringList(clip.Tags),
		"tag_list": clipper.NewString(strings.Join(clip.Tags, ", ")),
	}

	if meta.WordCount > 0 {
		vars["length"] = clipper.NewInt(int64(meta.WordCount))
	} else {
		vars["length"] = clipper.Null
	}
	if meta.SchemaOrg != nil {
		vars["schema"] = clipper.ValueOf(meta.SchemaOrg)
	}

	return NewContext(now, vars)
}

// Title returns the note title: the clip title, else the page title,
// else "Untitled".
func Title(clip *clipper.ClipData, meta *clipper.Metadata) string {
	if strings.TrimSpace(clip.Title) != "" {
		return clip.Title
	}
	if meta != nil && strings.TrimSpace(meta.Title) != "" {
		return meta.Title
	}
	return "Untitled"
}

func optional(s string) clipper.Value {
	if s == "" {
		return clipper.Null
	}
	return clipper.NewString(s)
}

func highlightList(highlights []clipper.Highlight) clipper.Value {
	items := make([]clipper.Value, len(highlights))
	for i, h := range highlights {
		items[i] = clipper.NewMap(map[string]clipper.Value{
			"text": clipper.NewString(h.Text),
			"note": optional(h.Note),
		})
	}
	return clipper.NewList(items...)
}
