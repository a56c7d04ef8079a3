package render

import (
	"html"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/clipper"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultTruncateLength is the truncate filter's length when no argument is given.
const DefaultTruncateLength = 100

// DefaultDatePattern is the date filter's pattern when no argument is given.
const DefaultDatePattern = "yyyy-MM-dd"

// Filter transforms a value. Filters are total: they accept any value,
// including clipper.Null, and never fail. now is the render's captured time.
type Filter func(in clipper.Value, args []string, now time.Time) clipper.Value

// FilterRegistry is an immutable table of named filters.
// It is safe for concurrent use.
type FilterRegistry struct {
	filters map[string]Filter
}

// FilterOption configures a FilterRegistry.
type FilterOption func(*filterConfig)

type filterConfig struct {
	converter clipper.Converter
	extra     map[string]Filter
}

// WithConverter sets the HTML to Markdown converter used by the markdown
// filter. Without one the filter only strips markup.
func WithConverter(c clipper.Converter) FilterOption {
	return func(cfg *filterConfig) {
		cfg.converter = c
	}
}

// WithFilter registers an additional filter, replacing any built-in filter
// of the same name.
func WithFilter(name string, f Filter) FilterOption {
	return func(cfg *filterConfig) {
		cfg.extra[strings.ToLower(name)] = f
	}
}

// NewFilterRegistry returns a registry holding the built-in filters.
func NewFilterRegistry(opts ...FilterOption) *FilterRegistry {
	cfg := &filterConfig{extra: map[string]Filter{}}
	for _, opt := range opts {
		opt(cfg)
	}

	strict := bluemonday.StrictPolicy()
	strip := func(s string) string {
		return html.UnescapeString(strict.Sanitize(s))
	}

	filters := map[string]Filter{
		"lower":     stringFilter(strings.ToLower),
		"upper":     stringFilter(strings.ToUpper),
		"title":     stringFilter(titleCase),
		"trim":      stringFilter(strings.TrimSpace),
		"truncate":  truncate,
		"replace":   replace,
		"striphtml": stringFilter(strip),
		"markdown":  markdownFilter(cfg.converter, strip),
		"date":      date,
		"join":      join,
		"first":     first,
		"last":      last,
		"default":   defaultFilter,
	}
	for name, f := range cfg.extra {
		filters[name] = f
	}

	return &FilterRegistry{filters: filters}
}

// Apply runs the named filter over in. Unknown filter names return in
// unchanged so a typo never breaks a render.
func (r *FilterRegistry) Apply(in clipper.Value, name string, args []string, now time.Time) clipper.Value {
	f, ok := r.filters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return in
	}
	return f(in, args, now)
}

// Has reports whether a filter is registered under name.
func (r *FilterRegistry) Has(name string) bool {
	_, ok := r.filters[strings.ToLower(name)]
	return ok
}

func stringFilter(fn func(string) string) Filter {
	return func(in clipper.Value, _ []string, _ time.Time) clipper.Value {
		return clipper.NewString(fn(in.String()))
	}
}

// titleCase upper-cases the first letter of every whitespace-separated word
// and leaves everything else alone.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			start = true
			b.WriteRune(r)
			continue
		}
		if start {
			r = unicode.ToTitle(r)
			start = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truncate(in clipper.Value, args []string, _ time.Time) clipper.Value {
	n := DefaultTruncateLength
	if len(args) > 0 {
		if v, err := strconv.Atoi(strings.TrimSpace(args[0])); err == nil && v >= 0 {
			n = v
		}
	}
	runes := []rune(in.String())
	if len(runes) <= n {
		return clipper.NewString(string(runes))
	}
	return clipper.NewString(string(runes[:n]) + "...")
}

func replace(in clipper.Value, args []string, _ time.Time) clipper.Value {
	if len(args) < 2 || args[0] == "" {
		return in
	}
	return clipper.NewString(strings.ReplaceAll(in.String(), args[0], args[1]))
}

func markdownFilter(conv clipper.Converter, strip func(string) string) Filter {
	return func(in clipper.Value, _ []string, _ time.Time) clipper.Value {
		s := in.String()
		if conv != nil && strings.TrimSpace(s) != "" {
			if md, err := conv.Convert(s); err == nil {
				s = md
			}
		}
		return clipper.NewString(strings.TrimSpace(strip(s)))
	}
}

func date(in clipper.Value, args []string, now time.Time) clipper.Value {
	pattern := DefaultDatePattern
	if len(args) > 0 && args[0] != "" {
		pattern = args[0]
	}

	t := now
	if s := strings.TrimSpace(in.String()); s != "" {
		if parsed, err := dateparse.ParseAny(s); err == nil {
			t = parsed
		}
	}
	return clipper.NewString(FormatDate(t, pattern))
}

func join(in clipper.Value, args []string, _ time.Time) clipper.Value {
	if in.Kind() != clipper.KindList {
		return in
	}
	sep := ", "
	if len(args) > 0 {
		sep = args[0]
	}
	items := in.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return clipper.NewString(strings.Join(parts, sep))
}

func first(in clipper.Value, _ []string, _ time.Time) clipper.Value {
	if in.Kind() != clipper.KindList {
		return in
	}
	v, _ := in.Index(0)
	return v
}

func last(in clipper.Value, _ []string, _ time.Time) clipper.Value {
	if in.Kind() != clipper.KindList {
		return in
	}
	v, _ := in.Index(in.Len() - 1)
	return v
}

func defaultFilter(in clipper.Value, args []string, _ time.Time) clipper.Value {
	if len(args) == 0 || strings.TrimSpace(in.String()) != "" {
		return in
	}
	return clipper.NewString(args[0])
}
