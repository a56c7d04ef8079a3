package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/clipper"
)

// Tags are matched without nesting: each block ends at the first closing
// tag that follows its opening tag.
var (
	conditionalRe = regexp.MustCompile(`(?s)\{%\s*if\s+([^%]+?)\s*%\}(.*?)\{%\s*endif\s*%\}`)
	loopRe        = regexp.MustCompile(`(?s)\{%\s*for\s+(\w+)\s+in\s+([\w.@-]+)\s*%\}(.*?)\{%\s*endfor\s*%\}`)
	variableRe    = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)
)

// Evaluator renders template text against a Context.
// It is safe for concurrent use.
type Evaluator struct {
	filters *FilterRegistry
}

// NewEvaluator returns an Evaluator that applies filters from registry.
func NewEvaluator(registry *FilterRegistry) *Evaluator {
	if registry == nil {
		registry = NewFilterRegistry()
	}
	return &Evaluator{filters: registry}
}

// Evaluate renders content in three passes: conditionals, then loops, then
// variables. Unresolvable paths render as empty strings. An error is
// returned only when a pass fails unexpectedly.
func (e *Evaluator) Evaluate(content string, ctx *Context) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	out = e.conditionals(content, ctx)
	out = e.loops(out, ctx)
	out = e.variables(out, ctx)
	return out, nil
}

// Substitute runs only the variable pass over content. It is used for
// short patterns such as note names and folders.
func (e *Evaluator) Substitute(content string, ctx *Context) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return e.variables(content, ctx), nil
}

func (e *Evaluator) conditionals(content string, ctx *Context) string {
	return replaceAllSubmatch(conditionalRe, content, func(m []string) string {
		if e.condition(m[1], ctx) {
			return m[2]
		}
		return ""
	})
}

// condition evaluates "a == b", "a != b", or a bare path's truthiness.
func (e *Evaluator) condition(cond string, ctx *Context) bool {
	left, op, right := cutOperator(cond)
	switch op {
	case "==":
		return operand(left, ctx).String() == unquote(strings.TrimSpace(right))
	case "!=":
		return operand(left, ctx).String() != unquote(strings.TrimSpace(right))
	}
	return operand(cond, ctx).Truthy()
}

// cutOperator splits cond around the first "==" or "!=" outside quotes.
// op is empty when there is none.
func cutOperator(cond string) (left, op, right string) {
	var quote byte
	for i := 0; i+1 < len(cond); i++ {
		c := cond[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case (c == '=' || c == '!') && cond[i+1] == '=':
			return cond[:i], cond[i : i+2], cond[i+2:]
		}
	}
	return cond, "", ""
}

func (e *Evaluator) loops(content string, ctx *Context) string {
	return replaceAllSubmatch(loopRe, content, func(m []string) string {
		name, listPath, body := m[1], m[2], m[3]

		list := Resolve(listPath, ctx)
		if list.Kind() != clipper.KindList {
			return ""
		}

		items := list.Items()
		var b strings.Builder
		for i, item := range items {
			loop := clipper.NewMap(map[string]clipper.Value{
				"index":  clipper.NewInt(int64(i)),
				"index0": clipper.NewInt(int64(i)),
				"index1": clipper.NewInt(int64(i + 1)),
				"first":  clipper.NewBool(i == 0),
				"last":   clipper.NewBool(i == len(items)-1),
				"length": clipper.NewInt(int64(len(items))),
			})
			b.WriteString(e.variables(body, ctx.With(name, item).With("loop", loop)))
		}
		return b.String()
	})
}

func (e *Evaluator) variables(content string, ctx *Context) string {
	return replaceAllSubmatch(variableRe, content, func(m []string) string {
		return e.expression(m[1], ctx).String()
	})
}

// expression evaluates "path | filter:arg:arg | filter".
func (e *Evaluator) expression(expr string, ctx *Context) clipper.Value {
	parts := splitUnquoted(expr, '|')
	value := operand(parts[0], ctx)

	for _, part := range parts[1:] {
		segs := splitUnquoted(part, ':')
		name := strings.TrimSpace(segs[0])
		if name == "" {
			continue
		}
		args := make([]string, 0, len(segs)-1)
		for _, arg := range segs[1:] {
			args = append(args, unquote(strings.TrimSpace(arg)))
		}
		value = e.filters.Apply(value, name, args, ctx.Now)
	}
	return value
}

// operand resolves a path, or returns a quoted string literal as is.
func operand(s string, ctx *Context) clipper.Value {
	s = strings.TrimSpace(s)
	if isQuoted(s) {
		return clipper.NewString(s[1 : len(s)-1])
	}
	return Resolve(s, ctx)
}

func isQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

func unquote(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// splitUnquoted splits s on sep, ignoring separators inside single or
// double quotes.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// replaceAllSubmatch replaces every non-overlapping match of re in s with
// the result of fn, which receives the match and its submatches.
func replaceAllSubmatch(re *regexp.Regexp, s string, fn func([]string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
