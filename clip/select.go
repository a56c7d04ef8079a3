package clip

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/clipper"
)

// SelectTemplate picks the template for a clip of url. An explicit id wins;
// otherwise the first stored template with a matching trigger is used, then
// the stored default, then the built-in default.
func SelectTemplate(ctx context.Context, templates clipper.TemplateService, id, url string, meta *clipper.Metadata) (*clipper.Template, error) {
	if templates == nil {
		return clipper.DefaultTemplate(), nil
	}
	if id != "" {
		return templates.FindTemplateByID(ctx, id)
	}

	all, err := templates.FindTemplates(ctx, clipper.TemplateFilter{})
	if err != nil {
		return nil, fmt.Errorf("find templates: %w", err)
	}

	for _, tmpl := range all {
		for _, trigger := range tmpl.Triggers {
			if Matches(trigger, url, meta) {
				return tmpl, nil
			}
		}
	}
	for _, tmpl := range all {
		if tmpl.IsDefault {
			return tmpl, nil
		}
	}
	return clipper.DefaultTemplate(), nil
}

// Matches reports whether trigger selects the page at url.
//
// url_simple patterns match as a prefix of the URL and url_regex patterns
// anywhere in it. schema_org patterns take the form "@Type" or
// "@Type.path.to.field": the type must equal the page's JSON-LD @type (or
// appear in it, when @type is a list). With a path, the field must exist
// and, when the trigger has a Value, its string form must equal that value.
func Matches(trigger clipper.Trigger, url string, meta *clipper.Metadata) bool {
	switch trigger.Type {
	case clipper.TriggerURLSimple:
		return url != "" && strings.HasPrefix(url, trigger.Pattern)
	case clipper.TriggerURLRegex:
		re, err := regexp.Compile(trigger.Pattern)
		return err == nil && re.MatchString(url)
	case clipper.TriggerSchemaOrg:
		if meta == nil || meta.SchemaOrg == nil {
			return false
		}
		return matchSchema(trigger, clipper.ValueOf(meta.SchemaOrg))
	}
	return false
}

func matchSchema(trigger clipper.Trigger, schema clipper.Value) bool {
	pattern := strings.TrimPrefix(strings.TrimSpace(trigger.Pattern), "@")
	typ, path, _ := strings.Cut(pattern, ".")
	if typ == "" {
		return false
	}

	declared, _ := schema.Field("@type")
	if !hasType(declared, typ) {
		return false
	}
	if path == "" {
		return true
	}

	v := schema
	for _, key := range strings.Split(path, ".") {
		next, ok := v.Field(key)
		if !ok || next.IsNull() {
			return false
		}
		v = next
	}
	return trigger.Value == "" || v.String() == trigger.Value
}

func hasType(declared clipper.Value, typ string) bool {
	if declared.Kind() == clipper.KindList {
		for _, item := range declared.Items() {
			if item.String() == typ {
				return true
			}
		}
		return false
	}
	return declared.String() == typ
}
