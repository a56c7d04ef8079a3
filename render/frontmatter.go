package render

import (
	"bytes"
	"strconv"
	"time"

	"github.com/fwojciec/clipper"
	"gopkg.in/yaml.v3"
)

// Generator is the value of the frontmatter "clipper" key.
const Generator = "clipper"

// Frontmatter returns the YAML header block for a clip. Keys appear in a
// fixed order and optional keys are omitted when empty.
func Frontmatter(clip *clipper.ClipData, meta *clipper.Metadata, highlights []clipper.Highlight, now time.Time) (string, error) {
	if meta == nil {
		meta = &clipper.Metadata{}
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
	}
	addString := func(key, value string) {
		if value != "" {
			add(key, str(value))
		}
	}

	date := now.Format("2006-01-02")

	add("title", str(Title(clip, meta)))
	add("url", str(clip.URL))
	addString("domain", clip.Domain)
	if len(clip.Tags) > 0 {
		tags := &yaml.Node{Kind: yaml.SequenceNode}
		for _, tag := range clip.Tags {
			tags.Content = append(tags.Content, str(tag))
		}
		add("tags", tags)
	}
	add("created", plain(date))
	add("updated", plain(date))
	addString("author", meta.Author)
	addString("site_name", meta.SiteName)
	addString("published", meta.PublishedAt)
	if meta.WordCount > 0 {
		add("word_count", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(meta.WordCount)})
	}
	addString("description", meta.Description)
	if len(highlights) > 0 {
		list := &yaml.Node{Kind: yaml.SequenceNode}
		for _, h := range highlights {
			item := &yaml.Node{Kind: yaml.MappingNode}
			item.Content = append(item.Content, plain("text"), str(h.Text))
			if h.Note != "" {
				item.Content = append(item.Content, plain("note"), str(h.Note))
			}
			list.Content = append(list.Content, item)
		}
		add("highlights", list)
	}
	add("clipper", str(Generator))

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	buf.WriteString("---\n")
	return buf.String(), nil
}

// str returns a string scalar. The encoder quotes it whenever the plain form
// would read back as another type or contains structural characters.
func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func plain(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}
