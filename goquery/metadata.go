package goquery

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/clipper"
)

// Ensure MetadataExtractor implements clipper.MetadataExtractor at compile time.
var _ clipper.MetadataExtractor = (*MetadataExtractor)(nil)

// DefaultFavicon is used when a page declares no icon link.
const DefaultFavicon = "/favicon.ico"

// strategy reads one candidate value from a document. An empty result means
// the next strategy in the chain is tried.
type strategy func(doc *goquery.Document) string

// Fallback chains, in priority order.
var (
	titleStrategies = []strategy{
		metaContent(`meta[property="og:title"]`),
		metaContent(`meta[name="twitter:title"]`),
		text("title"),
		firstText("h1"),
	}
	descriptionStrategies = []strategy{
		metaContent(`meta[property="og:description"]`),
		metaContent(`meta[name="twitter:description"]`),
		metaContent(`meta[name="description"]`),
	}
	authorStrategies = []strategy{
		metaContent(`meta[name="author"]`),
		metaContent(`meta[property="article:author"]`),
		text(`[rel="author"]`),
		text(".author"),
	}
	siteNameStrategies = []strategy{
		metaContent(`meta[property="og:site_name"]`),
	}
	publishedStrategies = []strategy{
		metaContent(`meta[property="article:published_time"]`),
		metaContent(`meta[name="publishdate"]`),
		attr("time[datetime]", "datetime"),
	}
	imageStrategies = []strategy{
		metaContent(`meta[property="og:image"]`),
		metaContent(`meta[name="twitter:image"]`),
		attr("img[src]", "src"),
	}
	faviconStrategies = []strategy{
		attr(`link[rel~="icon"]`, "href"),
		attr(`link[rel~="shortcut"]`, "href"),
	}
	canonicalStrategies = []strategy{
		attr(`link[rel="canonical"]`, "href"),
	}
)

// MetadataExtractor derives page metadata from HTML through prioritized
// fallback chains.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// ExtractMetadata parses rawHTML and returns its metadata. Missing values
// are left empty, except site name, favicon and canonical which fall back to
// values derived from pageURL.
func (e *MetadataExtractor) ExtractMetadata(rawHTML, pageURL string) (*clipper.Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, clipper.Errorf(clipper.EINVALID, "failed to parse HTML: %v", err)
	}

	meta := &clipper.Metadata{
		Title:       first(doc, titleStrategies),
		Description: first(doc, descriptionStrategies),
		Author:      first(doc, authorStrategies),
		SiteName:    first(doc, siteNameStrategies),
		PublishedAt: first(doc, publishedStrategies),
		WordCount:   wordCount(doc),
		Canonical:   first(doc, canonicalStrategies),
		SchemaOrg:   schemaOrg(doc),
	}
	if meta.SiteName == "" {
		meta.SiteName = clipper.Domain(pageURL)
	}
	if img := first(doc, imageStrategies); img != "" {
		meta.FeaturedImage = ResolveURL(img, pageURL)
	}
	favicon := first(doc, faviconStrategies)
	if favicon == "" {
		favicon = DefaultFavicon
	}
	meta.Favicon = ResolveURL(favicon, pageURL)
	if meta.Canonical == "" {
		meta.Canonical = pageURL
	}

	return meta, nil
}

func first(doc *goquery.Document, chain []strategy) string {
	for _, s := range chain {
		if v := strings.TrimSpace(s(doc)); v != "" {
			return v
		}
	}
	return ""
}

func metaContent(selector string) strategy {
	return attr(selector, "content")
}

// attr returns the attribute of the first matching element that carries a
// non-blank value.
func attr(selector, name string) strategy {
	return func(doc *goquery.Document) string {
		var out string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if v, ok := s.Attr(name); ok && strings.TrimSpace(v) != "" {
				out = v
				return false
			}
			return true
		})
		return out
	}
}

// text returns the combined text of all matching elements.
func text(selector string) strategy {
	return func(doc *goquery.Document) string {
		return collapseSpace(doc.Find(selector).Text())
	}
}

func firstText(selector string) strategy {
	return func(doc *goquery.Document) string {
		return collapseSpace(doc.Find(selector).First().Text())
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// wordCount counts whitespace-separated tokens of the visible body text.
func wordCount(doc *goquery.Document) int {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()
	return len(strings.Fields(blockText(body)))
}

// schemaOrg captures the first JSON-LD block. The raw text is kept under
// "raw"; the top-level fields of an object (or of the first object in an
// array) are copied alongside it. Malformed JSON yields nil.
func schemaOrg(doc *goquery.Document) map[string]any {
	raw := strings.TrimSpace(doc.Find(`script[type="application/ld+json"]`).First().Text())
	if raw == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	out := map[string]any{}
	switch v := parsed.(type) {
	case map[string]any:
		for k, item := range v {
			out[k] = item
		}
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				for k, field := range obj {
					out[k] = field
				}
				break
			}
		}
	}
	out["raw"] = raw
	return out
}

// ResolveURL makes ref absolute against pageURL. Protocol-relative
// references get https, root-relative references get the page's scheme and
// host, and anything else is resolved against the page's directory. ref is
// returned unchanged when it already has a scheme or pageURL is unusable.
func ResolveURL(ref, pageURL string) string {
	ref = strings.TrimSpace(ref)
	if r, err := url.Parse(ref); err == nil && r.IsAbs() {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}

	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return ref
	}
	origin := base.Scheme + "://" + base.Host
	if strings.HasPrefix(ref, "/") {
		return origin + ref
	}

	dir := path.Dir(base.Path)
	if strings.HasSuffix(base.Path, "/") {
		dir = strings.TrimSuffix(base.Path, "/")
	}
	if dir == "." || dir == "/" {
		dir = ""
	}
	return origin + dir + "/" + ref
}
