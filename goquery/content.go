package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/clipper"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure ContentExtractor implements clipper.ContentExtractor at compile time.
var _ clipper.ContentExtractor = (*ContentExtractor)(nil)

// MinContentLength is the number of characters a candidate container must
// exceed to be taken as the main content.
const MinContentLength = 200

// contentSelectors are tried in order; the first whose text is long enough wins.
var contentSelectors = []string{
	"article",
	`[role="main"]`,
	".content",
	".post-content",
	".entry-content",
	".article-content",
	"main",
	"#content",
	".main-content",
}

// boilerplateSelector matches chrome removed from the chosen container.
const boilerplateSelector = "script, style, noscript, nav, header, footer, aside, .advertisement, .ad, .social-share"

var (
	spaceRe    = regexp.MustCompile(`[ \t\r\n\f]+`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

// blockElements start and end a paragraph in extracted text.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Blockquote: true,
	atom.Dd: true, atom.Details: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Form: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Hr: true, atom.Main: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Summary: true,
	atom.Table: true, atom.Tr: true, atom.Ul: true,
}

// ContentExtractor finds the main content container of a page with a
// selector fallback list and returns its text.
type ContentExtractor struct{}

// NewContentExtractor creates a new ContentExtractor.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// ExtractContent returns the readable text of rawHTML. Paragraph structure
// is kept as blank lines between blocks.
func (e *ContentExtractor) ExtractContent(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", clipper.Errorf(clipper.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", clipper.Errorf(clipper.EINVALID, "failed to parse HTML: %v", err)
	}

	container := doc.Find("body")
	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		if utf8.RuneCountInString(collapseSpace(sel.Text())) > MinContentLength {
			container = sel.First()
			break
		}
	}

	container.Find(boilerplateSelector).Remove()
	return blockText(container), nil
}

// blockText renders the text of sel with block elements separated by blank
// lines, line breaks kept and runs of inline whitespace collapsed.
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	out := newlinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(spaceRe.ReplaceAllString(n.Data, " "))
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.Li:
			b.WriteString("\n")
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteString("\n\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteString("\n\n")
	}
}
