package readability

import (
	"strings"

	"github.com/fwojciec/clipper"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements clipper.ContentExtractor at compile time.
var _ clipper.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main text of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractContent returns the readable text of rawHTML.
func (e *Extractor) ExtractContent(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", clipper.Errorf(clipper.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(article.TextContent), nil
}
