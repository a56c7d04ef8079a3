package trafilatura

import (
	"strings"

	"github.com/fwojciec/clipper"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements clipper.ContentExtractor at compile time.
var _ clipper.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractContent returns the main text of rawHTML with boilerplate removed.
func (e *Extractor) ExtractContent(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", clipper.Errorf(clipper.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result.ContentText), nil
}
