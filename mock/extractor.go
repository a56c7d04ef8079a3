package mock

import "github.com/fwojciec/clipper"

var _ clipper.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor is a mock implementation of clipper.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(rawHTML, pageURL string) (*clipper.Metadata, error)
}

func (e *MetadataExtractor) ExtractMetadata(rawHTML, pageURL string) (*clipper.Metadata, error) {
	return e.ExtractMetadataFn(rawHTML, pageURL)
}

var _ clipper.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of clipper.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(rawHTML string) (string, error)
}

func (e *ContentExtractor) ExtractContent(rawHTML string) (string, error) {
	return e.ExtractContentFn(rawHTML)
}
