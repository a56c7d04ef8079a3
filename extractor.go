package clipper

// MetadataExtractor derives normalized page metadata from raw HTML.
type MetadataExtractor interface {
	// ExtractMetadata parses rawHTML fetched from pageURL. Relative image and
	// icon URLs are resolved against pageURL.
	ExtractMetadata(rawHTML, pageURL string) (*Metadata, error)
}

// ContentExtractor derives the readable main text of a page, with
// navigation, ads and other chrome removed.
type ContentExtractor interface {
	ExtractContent(rawHTML string) (string, error)
}
