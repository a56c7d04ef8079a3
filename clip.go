package clipper

import (
	"context"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ClipData is the captured input of one clip as supplied by the caller.
type ClipData struct {
	Title            string   `json:"title"`
	URL              string   `json:"url"`
	Domain           string   `json:"domain"`
	ExtractedContent string   `json:"extractedContent"`
	SelectedText     string   `json:"selectedText"`
	Note             string   `json:"note"`
	Tags             []string `json:"tags"`
	Folder           string   `json:"folder"`
}

// Highlight is a passage the user marked on the page.
type Highlight struct {
	Text string `json:"text"`
	Note string `json:"note,omitempty"`
}

// Metadata holds normalized page metadata. Empty strings, a zero WordCount
// and a nil SchemaOrg mean the field is absent.
type Metadata struct {
	Title         string         `json:"title,omitempty"`
	Description   string         `json:"description,omitempty"`
	Author        string         `json:"author,omitempty"`
	SiteName      string         `json:"siteName,omitempty"`
	PublishedAt   string         `json:"publishedAt,omitempty"`
	FeaturedImage string         `json:"featuredImage,omitempty"`
	Favicon       string         `json:"favicon,omitempty"`
	WordCount     int            `json:"wordCount,omitempty"`
	Canonical     string         `json:"canonical,omitempty"`
	SchemaOrg     map[string]any `json:"schemaOrg,omitempty"`
}

// ExtractedContent is the result of fetching and extracting one page.
// When extraction fails, Title and Content carry a diagnostic and Err holds
// the cause.
type ExtractedContent struct {
	URL      string
	Title    string
	Content  string
	Metadata *Metadata
	RawHTML  string
	Err      error
}

// ClipData returns clip input populated from the extracted page.
func (c *ExtractedContent) ClipData() *ClipData {
	return &ClipData{
		Title:            c.Title,
		URL:              c.URL,
		Domain:           Domain(c.URL),
		ExtractedContent: c.Content,
	}
}

// Clip is the history record of a saved clip.
type Clip struct {
	ID           string    `json:"id"`
	TemplateID   string    `json:"templateId"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename"`
	MarkdownPath string    `json:"markdownPath"`
	AssetPaths   []string  `json:"assetPaths"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the clip contains invalid fields.
func (c *Clip) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Filename, validation.Required),
		validation.Field(&c.MarkdownPath, validation.Required),
	); err != nil {
		return Errorf(EINVALID, "clip: %v", err)
	}
	return nil
}

// ClipService represents a service for recording saved clips.
type ClipService interface {
	// CreateClip records a saved clip.
	CreateClip(ctx context.Context, clip *Clip) error

	// FindClipByID retrieves a clip by ID.
	// Returns ENOTFOUND if clip does not exist.
	FindClipByID(ctx context.Context, id string) (*Clip, error)

	// FindClips retrieves clips matching the filter, newest first.
	FindClips(ctx context.Context, filter ClipFilter) ([]*Clip, error)
}

// ClipFilter represents a filter for FindClips.
type ClipFilter struct {
	URL        *string `json:"url"`
	TemplateID *string `json:"templateId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Domain returns the host of rawURL without a leading "www.".
// Returns rawURL unchanged if it has no host.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// ParseShare interprets text shared from another application. Text starting
// with "http" is a link to clip; anything else is a snippet saved as the
// selection. A non-empty subject becomes the title.
func ParseShare(text, subject string) *ClipData {
	text = strings.TrimSpace(text)
	subject = strings.TrimSpace(subject)

	if strings.HasPrefix(text, "http") {
		title := subject
		if title == "" {
			title = Domain(text)
		}
		return &ClipData{
			Title:  title,
			URL:    text,
			Domain: Domain(text),
		}
	}

	title := subject
	if title == "" {
		title = "Shared Text"
	}
	return &ClipData{
		Title:        title,
		SelectedText: text,
	}
}
