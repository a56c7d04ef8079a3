package http

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/clipper"
)

// Ensure AssetFetcher implements clipper.AssetFetcher at compile time.
var _ clipper.AssetFetcher = (*AssetFetcher)(nil)

// imageExtensions maps common image media types to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
	"image/x-icon":  ".ico",
}

// AssetFetcher downloads images to be saved next to a note. Files are named
// by a hash of their URL so the same image always gets the same name.
type AssetFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewAssetFetcher creates a new AssetFetcher.
func NewAssetFetcher(opts ...Option) *AssetFetcher {
	c := newConfig(opts)
	return &AssetFetcher{
		client:    &http.Client{Timeout: c.timeout},
		userAgent: c.userAgent,
		maxBody:   c.maxBody,
	}
}

// FetchAsset downloads the image at rawURL. Responses that are not images
// are rejected with EINVALID.
func (f *AssetFetcher) FetchAsset(ctx context.Context, rawURL string) (*clipper.Asset, error) {
	resp, err := get(ctx, f.client, rawURL, f.userAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body, f.maxBody)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType == "application/octet-stream" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, clipper.Errorf(clipper.EINVALID, "asset %s is %s, not an image", rawURL, mediaType)
	}

	return &clipper.Asset{
		Filename:  AssetFilename(rawURL, mediaType),
		MediaType: mediaType,
		Data:      data,
	}, nil
}

// AssetFilename returns the file name an asset from rawURL is stored
// under: the hex xxhash of the URL plus an extension for mediaType.
func AssetFilename(rawURL, mediaType string) string {
	return fmt.Sprintf("%016x%s", xxhash.Sum64String(rawURL), extension(rawURL, mediaType))
}

func extension(rawURL, mediaType string) string {
	if ext, ok := imageExtensions[mediaType]; ok {
		return ext
	}
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return strings.ToLower(ext)
		}
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
