package clipper

import (
	"context"
	"strings"
	"unicode/utf8"
)

// MaxFilenameLength caps the length of a sanitized note filename in runes.
const MaxFilenameLength = 100

// MarkdownMediaType is the media type of saved notes.
const MarkdownMediaType = "text/markdown"

// Asset is a binary file saved alongside a note.
type Asset struct {
	Filename  string
	MediaType string
	Data      []byte
}

// FolderEntry describes one child of a Folder.
type FolderEntry struct {
	Name  string
	IsDir bool
}

// Folder is a handle on a destination directory inside a vault.
type Folder interface {
	// Path returns a displayable location of the folder.
	Path() string

	// Entries lists the folder's direct children.
	Entries(ctx context.Context) ([]FolderEntry, error)

	// Subfolder returns an existing child folder.
	// Returns ENOTFOUND if no such folder exists.
	Subfolder(ctx context.Context, name string) (Folder, error)

	// CreateSubfolder creates a child folder and returns it.
	// An existing folder of that name is returned as is.
	CreateSubfolder(ctx context.Context, name string) (Folder, error)

	// CreateFile creates a new file holding data and returns its path.
	// Returns ECONFLICT if a file of that name already exists; an existing
	// file is never overwritten.
	CreateFile(ctx context.Context, name, mediaType string, data []byte) (string, error)

	// ReadFile returns the contents of an existing file.
	// Returns ENOTFOUND if the file does not exist.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// ReplaceFile atomically replaces the contents of a file and returns its path.
	ReplaceFile(ctx context.Context, name, mediaType string, data []byte) (string, error)
}

// SaveResult describes a successfully saved clip.
type SaveResult struct {
	MarkdownPath string
	AssetPaths   []string
	Filename     string
}

// VaultWriter persists rendered clips into a destination folder.
type VaultWriter interface {
	// Write saves clip and its assets under dst. Failures to create folders
	// or the note are returned as errors; individual asset failures are not.
	Write(ctx context.Context, dst Folder, clip *RenderedClip, assets []*Asset) (*SaveResult, error)
}

var filenameReplacer = strings.NewReplacer(
	"<", "", ">", "", ":", "", "\"", "", "|", "", "?", "", "*", "",
	"/", "-", "\\", "-",
)

// SanitizeFilename makes name safe to use as a note filename: it removes
// < > : " | ? *, replaces slashes with dashes, trims whitespace, and caps
// the length. A blank result becomes "untitled".
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(filenameReplacer.Replace(name))
	if utf8.RuneCountInString(name) > MaxFilenameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxFilenameLength]))
	}
	if name == "" {
		return "untitled"
	}
	return name
}
