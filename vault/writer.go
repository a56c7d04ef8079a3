// Package vault saves rendered clips into a folder tree as Markdown notes.
package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/clipper"
)

// MaxCollisionAttempts bounds the numbered-suffix search for a free name.
const MaxCollisionAttempts = 10000

// Ensure Writer implements clipper.VaultWriter at compile time.
var _ clipper.VaultWriter = (*Writer)(nil)

// Writer writes rendered clips into a destination folder.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write saves clip under dst. Missing folders along clip.Folder are created.
// New notes never replace an existing file: a numbered suffix is added to
// the sanitized name until it is free. Notes for add_to_existing_note and
// add_to_daily_note are merged into the existing file instead. Assets go
// into a "<filename>_assets" folder next to the note; an asset that cannot
// be written is skipped.
func (w *Writer) Write(ctx context.Context, dst clipper.Folder, clip *clipper.RenderedClip, assets []*clipper.Asset) (*clipper.SaveResult, error) {
	if clip == nil {
		return nil, clipper.Errorf(clipper.EINVALID, "nothing to write")
	}

	folder, err := walk(ctx, dst, clip.Folder)
	if err != nil {
		return nil, err
	}

	base := clipper.SanitizeFilename(clip.Filename)

	var filename, path string
	switch clip.Action {
	case clipper.ActionAddToExistingNote, clipper.ActionAddToDailyNote:
		filename = base
		path, err = merge(ctx, folder, base, clip)
	default:
		filename, path, err = create(ctx, folder, base, []byte(clip.Body()))
	}
	if err != nil {
		return nil, err
	}

	return &clipper.SaveResult{
		MarkdownPath: path,
		AssetPaths:   saveAssets(ctx, folder, filename, assets),
		Filename:     filename,
	}, nil
}

// walk opens or creates each segment of a slash separated folder path.
func walk(ctx context.Context, root clipper.Folder, folderPath string) (clipper.Folder, error) {
	current := root
	for _, part := range strings.FieldsFunc(folderPath, isSeparator) {
		part = strings.TrimSpace(part)
		switch part {
		case "", ".":
			continue
		case "..":
			return nil, clipper.Errorf(clipper.EINVALID, "folder %q leaves the vault", folderPath)
		}

		next, err := current.CreateSubfolder(ctx, part)
		if err != nil {
			return nil, fmt.Errorf("create folder %q: %w", part, err)
		}
		current = next
	}
	return current, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// create writes data to the first free name of base, base_1, base_2, ...
// The suffix is always added to the original base. A name taken between
// the listing and the create is skipped like any other collision.
func create(ctx context.Context, folder clipper.Folder, base string, data []byte) (filename, path string, err error) {
	entries, err := folder.Entries(ctx)
	if err != nil {
		return "", "", fmt.Errorf("list folder: %w", err)
	}
	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		taken[e.Name] = true
	}

	for i := 0; i < MaxCollisionAttempts; i++ {
		filename = base
		if i > 0 {
			filename = fmt.Sprintf("%s_%d", base, i)
		}
		if taken[filename+".md"] {
			continue
		}

		path, err = folder.CreateFile(ctx, filename+".md", clipper.MarkdownMediaType, data)
		if clipper.ErrorCode(err) == clipper.ECONFLICT {
			continue
		} else if err != nil {
			return "", "", fmt.Errorf("create note: %w", err)
		}
		return filename, path, nil
	}
	return "", "", clipper.Errorf(clipper.ECONFLICT, "no free filename for %q", base)
}

// merge inserts the clip's content into an existing note, creating the
// note when it does not exist yet.
func merge(ctx context.Context, folder clipper.Folder, base string, clip *clipper.RenderedClip) (string, error) {
	name := base + ".md"

	existing, err := folder.ReadFile(ctx, name)
	if clipper.ErrorCode(err) == clipper.ENOTFOUND {
		path, err := folder.CreateFile(ctx, name, clipper.MarkdownMediaType, []byte(clip.Body()))
		if clipper.ErrorCode(err) != clipper.ECONFLICT {
			if err != nil {
				return "", fmt.Errorf("create note: %w", err)
			}
			return path, nil
		}
		// Someone else created the note first; merge into theirs.
		existing, err = folder.ReadFile(ctx, name)
	}
	if err != nil {
		return "", fmt.Errorf("read note: %w", err)
	}

	merged := Insert(string(existing), clip.Content, clip.InsertLocation)
	path, err := folder.ReplaceFile(ctx, name, clipper.MarkdownMediaType, []byte(merged))
	if err != nil {
		return "", fmt.Errorf("update note: %w", err)
	}
	return path, nil
}

// Insert adds content to note. At the top, content goes after the note's
// frontmatter block if it has one; at the bottom, it is appended after a
// blank line.
func Insert(note, content string, at clipper.InsertLocation) string {
	content = strings.Trim(content, "\n")
	if strings.TrimSpace(note) == "" {
		return content + "\n"
	}

	if at == clipper.InsertTop {
		header, rest := SplitFrontmatter(note)
		return header + content + "\n\n" + strings.TrimLeft(rest, "\n")
	}
	return strings.TrimRight(note, "\n") + "\n\n" + content + "\n"
}

// SplitFrontmatter splits note into its leading "---" delimited block,
// including the closing delimiter line, and the remainder.
func SplitFrontmatter(note string) (header, rest string) {
	if !strings.HasPrefix(note, "---\n") {
		return "", note
	}
	end := strings.Index(note[3:], "\n---")
	if end < 0 {
		return "", note
	}
	cut := 3 + end + len("\n---")
	if nl := strings.IndexByte(note[cut:], '\n'); nl >= 0 {
		cut += nl + 1
	} else {
		cut = len(note)
	}
	return note[:cut], note[cut:]
}

// saveAssets writes assets into "<filename>_assets" and returns the paths
// that were written.
func saveAssets(ctx context.Context, folder clipper.Folder, filename string, assets []*clipper.Asset) []string {
	if len(assets) == 0 {
		return nil
	}

	dir, err := folder.CreateSubfolder(ctx, filename+"_assets")
	if err != nil {
		return nil
	}

	var paths []string
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		path, err := dir.CreateFile(ctx, clipper.SanitizeFilename(asset.Filename), asset.MediaType, asset.Data)
		if err != nil {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
