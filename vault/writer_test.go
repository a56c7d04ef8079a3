package vault_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/clipper"
	"github.com/fwojciec/clipper/fs"
	"github.com/fwojciec/clipper/mock"
	"github.com/fwojciec/clipper/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVault(t *testing.T) (*fs.Folder, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := fs.NewFolder(dir)
	require.NoError(t, err)
	return f, dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("creates folders and the note", func(t *testing.T) {
		t.Parallel()

		// Given an empty vault
		root, dir := newVault(t)
		clip := &clipper.RenderedClip{
			Content:     "# Hello",
			Frontmatter: "---\ntitle: Hello\n---\n",
			Filename:    "Hello",
			Folder:      "Clippings/Web",
		}

		// When I write a clip into a nested folder
		got, err := vault.NewWriter().Write(context.Background(), root, clip, nil)

		// Then the folders exist and the note holds frontmatter then content
		require.NoError(t, err)
		want := filepath.Join(dir, "Clippings", "Web", "Hello.md")
		assert.Equal(t, want, got.MarkdownPath)
		assert.Equal(t, "Hello", got.Filename)
		assert.Empty(t, got.AssetPaths)
		assert.Equal(t, "---\ntitle: Hello\n---\n\n# Hello", readFile(t, want))
	})

	t.Run("numbers colliding names from the original base", func(t *testing.T) {
		t.Parallel()

		// Given a vault that already has Untitled.md and Untitled_1.md
		root, dir := newVault(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Untitled.md"), []byte("old"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Untitled_1.md"), []byte("old"), 0o644))

		// When I write another Untitled clip to the vault root
		got, err := vault.NewWriter().Write(context.Background(), root,
			&clipper.RenderedClip{Content: "new", Filename: "Untitled"}, nil)

		// Then it lands in Untitled_2.md and nothing is overwritten
		require.NoError(t, err)
		assert.Equal(t, "Untitled_2", got.Filename)
		assert.Equal(t, filepath.Join(dir, "Untitled_2.md"), got.MarkdownPath)
		assert.Equal(t, "old", readFile(t, filepath.Join(dir, "Untitled.md")))
		assert.Equal(t, "old", readFile(t, filepath.Join(dir, "Untitled_1.md")))
	})

	t.Run("sanitizes the filename", func(t *testing.T) {
		t.Parallel()

		root, dir := newVault(t)

		got, err := vault.NewWriter().Write(context.Background(), root,
			&clipper.RenderedClip{Content: "x", Filename: `What? "A/B": test`}, nil)

		require.NoError(t, err)
		assert.Equal(t, "What A-B test", got.Filename)
		assert.FileExists(t, filepath.Join(dir, "What A-B test.md"))
	})

	t.Run("blank folder segments are skipped", func(t *testing.T) {
		t.Parallel()

		root, dir := newVault(t)

		got, err := vault.NewWriter().Write(context.Background(), root,
			&clipper.RenderedClip{Content: "x", Filename: "N", Folder: "/a//b/ "}, nil)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "a", "b", "N.md"), got.MarkdownPath)
	})

	t.Run("rejects folders leaving the vault", func(t *testing.T) {
		t.Parallel()

		root, _ := newVault(t)

		_, err := vault.NewWriter().Write(context.Background(), root,
			&clipper.RenderedClip{Content: "x", Filename: "N", Folder: "a/../.."}, nil)

		assert.Equal(t, clipper.EINVALID, clipper.ErrorCode(err))
	})

	t.Run("saves assets and skips failures", func(t *testing.T) {
		t.Parallel()

		root, dir := newVault(t)
		assets := []*clipper.Asset{
			{Filename: "a.png", MediaType: "image/png", Data: []byte{1}},
			{Filename: "a.png", MediaType: "image/png", Data: []byte{2}},
			{Filename: "b.jpg", MediaType: "image/jpeg", Data: []byte{3}},
		}

		got, err := vault.NewWriter().Write(context.Background(), root,
			&clipper.RenderedClip{Content: "x", Filename: "Pics"}, assets)

		require.NoError(t, err)
		assetDir := filepath.Join(dir, "Pics_assets")
		assert.Equal(t, []string{
			filepath.Join(assetDir, "a.png"),
			filepath.Join(assetDir, "b.jpg"),
		}, got.AssetPaths)
		assert.Equal(t, string([]byte{1}), readFile(t, filepath.Join(assetDir, "a.png")))
	})

	t.Run("nil clip", func(t *testing.T) {
		t.Parallel()

		root, _ := newVault(t)

		_, err := vault.NewWriter().Write(context.Background(), root, nil, nil)

		assert.Equal(t, clipper.EINVALID, clipper.ErrorCode(err))
	})
}

func TestWriter_Write_Merge(t *testing.T) {
	t.Parallel()

	t.Run("creates a missing daily note", func(t *testing.T) {
		t.Parallel()

		root, dir := newVault(t)
		clip := &clipper.RenderedClip{
			Content:     "- first",
			Frontmatter: "---\n---\n",
			Filename:    "2025-03-14",
			Action:      clipper.ActionAddToDailyNote,
		}

		got, err := vault.NewWriter().Write(context.Background(), root, clip, nil)

		require.NoError(t, err)
		assert.Equal(t, "2025-03-14", got.Filename)
		assert.Equal(t, "---\n---\n\n- first", readFile(t, filepath.Join(dir, "2025-03-14.md")))
	})

	t.Run("appends to the bottom", func(t *testing.T) {
		t.Parallel()

		root, dir := newVault(t)
		path := filepath.Join(dir, "Log.md")
		require.NoError(t, os.WriteFile(path, []byte("# Log\n\n- old\n\n"), 0o644))

		_, err := vault.NewWriter().Write(context.Background(), root, &clipper.RenderedClip{
			Content:        "- new",
			Filename:       "Log",
			Action:         clipper.ActionAddToExistingNote,
			InsertLocation: clipper.InsertBottom,
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, "# Log\n\n- old\n\n- new\n", readFile(t, path))
	})

	t.Run("inserts at the top after frontmatter", func(t *testing.T) {
		t.Parallel()

		root, dir := newVault(t)
		path := filepath.Join(dir, "Log.md")
		require.NoError(t, os.WriteFile(path, []byte("---\ntags: [log]\n---\n\n- old\n"), 0o644))

		_, err := vault.NewWriter().Write(context.Background(), root, &clipper.RenderedClip{
			Content:        "- new",
			Filename:       "Log",
			Action:         clipper.ActionAddToExistingNote,
			InsertLocation: clipper.InsertTop,
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, "---\ntags: [log]\n---\n- new\n\n- old\n", readFile(t, path))
	})

	t.Run("read failure is returned", func(t *testing.T) {
		t.Parallel()

		folder := &mock.Folder{
			ReadFileFn: func(context.Context, string) ([]byte, error) {
				return nil, errors.New("disk on fire")
			},
		}

		_, err := vault.NewWriter().Write(context.Background(), folder, &clipper.RenderedClip{
			Filename: "Log",
			Action:   clipper.ActionAddToExistingNote,
		}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk on fire")
	})
}

func TestWriter_Write_RaceLostToConcurrentWriter(t *testing.T) {
	t.Parallel()

	// Given a folder whose listing is empty but whose first name is taken on create
	var created []string
	folder := &mock.Folder{
		EntriesFn: func(context.Context) ([]clipper.FolderEntry, error) {
			return nil, nil
		},
		CreateFileFn: func(_ context.Context, name, mediaType string, _ []byte) (string, error) {
			assert.Equal(t, clipper.MarkdownMediaType, mediaType)
			created = append(created, name)
			if name == "Note.md" {
				return "", clipper.Errorf(clipper.ECONFLICT, "exists")
			}
			return "/vault/" + name, nil
		},
	}

	// When I write a clip named Note
	got, err := vault.NewWriter().Write(context.Background(), folder,
		&clipper.RenderedClip{Content: "x", Filename: "Note"}, nil)

	// Then the writer moves on to the next suffix
	require.NoError(t, err)
	assert.Equal(t, []string{"Note.md", "Note_1.md"}, created)
	assert.Equal(t, "Note_1", got.Filename)
	assert.Equal(t, "/vault/Note_1.md", got.MarkdownPath)
}

func TestWriter_Write_CreateFailure(t *testing.T) {
	t.Parallel()

	folder := &mock.Folder{
		EntriesFn: func(context.Context) ([]clipper.FolderEntry, error) {
			return nil, nil
		},
		CreateFileFn: func(context.Context, string, string, []byte) (string, error) {
			return "", errors.New("read-only")
		},
	}

	_, err := vault.NewWriter().Write(context.Background(), folder,
		&clipper.RenderedClip{Content: "x", Filename: "Note"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

func TestInsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		note string
		add  string
		at   clipper.InsertLocation
		want string
	}{
		{name: "empty note", note: "", add: "x", at: clipper.InsertTop, want: "x\n"},
		{name: "bottom", note: "a\n", add: "x", at: clipper.InsertBottom, want: "a\n\nx\n"},
		{name: "default is bottom", note: "a", add: "x", want: "a\n\nx\n"},
		{name: "top without frontmatter", note: "a\n", add: "x", at: clipper.InsertTop, want: "x\n\na\n"},
		{name: "top with frontmatter", note: "---\nk: v\n---\nbody\n", add: "x", at: clipper.InsertTop, want: "---\nk: v\n---\nx\n\nbody\n"},
		{name: "unterminated frontmatter", note: "---\nk: v\n", add: "x", at: clipper.InsertTop, want: "x\n\n---\nk: v\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, vault.Insert(tt.note, tt.add, tt.at))
		})
	}
}

func TestSplitFrontmatter(t *testing.T) {
	t.Parallel()

	header, rest := vault.SplitFrontmatter("---\ntitle: x\n---\n\nbody")
	assert.Equal(t, "---\ntitle: x\n---\n", header)
	assert.Equal(t, "\nbody", rest)

	header, rest = vault.SplitFrontmatter("---\ntitle: x\n---")
	assert.Equal(t, "---\ntitle: x\n---", header)
	assert.Empty(t, rest)
}

func TestSplitFrontmatter_Empty(t *testing.T) {
	t.Parallel()

	header, rest := vault.SplitFrontmatter("---\n---\nbody")

	assert.Equal(t, "---\n---\n", header)
	assert.Equal(t, "body", rest)
}
