// Package fs implements clipper.Folder on top of OS directories.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/clipper"
)

// Ensure Folder implements clipper.Folder at compile time.
var _ clipper.Folder = (*Folder)(nil)

// Folder is a directory on the local filesystem. Media types are accepted
// for interface compatibility; the filesystem does not record them.
type Folder struct {
	dir string
}

// NewFolder returns a Folder for dir, which must already exist.
func NewFolder(dir string) (*Folder, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, clipper.Errorf(clipper.ENOTFOUND, "folder %s does not exist", dir)
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, clipper.Errorf(clipper.EINVALID, "%s is not a folder", dir)
	}
	return &Folder{dir: abs}, nil
}

// Path returns the folder's absolute path.
func (f *Folder) Path() string {
	return f.dir
}

// Entries lists the folder's direct children.
func (f *Folder) Entries(ctx context.Context) ([]clipper.FolderEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	entries := make([]clipper.FolderEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, clipper.FolderEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return entries, nil
}

// Subfolder returns the existing child folder name.
func (f *Folder) Subfolder(ctx context.Context, name string) (clipper.Folder, error) {
	path, err := f.child(ctx, name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, clipper.Errorf(clipper.ENOTFOUND, "folder %q not found", name)
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, clipper.Errorf(clipper.ECONFLICT, "%q is a file, not a folder", name)
	}
	return &Folder{dir: path}, nil
}

// CreateSubfolder creates the child folder name, or returns it if it exists.
func (f *Folder) CreateSubfolder(ctx context.Context, name string) (clipper.Folder, error) {
	path, err := f.child(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := os.Mkdir(path, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return nil, err
	}
	return f.Subfolder(ctx, name)
}

// CreateFile writes a new file. The name is reserved with an exclusive
// create, so a concurrent writer for the same name gets ECONFLICT, and the
// data is moved into place with a rename so readers never see a partial file.
func (f *Folder) CreateFile(ctx context.Context, name, mediaType string, data []byte) (string, error) {
	path, err := f.child(ctx, name)
	if err != nil {
		return "", err
	}

	reservation, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", clipper.Errorf(clipper.ECONFLICT, "file %q already exists", name)
	} else if err != nil {
		return "", err
	}
	if err := reservation.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	if err := f.writeAtomic(path, data); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// ReadFile returns the contents of the file name.
func (f *Folder) ReadFile(ctx context.Context, name string) ([]byte, error) {
	path, err := f.child(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, clipper.Errorf(clipper.ENOTFOUND, "file %q not found", name)
	}
	return data, err
}

// ReplaceFile atomically replaces, or creates, the file name.
func (f *Folder) ReplaceFile(ctx context.Context, name, mediaType string, data []byte) (string, error) {
	path, err := f.child(ctx, name)
	if err != nil {
		return "", err
	}
	if err := f.writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// child validates name as a single path segment and returns its full path.
func (f *Folder) child(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", clipper.Errorf(clipper.EINVALID, "invalid name %q", name)
	}
	return filepath.Join(f.dir, name), nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// over path.
func (f *Folder) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
