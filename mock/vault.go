package mock

import (
	"context"

	"github.com/fwojciec/clipper"
)

var _ clipper.VaultWriter = (*VaultWriter)(nil)

// VaultWriter is a mock implementation of clipper.VaultWriter.
type VaultWriter struct {
	WriteFn func(ctx context.Context, dst clipper.Folder, clip *clipper.RenderedClip, assets []*clipper.Asset) (*clipper.SaveResult, error)
}

func (w *VaultWriter) Write(ctx context.Context, dst clipper.Folder, clip *clipper.RenderedClip, assets []*clipper.Asset) (*clipper.SaveResult, error) {
	return w.WriteFn(ctx, dst, clip, assets)
}

var _ clipper.Folder = (*Folder)(nil)

// Folder is a mock implementation of clipper.Folder.
type Folder struct {
	PathFn            func() string
	EntriesFn         func(ctx context.Context) ([]clipper.FolderEntry, error)
	SubfolderFn       func(ctx context.Context, name string) (clipper.Folder, error)
	CreateSubfolderFn func(ctx context.Context, name string) (clipper.Folder, error)
	CreateFileFn      func(ctx context.Context, name, mediaType string, data []byte) (string, error)
	ReadFileFn        func(ctx context.Context, name string) ([]byte, error)
	ReplaceFileFn     func(ctx context.Context, name, mediaType string, data []byte) (string, error)
}

func (f *Folder) Path() string {
	return f.PathFn()
}

func (f *Folder) Entries(ctx context.Context) ([]clipper.FolderEntry, error) {
	return f.EntriesFn(ctx)
}

func (f *Folder) Subfolder(ctx context.Context, name string) (clipper.Folder, error) {
	return f.SubfolderFn(ctx, name)
}

func (f *Folder) CreateSubfolder(ctx context.Context, name string) (clipper.Folder, error) {
	return f.CreateSubfolderFn(ctx, name)
}

func (f *Folder) CreateFile(ctx context.Context, name, mediaType string, data []byte) (string, error) {
	return f.CreateFileFn(ctx, name, mediaType, data)
}

func (f *Folder) ReadFile(ctx context.Context, name string) ([]byte, error) {
	return f.ReadFileFn(ctx, name)
}

func (f *Folder) ReplaceFile(ctx context.Context, name, mediaType string, data []byte) (string, error) {
	return f.ReplaceFileFn(ctx, name, mediaType, data)
}
