package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/clipper"
)

// Ensure LoggingVaultWriter implements clipper.VaultWriter.
var _ clipper.VaultWriter = (*LoggingVaultWriter)(nil)

// LoggingVaultWriter wraps a VaultWriter with logging.
type LoggingVaultWriter struct {
	next   clipper.VaultWriter
	logger *slog.Logger
}

// NewLoggingVaultWriter creates a new LoggingVaultWriter.
func NewLoggingVaultWriter(next clipper.VaultWriter, logger *slog.Logger) *LoggingVaultWriter {
	return &LoggingVaultWriter{next: next, logger: logger}
}

// Write delegates to the wrapped writer and logs where the note landed.
func (w *LoggingVaultWriter) Write(ctx context.Context, dst clipper.Folder, clip *clipper.RenderedClip, assets []*clipper.Asset) (res *clipper.SaveResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"folder", clip.Folder,
			"filename", clip.Filename,
			"assets", len(assets),
			"duration", time.Since(begin),
		}
		if res != nil {
			attrs = append(attrs, "path", res.MarkdownPath, "saved_assets", len(res.AssetPaths))
		}
		if err != nil {
			w.logger.Error("vault write", append(attrs, "err", err)...)
			return
		}
		w.logger.Info("vault write", attrs...)
	}(time.Now())
	return w.next.Write(ctx, dst, clip, assets)
}
