package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/clipper"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ clipper.ClipService = (*ClipService)(nil)

// ClipService implements clipper.ClipService using SQLite.
type ClipService struct {
	db *DB
}

// NewClipService creates a new ClipService.
func NewClipService(db *DB) *ClipService {
	return &ClipService{db: db}
}

const clipColumns = "id, template_id, url, title, filename, markdown_path, asset_paths, created_at"

// CreateClip records a saved clip. A zero CreatedAt is set to now.
func (s *ClipService) CreateClip(ctx context.Context, clip *clipper.Clip) error {
	if err := clip.Validate(); err != nil {
		return err
	}

	if clip.AssetPaths == nil {
		clip.AssetPaths = []string{}
	}
	assets, err := encodeJSON(clip.AssetPaths, "asset_paths")
	if err != nil {
		return err
	}

	clip.ID = uuid.New().String()
	if clip.CreatedAt.IsZero() {
		clip.CreatedAt = time.Now()
	}
	clip.CreatedAt = clip.CreatedAt.UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clips (`+clipColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, clip.ID, clip.TemplateID, clip.URL, clip.Title, clip.Filename, clip.MarkdownPath, assets,
		clip.CreatedAt.Format(time.RFC3339))

	return err
}

// FindClipByID retrieves a clip by ID.
func (s *ClipService) FindClipByID(ctx context.Context, id string) (*clipper.Clip, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+clipColumns+" FROM clips WHERE id = ?", id)

	clip, err := scanClip(row)
	if err == sql.ErrNoRows {
		return nil, clipper.Errorf(clipper.ENOTFOUND, "clip not found")
	}
	return clip, err
}

// FindClips retrieves clips matching the filter, newest first.
func (s *ClipService) FindClips(ctx context.Context, filter clipper.ClipFilter) ([]*clipper.Clip, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + clipColumns + " FROM clips WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.TemplateID != nil {
		query.WriteString(" AND template_id = ?")
		args = append(args, *filter.TemplateID)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []*clipper.Clip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}

	return clips, rows.Err()
}

func scanClip(row scanner) (*clipper.Clip, error) {
	var clip clipper.Clip
	var assets, createdAt string

	if err := row.Scan(&clip.ID, &clip.TemplateID, &clip.URL, &clip.Title, &clip.Filename,
		&clip.MarkdownPath, &assets, &createdAt); err != nil {
		return nil, err
	}

	if err := decodeJSON(assets, &clip.AssetPaths, "asset_paths"); err != nil {
		return nil, err
	}

	var err error
	if clip.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &clip, nil
}
