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
var _ clipper.TemplateService = (*TemplateService)(nil)

// TemplateService implements clipper.TemplateService using SQLite.
type TemplateService struct {
	db *DB
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(db *DB) *TemplateService {
	return &TemplateService{db: db}
}

const templateColumns = "id, name, description, content, behavior, triggers, is_default, created_at, updated_at"

// CreateTemplate creates a new template. An empty ID is generated. Storing
// a default template clears the flag on every other template.
func (s *TemplateService) CreateTemplate(ctx context.Context, tmpl *clipper.Template) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}

	behavior, err := encodeJSON(tmpl.Behavior, "behavior")
	if err != nil {
		return err
	}
	if tmpl.Triggers == nil {
		tmpl.Triggers = []clipper.Trigger{}
	}
	triggers, err := encodeJSON(tmpl.Triggers, "triggers")
	if err != nil {
		return err
	}

	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if tmpl.IsDefault {
		if _, err := tx.ExecContext(ctx, "UPDATE templates SET is_default = 0 WHERE is_default = 1"); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tmpl.ID, tmpl.Name, tmpl.Description, tmpl.Content, behavior, triggers, tmpl.IsDefault,
		tmpl.CreatedAt.Format(time.RFC3339), tmpl.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return conflict(err, "template %q already exists", tmpl.Name)
	}

	return tx.Commit()
}

// FindTemplateByID retrieves a template by ID.
func (s *TemplateService) FindTemplateByID(ctx context.Context, id string) (*clipper.Template, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+templateColumns+" FROM templates WHERE id = ?", id)

	tmpl, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, clipper.Errorf(clipper.ENOTFOUND, "template not found")
	}
	return tmpl, err
}

// FindTemplates retrieves templates matching the filter in creation order,
// which is the order their triggers are tried.
func (s *TemplateService) FindTemplates(ctx context.Context, filter clipper.TemplateFilter) ([]*clipper.Template, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + templateColumns + " FROM templates WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.IsDefault != nil {
		query.WriteString(" AND is_default = ?")
		args = append(args, *filter.IsDefault)
	}

	query.WriteString(" ORDER BY created_at, rowid")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*clipper.Template
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	return templates, rows.Err()
}

// DeleteTemplate permanently removes a template.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return clipper.Errorf(clipper.ENOTFOUND, "template not found")
	}

	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*clipper.Template, error) {
	var tmpl clipper.Template
	var behavior, triggers, createdAt, updatedAt string

	if err := row.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Description, &tmpl.Content, &behavior, &triggers,
		&tmpl.IsDefault, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := decodeJSON(behavior, &tmpl.Behavior, "behavior"); err != nil {
		return nil, err
	}
	if err := decodeJSON(triggers, &tmpl.Triggers, "triggers"); err != nil {
		return nil, err
	}

	var err error
	if tmpl.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if tmpl.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &tmpl, nil
}
