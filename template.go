package clipper

import (
	"context"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Action describes what a template does with the rendered note.
type Action string

// Action constants.
const (
	ActionCreateNewNote     Action = "create_new_note"
	ActionAddToExistingNote Action = "add_to_existing_note"
	ActionAddToDailyNote    Action = "add_to_daily_note"
)

// NoteLocation describes where a template places new notes.
type NoteLocation string

// NoteLocation constants.
const (
	LocationVaultRoot      NoteLocation = "vault_root"
	LocationSpecificFolder NoteLocation = "specific_folder"
	LocationPromptUser     NoteLocation = "prompt_user"
)

// InsertLocation describes where content goes when added to an existing note.
type InsertLocation string

// InsertLocation constants.
const (
	InsertTop    InsertLocation = "top"
	InsertBottom InsertLocation = "bottom"
)

// TriggerType identifies how a Trigger matches a page.
type TriggerType string

// TriggerType constants.
const (
	TriggerURLSimple TriggerType = "url_simple"
	TriggerURLRegex  TriggerType = "url_regex"
	TriggerSchemaOrg TriggerType = "schema_org"
)

// Template is a user-authored note pattern. Content holds the raw template
// text with {{ variable }}, {% if %} and {% for %} tags.
type Template struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Content     string    `json:"content" yaml:"content"`
	Behavior    Behavior  `json:"behavior" yaml:"behavior"`
	Triggers    []Trigger `json:"triggers" yaml:"triggers"`
	IsDefault   bool      `json:"isDefault" yaml:"default"`
	CreatedAt   time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"-"`
}

// Behavior controls where and how a rendered note is saved.
type Behavior struct {
	Action         Action         `json:"action" yaml:"action"`
	NoteLocation   NoteLocation   `json:"noteLocation,omitempty" yaml:"note_location"`
	NoteName       string         `json:"noteName,omitempty" yaml:"note_name"`
	Folder         string         `json:"folder,omitempty" yaml:"folder"`
	InsertLocation InsertLocation `json:"insertLocation,omitempty" yaml:"insert_location"`
}

// Trigger selects a template automatically for matching pages.
type Trigger struct {
	Type    TriggerType `json:"type" yaml:"type"`
	Pattern string      `json:"pattern" yaml:"pattern"`
	Value   string      `json:"value,omitempty" yaml:"value"`
}

// Validate returns an error if the template contains invalid fields.
func (t *Template) Validate() error {
	if err := validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Behavior),
		validation.Field(&t.Triggers),
	); err != nil {
		return Errorf(EINVALID, "template: %v", err)
	}
	return nil
}

// Validate returns an error if the behavior contains invalid fields.
func (b Behavior) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Action, validation.In(ActionCreateNewNote, ActionAddToExistingNote, ActionAddToDailyNote)),
		validation.Field(&b.NoteLocation, validation.In(LocationVaultRoot, LocationSpecificFolder, LocationPromptUser)),
		validation.Field(&b.InsertLocation, validation.In(InsertTop, InsertBottom)),
	)
}

// Validate returns an error if the trigger contains invalid fields.
func (t Trigger) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Type, validation.Required, validation.In(TriggerURLSimple, TriggerURLRegex, TriggerSchemaOrg)),
		validation.Field(&t.Pattern, validation.Required, validation.When(t.Type == TriggerURLRegex, validation.By(validRegexp))),
	)
}

func validRegexp(value any) error {
	s, _ := value.(string)
	_, err := regexp.Compile(s)
	return err
}

// DefaultTemplate returns the template used when no stored template applies.
func DefaultTemplate() *Template {
	return &Template{
		ID:      "default",
		Name:    "Default",
		Content: "# {{ title }}\n\n{% if excerpt %}> {{ excerpt }}\n\n{% endif %}{{ content }}\n{% if selection %}\n## Selection\n\n{{ selection }}\n{% endif %}{% if note %}\n## Note\n\n{{ note }}\n{% endif %}",
		Behavior: Behavior{
			Action:         ActionCreateNewNote,
			NoteLocation:   LocationSpecificFolder,
			InsertLocation: InsertBottom,
		},
	}
}

// TemplateService represents a service for managing templates.
type TemplateService interface {
	// CreateTemplate creates a new template.
	CreateTemplate(ctx context.Context, tmpl *Template) error

	// FindTemplateByID retrieves a template by ID.
	// Returns ENOTFOUND if template does not exist.
	FindTemplateByID(ctx context.Context, id string) (*Template, error)

	// FindTemplates retrieves templates matching the filter.
	FindTemplates(ctx context.Context, filter TemplateFilter) ([]*Template, error)

	// DeleteTemplate permanently removes a template.
	// Returns ENOTFOUND if template does not exist.
	DeleteTemplate(ctx context.Context, id string) error
}

// TemplateFilter represents a filter for FindTemplates.
type TemplateFilter struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	IsDefault *bool   `json:"isDefault"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
