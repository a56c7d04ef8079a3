package clipper

// RenderedClip is the output of rendering one clip: the note body, its
// frontmatter block, and where the note should be saved.
type RenderedClip struct {
	Content     string
	Frontmatter string
	Filename    string
	Folder      string

	// Action and InsertLocation carry the template behavior through to the
	// vault writer. The zero Action creates a new note.
	Action         Action
	InsertLocation InsertLocation
}

// Body returns the full note text: frontmatter, a newline, then content.
func (r *RenderedClip) Body() string {
	return r.Frontmatter + "\n" + r.Content
}

// Renderer renders clip data through a template.
type Renderer interface {
	// Render never fails. Template faults degrade to the raw template text
	// prefixed with a diagnostic line.
	Render(tmpl *Template, clip *ClipData, meta *Metadata, highlights []Highlight) *RenderedClip
}
