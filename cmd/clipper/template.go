package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fwojciec/clipper"
	"gopkg.in/yaml.v3"
)

// Run executes the template add command.
func (c *TemplateAddCmd) Run(deps *Dependencies) error {
	tmpl, err := LoadTemplate(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	if err := deps.Templates.CreateTemplate(deps.Ctx, tmpl); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added template %q (%s)\n", tmpl.Name, tmpl.ID)
	return nil
}

// LoadTemplate reads a template definition from a YAML file. Unknown keys
// are rejected.
func LoadTemplate(path string) (*clipper.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var tmpl clipper.Template
	if err := dec.Decode(&tmpl); err != nil {
		return nil, clipper.Errorf(clipper.EINVALID, "template file %s: %v", path, err)
	}
	return &tmpl, nil
}

// Run executes the template list command.
func (c *TemplateListCmd) Run(deps *Dependencies) error {
	templates, err := deps.Templates.FindTemplates(deps.Ctx, clipper.TemplateFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	if len(templates) == 0 {
		fmt.Fprintln(deps.Stdout, "No templates found. Use 'clipper template add' to create one.")
		return nil
	}

	for _, t := range templates {
		marker := ""
		if t.IsDefault {
			marker = "  (default)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d triggers%s\n", t.ID, t.Name, len(t.Triggers), marker)
	}

	return nil
}

// Run executes the template delete command.
func (c *TemplateDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Templates.DeleteTemplate(deps.Ctx, c.ID); err != nil {
		if clipper.ErrorCode(err) == clipper.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: template %q not found. Use 'clipper template list' to see available templates.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted template %s\n", c.ID)
	return nil
}
