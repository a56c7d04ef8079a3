package main

import (
	"fmt"

	"github.com/fwojciec/clipper"
	"github.com/fwojciec/clipper/clip"
	"github.com/fwojciec/clipper/fs"
)

// Run executes the clip command.
func (c *ClipCmd) Run(deps *Dependencies) error {
	root, err := fs.NewFolder(c.Vault)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	reqs := make([]clip.Request, len(c.URLs))
	for i, url := range c.URLs {
		reqs[i] = clip.Request{
			URL:          url,
			TemplateID:   c.Template,
			SelectedText: c.Selection,
			Note:         c.Note,
			Tags:         c.Tag,
			Folder:       c.Folder,
			Images:       c.Images,
		}
	}

	if len(reqs) == 1 {
		result, err := deps.Service.Clip(deps.Ctx, root, reqs[0])
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
			return err
		}
		report(deps, result)
		return nil
	}

	progress := func(event clip.ProgressEvent) {
		switch event.Type {
		case clip.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Clipping %d pages\n", event.Total)
		case clip.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, describe(event.Error))
		}
	}

	results, err := deps.Service.ClipAll(deps.Ctx, root, reqs, progress)
	var saved, failed int
	for _, result := range results {
		if result == nil || result.Err != nil {
			failed++
			continue
		}
		saved++
		report(deps, result)
	}
	fmt.Fprintf(deps.Stdout, "Saved %d of %d pages\n", saved, len(reqs))
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(reqs))
	}
	return nil
}

// Run executes the share command.
func (c *ShareCmd) Run(deps *Dependencies) error {
	root, err := fs.NewFolder(c.Vault)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	req := clip.RequestFromShare(c.Text, c.Subject)
	req.TemplateID = c.Template

	result, err := deps.Service.Clip(deps.Ctx, root, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}
	report(deps, result)
	return nil
}

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	result, err := deps.Service.Preview(deps.Ctx, clip.Request{URL: c.URL, TemplateID: c.Template})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}
	if result.Extracted != nil && result.Extracted.Err != nil {
		fmt.Fprintf(deps.Stderr, "warning: %v\n", result.Extracted.Err)
	}

	fmt.Fprintln(deps.Stdout, result.Rendered.Body())
	return nil
}

// report prints where a clip was saved.
func report(deps *Dependencies, result *clip.Result) {
	if result.Extracted != nil && result.Extracted.Err != nil {
		fmt.Fprintf(deps.Stderr, "warning: %s saved without content: %v\n", result.URL, result.Extracted.Err)
	}
	fmt.Fprintf(deps.Stdout, "Saved %s\n", result.Saved.MarkdownPath)
	for _, path := range result.Saved.AssetPaths {
		fmt.Fprintf(deps.Stdout, "  asset %s\n", path)
	}
}

// describe returns the user-facing message for err. Application errors show
// their message; anything else shows the full error chain.
func describe(err error) string {
	if clipper.ErrorCode(err) == clipper.EINTERNAL {
		return err.Error()
	}
	return clipper.ErrorMessage(err)
}
