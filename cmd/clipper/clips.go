package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/clipper"
)

// Run executes the clips command.
func (c *ClipsCmd) Run(deps *Dependencies) error {
	filter := clipper.ClipFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	clips, err := deps.Clips.FindClips(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	if len(clips) == 0 {
		fmt.Fprintln(deps.Stdout, "No clips yet. Use 'clipper clip' to save one.")
		return nil
	}

	for _, cl := range clips {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", cl.CreatedAt.Local().Format(time.DateTime), cl.Filename, cl.MarkdownPath)
	}

	return nil
}
