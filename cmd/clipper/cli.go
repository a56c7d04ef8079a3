package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/clipper"
	"github.com/fwojciec/clipper/clip"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Templates clipper.TemplateService
	Clips     clipper.ClipService
	Service   *clip.Service
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"CLIPPER_DB" help:"Database path (default ~/.clipper/clipper.db)"`
	Verbose bool   `short:"v" help:"Log fetches and writes to stderr"`

	Clip     ClipCmd     `cmd:"" help:"Clip web pages into the vault"`
	Share    ShareCmd    `cmd:"" help:"Save shared text or a shared link"`
	Preview  PreviewCmd  `cmd:"" help:"Render a page to stdout without saving"`
	Template TemplateCmd `cmd:"" help:"Manage templates"`
	Clips    ClipsCmd    `cmd:"" help:"List clip history"`
}

// FetchFlags configure how pages are fetched and extracted.
type FetchFlags struct {
	Extractor   string        `default:"heuristic" enum:"heuristic,trafilatura,readability" help:"Content extractor (heuristic, trafilatura, readability)"`
	Browser     bool          `short:"b" help:"Render pages in headless Chrome"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Concurrency int           `short:"c" default:"4" help:"Pages clipped at once"`
	Rate        float64       `default:"1" help:"Requests per second per domain, 0 for no limit"`
}

// ClipCmd is the "clip" subcommand.
type ClipCmd struct {
	URLs      []string `arg:"" name:"url" help:"Page URLs to clip"`
	Vault     string   `required:"" env:"CLIPPER_VAULT" type:"existingdir" help:"Vault directory"`
	Template  string   `short:"T" help:"Template ID (default: chosen by triggers)"`
	Tag       []string `name:"tag" help:"Tag to add (repeatable)"`
	Note      string   `short:"n" help:"Note to attach"`
	Folder    string   `short:"f" help:"Destination folder inside the vault"`
	Selection string   `short:"s" help:"Selected text to include"`
	Images    bool     `help:"Download the featured image next to the note"`

	FetchFlags `embed:""`
}

// ShareCmd is the "share" subcommand.
type ShareCmd struct {
	Text     string `arg:"" help:"Shared text or link"`
	Subject  string `help:"Subject line sent with the share"`
	Vault    string `required:"" env:"CLIPPER_VAULT" type:"existingdir" help:"Vault directory"`
	Template string `short:"T" help:"Template ID"`

	FetchFlags `embed:""`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	URL      string `arg:"" help:"Page URL"`
	Template string `short:"T" help:"Template ID"`

	FetchFlags `embed:""`
}

// TemplateCmd groups the template subcommands.
type TemplateCmd struct {
	Add    TemplateAddCmd    `cmd:"" help:"Add a template from a YAML file"`
	List   TemplateListCmd   `cmd:"" help:"List templates"`
	Delete TemplateDeleteCmd `cmd:"" help:"Delete a template"`
}

// TemplateAddCmd is the "template add" subcommand.
type TemplateAddCmd struct {
	File string `arg:"" type:"existingfile" help:"Template YAML file"`
}

// TemplateListCmd is the "template list" subcommand.
type TemplateListCmd struct{}

// TemplateDeleteCmd is the "template delete" subcommand.
type TemplateDeleteCmd struct {
	ID string `arg:"" help:"Template ID"`
}

// ClipsCmd is the "clips" subcommand.
type ClipsCmd struct {
	URL   string `help:"Only clips of this URL"`
	Limit int    `default:"20" help:"Maximum clips to show"`
}
