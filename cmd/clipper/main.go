package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/clipper"
	"github.com/fwojciec/clipper/clip"
	"github.com/fwojciec/clipper/goquery"
	"github.com/fwojciec/clipper/htmltomarkdown"
	cliphttp "github.com/fwojciec/clipper/http"
	"github.com/fwojciec/clipper/lru"
	"github.com/fwojciec/clipper/readability"
	"github.com/fwojciec/clipper/render"
	"github.com/fwojciec/clipper/rod"
	clipslog "github.com/fwojciec/clipper/slog"
	"github.com/fwojciec/clipper/sqlite"
	"github.com/fwojciec/clipper/trafilatura"
	"github.com/fwojciec/clipper/vault"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db and CLIPPER_DB are not set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	TemplateService clipper.TemplateService
	ClipService     clipper.ClipService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("clipper"),
		kong.Description("Clip web pages into a Markdown vault"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'clipper --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CLIPPER_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	m.TemplateService = sqlite.NewTemplateService(m.DB)
	m.ClipService = sqlite.NewClipService(m.DB)
	deps.Templates = m.TemplateService
	deps.Clips = m.ClipService

	var flags *FetchFlags
	switch strings.Fields(kongCtx.Command())[0] {
	case "clip":
		flags = &cli.Clip.FetchFlags
	case "share":
		flags = &cli.Share.FetchFlags
	case "preview":
		flags = &cli.Preview.FetchFlags
	}
	if flags != nil {
		service, closeFn, err := m.newService(deps, *flags)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Service = service
	}

	return kongCtx.Run(deps)
}

// newService wires the clipping pipeline for the selected fetch options.
// The returned function releases the fetcher.
func (m *Main) newService(deps *Dependencies, flags FetchFlags) (*clip.Service, func() error, error) {
	timeout := flags.Timeout
	if timeout <= 0 {
		timeout = clip.DefaultTimeout
	}

	var fetcher clipper.Fetcher
	if flags.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed to use --browser")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = cliphttp.NewFetcher(cliphttp.WithTimeout(timeout))
	}

	cached, err := lru.NewFetcher(clipslog.NewLoggingFetcher(fetcher, deps.Logger), lru.DefaultSize)
	if err != nil {
		fetcher.Close()
		return nil, nil, err
	}

	var content clipper.ContentExtractor
	switch flags.Extractor {
	case "trafilatura":
		content = trafilatura.NewExtractor()
	case "readability":
		content = readability.NewExtractor()
	default:
		content = goquery.NewContentExtractor()
	}

	filters := render.NewFilterRegistry(render.WithConverter(htmltomarkdown.NewConverter()))

	service := &clip.Service{
		Pipeline: &clip.Pipeline{
			Fetcher:  cached,
			Metadata: goquery.NewMetadataExtractor(),
			Content:  content,
			Timeout:  timeout,
		},
		Templates:   deps.Templates,
		Renderer:    render.NewRenderer(render.NewEvaluator(filters), render.WithLogger(deps.Logger)),
		Vault:       clipslog.NewLoggingVaultWriter(vault.NewWriter(), deps.Logger),
		Clips:       deps.Clips,
		Assets:      clipslog.NewLoggingAssetFetcher(cliphttp.NewAssetFetcher(cliphttp.WithTimeout(timeout)), deps.Logger),
		RateLimiter: clip.NewDomainLimiter(flags.Rate),
		Concurrency: flags.Concurrency,
		Now:         time.Now,
	}
	return service, cached.Close, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "clipper.db"
	}
	dir := filepath.Join(home, ".clipper")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "clipper.db")
}
