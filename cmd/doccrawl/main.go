package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPaths are YAML files consulted for flag defaults, in order.
	ConfigPaths []string

	// DBPath is the default run history location.
	DBPath string

	// DB is opened on demand by commands that record or read runs.
	DB *sqlite.DB

	// Services for end-to-end testing. When nil they are built from flags.
	Fetcher  doccrawl.Fetcher
	Renderer doccrawl.RenderedFetcher
	Runs     doccrawl.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{defaultConfigPath()},
		DBPath:      defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments. A returned error has
// already been reported on stderr.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	err := m.run(ctx, args, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", errorText(err))
	}
	return err
}

// errorText returns the user-facing message of err. Application errors
// show their message without the wrapping context.
func errorText(err error) string {
	var e *doccrawl.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func (m *Main) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Logger: slog.New(slog.DiscardHandler),
		Main:   m,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("doccrawl"),
		kong.Description("Crawl a documentation site and extract its content"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(YAMLResolver, m.ConfigPaths...),
		kong.Vars{"db_path": m.DBPath},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'doccrawl --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Debug {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	deps.Out = NewPrinter(stdout, stderr, cli.NoColor)
	defer m.Close()

	return kongCtx.Run(deps)
}

// openRuns returns the run history stored at path, opening it once.
func (m *Main) openRuns(path string) (doccrawl.RunService, error) {
	if m.Runs != nil {
		return m.Runs, nil
	}
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.Runs = sqlite.NewRunService(m.DB)
	return m.Runs, nil
}
