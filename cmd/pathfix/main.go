package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pathfix/internal/config"
	"git.home.luguber.info/inful/pathfix/internal/version"
)

// CLI definition & global flags. Flags override PATHFIX_* environment
// variables, which override the configuration file.
type CLI struct {
	Root            string           `arg:"" help:"Repository root directory"`
	Config          string           `short:"c" help:"Configuration file path" env:"PATHFIX_CONFIG"`
	Verbose         bool             `short:"v" help:"Enable verbose logging"`
	DryRun          bool             `short:"n" name:"dry-run" help:"Report fixes without writing files" env:"PATHFIX_DRY_RUN"`
	Home            string           `help:"Home directory treated as machine-specific (default: current user's)" env:"PATHFIX_HOME"`
	Jobs            int              `short:"j" help:"Number of files processed concurrently (default 1)" env:"PATHFIX_JOBS"`
	MetricsTextfile string           `name:"metrics-textfile" help:"Write Prometheus metrics to this file after the run" env:"PATHFIX_METRICS_TEXTFILE"`
	Skip            []string         `help:"Additional file or directory names to skip" env:"PATHFIX_SKIP"`
	Version         kong.VersionFlag `name:"version" help:"Show version and exit"`

	logOutput io.Writer
	logger    *slog.Logger
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	out := c.logOutput
	if out == nil {
		out = os.Stderr
	}
	c.logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(c.logger)
	return nil
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("pathfix"),
		kong.Description("Rewrite absolute and machine-specific paths in HTML, Markdown and JSON files to portable relative paths."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	// .env must be loaded before kong resolves PATHFIX_* variables
	loaded, envErr := config.LoadEnv()

	cli := &CLI{}
	parser, err := newParser(cli)
	if err != nil {
		panic(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if envErr != nil {
		slog.Warn("Failed to load .env file", "error", envErr)
	}
	for _, name := range loaded {
		slog.Debug("Loaded environment variables", "file", name)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.run(ctx, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
