package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pathfix/internal/config"
	"git.home.luguber.info/inful/pathfix/internal/foundation/errors"
	"git.home.luguber.info/inful/pathfix/internal/git"
	"git.home.luguber.info/inful/pathfix/internal/logfields"
	"git.home.luguber.info/inful/pathfix/internal/metrics"
	"git.home.luguber.info/inful/pathfix/internal/pathfix"
)

// settings are the effective values after merging flags, environment and config file.
type settings struct {
	home            string
	dryRun          bool
	jobs            int
	metricsTextfile string
	skip            []string
	skipFiles       []string
}

// resolveSettings applies precedence: CLI flag/env > config file > defaults.
func (c *CLI) resolveSettings(cfg *config.Config) settings {
	s := settings{
		home:            firstNonEmpty(c.Home, cfg.Home),
		dryRun:          c.DryRun || cfg.DryRun,
		jobs:            c.Jobs,
		metricsTextfile: firstNonEmpty(c.MetricsTextfile, cfg.MetricsTextfile),
	}
	if s.home == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.home = home
		}
	}
	if s.jobs <= 0 {
		s.jobs = cfg.Jobs
	}
	if s.jobs <= 0 {
		s.jobs = 1
	}

	// the tool never rewrites its own executable
	s.skipFiles = []string{filepath.Base(os.Args[0])}
	s.skip = append(s.skip, cfg.Skip...)
	s.skip = append(s.skip, c.Skip...)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// run executes one normalization pass and returns the process exit code.
func (c *CLI) run(ctx context.Context, stdout, stderr io.Writer) int {
	if c.logger == nil {
		_ = c.AfterApply()
	}
	logger := c.logger.With(logfields.RunID(uuid.NewString()))
	adapter := errors.NewCLIErrorAdapter(c.Verbose, logger)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return adapter.Report(stderr, err)
	}
	s := c.resolveSettings(cfg)

	engine, err := pathfix.NewEngine(pathfix.Options{
		Root:      c.Root,
		Home:      s.home,
		Skip:      s.skip,
		SkipFiles: s.skipFiles,
		DryRun:    s.dryRun,
		Jobs:      s.jobs,
		Logger:    logger,
	})
	if err != nil {
		return adapter.Report(stderr, err)
	}

	status, err := git.Status(engine.Root())
	switch {
	case err != nil:
		logger.Warn("Could not determine git status", logfields.Root(engine.Root()), logfields.Error(err))
	case status.IsRepository && !status.Clean && !s.dryRun:
		logger.Warn("Repository has uncommitted changes; files will be rewritten in place",
			logfields.Root(engine.Root()), logfields.Count(len(status.Dirty)))
	}

	var reg *prometheus.Registry
	if s.metricsTextfile != "" {
		reg = prometheus.NewRegistry()
		engine.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	report, runErr := engine.Run(ctx)
	if err := report.WriteSummary(stdout); err != nil {
		return adapter.Report(stderr, errors.WrapError(err, errors.CategoryFileSystem, "failed to write report").Build())
	}

	if reg != nil {
		if err := metrics.WriteTextfile(s.metricsTextfile, reg); err != nil {
			logger.Warn("Failed to write metrics textfile", logfields.Path(s.metricsTextfile), logfields.Error(err))
		}
	}

	if err := report.Err(); err != nil {
		logger.Warn("Some files could not be processed",
			logfields.Count(len(report.FileErrors())), logfields.Error(err))
	}

	if runErr != nil {
		return adapter.Report(stderr, errors.WrapError(runErr, errors.CategoryInternal, "run interrupted").Build())
	}
	return 0
}
