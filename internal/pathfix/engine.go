package pathfix

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/pathfix/internal/foundation/errors"
	"git.home.luguber.info/inful/pathfix/internal/logfields"
	"git.home.luguber.info/inful/pathfix/internal/metrics"
)

// Options configures an Engine.
type Options struct {
	// Root is the repository root. It is made absolute and symlink-resolved.
	Root string
	// Home is the invoking user's home directory; empty disables the home rule.
	Home string
	// Skip lists file or directory base names excluded from the walk.
	Skip []string
	// SkipFiles lists base names excluded only when they name a regular file,
	// typically the executable's own name.
	SkipFiles []string
	// DryRun computes fixes without writing files.
	DryRun bool
	// Jobs bounds concurrent file processing. Values below 1 mean 1.
	Jobs   int
	Logger *slog.Logger
}

// Engine normalizes embedded paths across a repository tree.
type Engine struct {
	root       string
	opts       Options
	classifier *Classifier
	resolver   *Resolver
	adapters   map[Format]Adapter
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// NewEngine validates the repository root and prepares an engine. An
// unreadable or missing root is the only fatal condition of a run.
func NewEngine(opts Options) (*Engine, error) {
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		root:       root,
		opts:       opts,
		classifier: NewClassifier(root, opts.Home),
		resolver:   NewResolver(root),
		adapters:   defaultAdapters(),
		recorder:   metrics.NoopRecorder{},
		logger:     logger.With(logfields.Root(root)),
	}, nil
}

// WithRecorder attaches a metrics recorder. A nil recorder is ignored.
func (e *Engine) WithRecorder(r metrics.Recorder) *Engine {
	if r != nil {
		e.recorder = r
	}
	return e
}

// Root returns the resolved repository root.
func (e *Engine) Root() string {
	return e.root
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		return "", errors.ValidationError("repository root is required").Build()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "invalid repository root").
			Fatal().WithContext("path", root).Build()
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "repository root does not exist").
			Fatal().WithContext("path", abs).Build()
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "repository root is not readable").
			Fatal().WithContext("path", resolved).Build()
	}
	if !info.IsDir() {
		return "", errors.ValidationError("repository root is not a directory").
			WithContext("path", resolved).Build()
	}
	dir, err := os.Open(resolved)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "repository root is not readable").
			Fatal().WithContext("path", resolved).Build()
	}
	_ = dir.Close()
	return resolved, nil
}

// fileResult is the outcome of processing one file, merged into the report in walk order.
type fileResult struct {
	file       File
	scanned    bool
	changed    bool
	parseError bool
	fixes      []FixRecord
	err        error
}

// Run walks the tree once and repairs every problematic path it finds. The
// returned report is complete even when ctx is cancelled part-way; per-file
// failures are in the report, not in the returned error.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := NewReport(e.opts.DryRun)
	walker := NewWalker(e.root, e.opts.Skip, e.opts.SkipFiles, e.logger)

	e.logger.Info("Normalizing paths", slog.Bool("dry_run", e.opts.DryRun), slog.Int("jobs", e.opts.Jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Jobs)

	var results []*fileResult
	for file := range walker.Files() {
		if gctx.Err() != nil {
			break
		}
		slot := &fileResult{file: file}
		results = append(results, slot)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			*slot = e.processFile(file)
			return nil
		})
	}
	runErr := g.Wait()

	for _, res := range results {
		e.merge(report, res)
	}
	if n := walker.Skipped(); n > 0 {
		report.AddSkipped(n)
		for range n {
			e.recorder.IncFileSkipped()
		}
	}

	elapsed := time.Since(start)
	e.recorder.ObserveRunDuration(elapsed)
	e.logger.Info("Path normalization complete",
		slog.Int("files_scanned", report.FilesScanned()),
		slog.Int("paths_fixed", report.FixedCount()),
		slog.Int("files_changed", report.FilesChanged()),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))

	if runErr == nil {
		runErr = ctx.Err()
	}
	return report, runErr
}

func (e *Engine) merge(report *Report, res *fileResult) {
	format := string(res.file.Format)
	switch {
	case res.err != nil:
		e.logger.Warn("Failed to process file",
			logfields.File(res.file.Path), logfields.Format(format), logfields.Error(res.err))
		report.AddFileError(res.file.Path, res.err)
		e.recorder.IncFileSkipped()
		return
	case !res.scanned:
		// never reached because the run was cancelled
		return
	}

	report.FileScanned(res.changed)
	e.recorder.IncFileScanned(format)

	if res.parseError {
		e.logger.Warn("Could not parse structured data", logfields.File(res.file.Path), logfields.Format(format))
		report.AddParseError(res.file.Path)
		e.recorder.IncParseError(format)
		return
	}

	for _, rec := range res.fixes {
		e.logger.Debug("Fixed path",
			logfields.File(rec.File),
			logfields.Format(format),
			slog.String("context", rec.Context),
			logfields.Old(rec.Old),
			logfields.New(rec.New))
		report.AddFix(rec)
		e.recorder.IncPathFixed(format)
	}
	if res.changed {
		e.logger.Info("Rewrote file",
			logfields.File(res.file.Path), logfields.Format(format), logfields.Count(len(res.fixes)))
	}
}

// processFile reads, repairs and (unless dry-run) rewrites one file. A panic
// is recovered so one bad file cannot stop the run.
func (e *Engine) processFile(file File) (res fileResult) {
	res.file = file
	defer func() {
		if r := recover(); r != nil {
			res = fileResult{
				file: file,
				err: errors.InternalError(fmt.Sprintf("panic while processing file: %v", r)).
					WithContext("file", file.Path).Build(),
			}
		}
	}()

	// #nosec G304 -- path comes from walking the repository root
	content, err := os.ReadFile(file.Path)
	if err != nil {
		res.err = errors.WrapError(err, errors.CategoryFileSystem, "failed to read file").
			WithContext("file", file.Path).Build()
		return res
	}
	res.scanned = true

	adapter, ok := e.adapters[file.Format]
	if !ok {
		res.err = errors.InternalError("no adapter for format").WithContext("format", string(file.Format)).Build()
		return res
	}

	candidates, err := adapter.Extract(content)
	if err != nil {
		if file.Format == FormatData {
			res.parseError = true
			return res
		}
		res.err = errors.WrapError(err, errors.CategoryParse, "failed to parse file").
			WithContext("file", file.Path).Build()
		return res
	}

	replacements := e.replacementsFor(candidates, file.Path)
	if len(replacements) == 0 {
		return res
	}

	updated, applied, err := adapter.Rewrite(content, replacements)
	if err != nil {
		res.err = errors.WrapError(err, errors.CategoryInternal, "failed to rewrite file").
			WithContext("file", file.Path).Build()
		return res
	}
	if len(applied) == 0 || bytes.Equal(updated, content) {
		return res
	}

	if !e.opts.DryRun {
		if err := writeFileAtomic(file.Path, updated); err != nil {
			res.err = err
			return res
		}
	}

	res.changed = true
	for _, r := range applied {
		res.fixes = append(res.fixes, FixRecord{
			File:    file.Path,
			Context: r.Slot,
			Old:     r.Value,
			New:     r.New,
			Format:  file.Format,
		})
	}
	return res
}

// replacementsFor keeps only problematic candidates whose resolved form
// differs, which is what makes a second run a no-op.
func (e *Engine) replacementsFor(candidates []Candidate, sourceFile string) []Replacement {
	var out []Replacement
	for _, c := range candidates {
		if !e.classifier.IsProblematic(c.Value) {
			continue
		}
		resolved := e.resolver.Resolve(c.Value, sourceFile)
		if resolved == c.Value {
			continue
		}
		out = append(out, Replacement{Candidate: c, New: resolved})
	}
	return out
}
