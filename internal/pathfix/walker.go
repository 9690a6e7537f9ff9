package pathfix

import (
	"io/fs"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pathfix/internal/logfields"
)

// File is a walked file together with the format that will process it.
type File struct {
	Path   string
	Format Format
}

// Walker enumerates the files under a repository root that an adapter handles.
type Walker struct {
	root      string
	skip      map[string]bool
	skipFiles map[string]bool
	logger    *slog.Logger
	// skipped counts entries that could not be listed.
	skipped int
}

// NewWalker creates a walker for root. Files and directories whose base name
// is in skip are excluded along with every dot-prefixed entry; names in
// skipFiles exclude regular files only.
func NewWalker(root string, skip, skipFiles []string, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{root: root, skip: nameSet(skip), skipFiles: nameSet(skipFiles), logger: logger}
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if name != "" {
			set[name] = true
		}
	}
	return set
}

// Files returns a lazy sequence of dispatchable files in lexical walk order.
// Unlistable entries are logged and skipped; symlinks and other non-regular
// files are never yielded.
func (w *Walker) Files() iter.Seq[File] {
	return func(yield func(File) bool) {
		_ = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				w.skipped++
				w.logger.Warn("Skipping unreadable entry", logfields.Path(path), logfields.Error(err))
				if d != nil && d.IsDir() && path != w.root {
					return fs.SkipDir
				}
				return nil
			}

			if path != w.root && w.excluded(d.Name()) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			if d.IsDir() || !d.Type().IsRegular() || w.skipFiles[d.Name()] {
				return nil
			}

			format, ok := FormatFor(d.Name())
			if !ok {
				return nil
			}
			if !yield(File{Path: path, Format: format}) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// Skipped returns the number of entries that could not be listed so far.
func (w *Walker) Skipped() int {
	return w.skipped
}

func (w *Walker) excluded(name string) bool {
	return strings.HasPrefix(name, ".") || w.skip[name]
}
