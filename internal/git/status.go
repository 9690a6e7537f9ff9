package git

import (
	stderrors "errors"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/pathfix/internal/foundation/errors"
)

// WorktreeStatus describes the Git worktree containing a directory.
type WorktreeStatus struct {
	// IsRepository is false when the directory is not inside a Git worktree.
	IsRepository bool
	// Clean is true when there are no modified, staged or untracked files.
	Clean bool
	// Dirty lists the worktree-relative paths with changes, sorted.
	Dirty []string
}

// Status opens the worktree containing dir (searching parent directories) and
// reports whether it has uncommitted changes.
func Status(dir string) (WorktreeStatus, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return WorktreeStatus{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve directory").WithContext("path", dir).Build()
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, gogit.ErrRepositoryNotExists) {
			return WorktreeStatus{}, nil
		}
		return WorktreeStatus{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to open git repository").WithContext("path", abs).Build()
	}

	w, err := repo.Worktree()
	if err != nil {
		// bare repositories have no worktree to protect
		if stderrors.Is(err, gogit.ErrIsBareRepository) {
			return WorktreeStatus{}, nil
		}
		return WorktreeStatus{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to get git worktree").WithContext("path", abs).Build()
	}

	status, err := w.Status()
	if err != nil {
		return WorktreeStatus{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to get git status").WithContext("path", abs).Build()
	}

	result := WorktreeStatus{IsRepository: true, Clean: status.IsClean()}
	for file, s := range status {
		if s.Worktree != gogit.Unmodified || s.Staging != gogit.Unmodified {
			result.Dirty = append(result.Dirty, file)
		}
	}
	sort.Strings(result.Dirty)
	return result, nil
}
