// Package git inspects the Git worktree that contains a repository root so the
// CLI can warn before rewriting files on top of uncommitted changes.
package git
