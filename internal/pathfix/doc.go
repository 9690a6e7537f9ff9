// Package pathfix rewrites machine-specific filesystem paths embedded in a
// repository's HTML, Markdown and JSON files into portable, forward-slash
// paths relative to the file that references them.
//
// A run walks the repository root, hands each .html, .md and .json file to
// the adapter for its format, classifies every candidate path string and
// resolves the problematic ones. Files are rewritten only when their content
// changes, so a second run over the same tree is a no-op.
package pathfix
