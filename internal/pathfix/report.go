package pathfix

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// FixRecord is one applied path repair. Records are never modified after creation.
type FixRecord struct {
	File    string
	Context string // attribute name, "link", "image" or JSON pointer
	Old     string
	New     string
	Format  Format
}

// String renders the record as a report line.
func (r FixRecord) String() string {
	return fmt.Sprintf("Fixed %s in %s: %s -> %s", r.Context, r.File, r.Old, r.New)
}

// EntryKind distinguishes report entries.
type EntryKind int

const (
	EntryFix EntryKind = iota
	EntryParseError
)

// Entry is one line of the detailed report, in the order it was recorded.
type Entry struct {
	Kind EntryKind
	Fix  FixRecord
	File string // for EntryParseError
}

// String renders the entry the way the summary prints it.
func (e Entry) String() string {
	if e.Kind == EntryParseError {
		return "Error: Could not parse JSON file " + e.File
	}
	return e.Fix.String()
}

// FileError is a per-file failure that did not stop the run.
type FileError struct {
	File string
	Err  error
}

// Report accumulates the outcome of a run. It is append-only and safe for
// concurrent use.
type Report struct {
	mu           sync.Mutex
	entries      []Entry
	fileErrors   []FileError
	filesScanned int
	filesChanged int
	filesSkipped int
	dryRun       bool
}

// NewReport creates an empty report.
func NewReport(dryRun bool) *Report {
	return &Report{dryRun: dryRun}
}

// AddFix appends a fix record.
func (r *Report) AddFix(rec FixRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Kind: EntryFix, Fix: rec})
}

// AddParseError appends a structured-data parse error for file.
func (r *Report) AddParseError(file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Kind: EntryParseError, File: file})
}

// AddFileError records a per-file failure.
func (r *Report) AddFileError(file string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fileErrors = append(r.fileErrors, FileError{File: file, Err: err})
}

// FileScanned counts a processed file; changed marks that it was (or would be) rewritten.
func (r *Report) FileScanned(changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filesScanned++
	if changed {
		r.filesChanged++
	}
}

// AddSkipped counts entries the walker could not list.
func (r *Report) AddSkipped(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filesSkipped += n
}

// Entries returns a copy of the entries in recorded order.
func (r *Report) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Fixes returns a copy of the fix records in recorded order.
func (r *Report) Fixes() []FixRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	fixes := make([]FixRecord, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Kind == EntryFix {
			fixes = append(fixes, e.Fix)
		}
	}
	return fixes
}

// IssuesFound counts fixes plus parse errors.
func (r *Report) IssuesFound() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// FixedCount counts fix records.
func (r *Report) FixedCount() int {
	return len(r.Fixes())
}

// FilesScanned returns the number of files handed to an adapter.
func (r *Report) FilesScanned() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filesScanned
}

// FilesChanged returns the number of files whose content changed.
func (r *Report) FilesChanged() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filesChanged
}

// FileErrors returns a copy of the per-file failures.
func (r *Report) FileErrors() []FileError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FileError(nil), r.fileErrors...)
}

// Err combines the per-file failures, or returns nil when there were none.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result *multierror.Error
	for _, fe := range r.fileErrors {
		result = multierror.Append(result, fmt.Errorf("%s: %w", fe.File, fe.Err))
	}
	return result.ErrorOrNil()
}

// WriteSummary prints the human-readable report.
func (r *Report) WriteSummary(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fixed := 0
	for _, e := range r.entries {
		if e.Kind == EntryFix {
			fixed++
		}
	}

	title := "Path Checker Report:"
	if r.dryRun {
		title = "Path Checker Report (dry run):"
	}

	var b strings.Builder
	b.WriteString("\n" + title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	fmt.Fprintf(&b, "Files scanned: %d\n", r.filesScanned)
	fmt.Fprintf(&b, "Issues found: %d\n", len(r.entries))
	fmt.Fprintf(&b, "Paths fixed: %d\n", fixed)
	fmt.Fprintf(&b, "Files changed: %d\n", r.filesChanged)
	if skipped := r.filesSkipped + len(r.fileErrors); skipped > 0 {
		fmt.Fprintf(&b, "Files skipped: %d\n", skipped)
	}
	b.WriteString("\nDetailed fixes:\n")
	for _, e := range r.entries {
		b.WriteString("- " + e.String() + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
