package pathfix

import (
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(dryRun bool) *Report {
	r := NewReport(dryRun)
	r.FileScanned(true)
	r.AddFix(FixRecord{File: "/r/index.html", Context: "src", Old: "/r/a.png", New: "a.png", Format: FormatMarkup})
	r.FileScanned(true)
	r.AddFix(FixRecord{File: "/r/b.md", Context: "link", Old: `C:\x.md`, New: "x.md", Format: FormatLinkSyntax})
	r.FileScanned(false)
	r.AddParseError("/r/bad.json")
	return r
}

func TestReport_WriteSummary(t *testing.T) {
	var b strings.Builder
	require.NoError(t, sampleReport(false).WriteSummary(&b))

	assert.Equal(t, `
Path Checker Report:
====================
Files scanned: 3
Issues found: 3
Paths fixed: 2
Files changed: 2

Detailed fixes:
- Fixed src in /r/index.html: /r/a.png -> a.png
- Fixed link in /r/b.md: C:\x.md -> x.md
- Error: Could not parse JSON file /r/bad.json
`, b.String())
}

func TestReport_WriteSummaryDryRunAndSkipped(t *testing.T) {
	r := sampleReport(true)
	r.AddSkipped(1)
	r.AddFileError("/r/locked.md", stderrors.New("permission denied"))

	var b strings.Builder
	require.NoError(t, r.WriteSummary(&b))
	out := b.String()

	assert.True(t, strings.HasPrefix(out, "\nPath Checker Report (dry run):\n==============================\n"), out)
	assert.Contains(t, out, "Files skipped: 2\n")
}

func TestReport_FixedCountMatchesRecords(t *testing.T) {
	r := sampleReport(false)
	assert.Equal(t, len(r.Fixes()), r.FixedCount())
	assert.Equal(t, 2, r.FixedCount())
	assert.Equal(t, 3, r.IssuesFound())

	var fixLines int
	for _, e := range r.Entries() {
		if e.Kind == EntryFix {
			fixLines++
		}
	}
	assert.Equal(t, r.FixedCount(), fixLines)
}

func TestReport_EntriesAreCopies(t *testing.T) {
	r := sampleReport(false)
	entries := r.Entries()
	entries[0].Fix.New = "mutated"
	assert.Equal(t, "a.png", r.Entries()[0].Fix.New)
}

func TestReport_Err(t *testing.T) {
	r := NewReport(false)
	assert.NoError(t, r.Err())

	r.AddFileError("/r/a.md", stderrors.New("boom"))
	r.AddFileError("/r/b.md", stderrors.New("bang"))
	err := r.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/r/a.md: boom")
	assert.Contains(t, err.Error(), "/r/b.md: bang")
	assert.Len(t, r.FileErrors(), 2)
}

func TestReport_ConcurrentAppend(t *testing.T) {
	r := NewReport(false)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.FileScanned(true)
			r.AddFix(FixRecord{File: "f", Context: "link", Old: "a", New: "b"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, r.FilesScanned())
	assert.Equal(t, 50, r.FixedCount())
}
