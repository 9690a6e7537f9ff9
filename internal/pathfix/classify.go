package pathfix

import (
	"path/filepath"
	"regexp"
	"strings"
)

// skipPrefixes mark network, scheme and fragment references that are never rewritten.
var skipPrefixes = []string{"http://", "https://", "mailto:", "tel:", "#"}

const fileScheme = "file:///"

// driveMarker matches a Windows drive such as "C:" that is not the tail of a word ("NOTE:").
var driveMarker = regexp.MustCompile(`(^|[^A-Za-z])[A-Z]:`)

// Classifier decides whether a candidate string is a problematic path.
// It is a pure function of the candidate, the repository root and the home directory.
type Classifier struct {
	root string
	home string
}

// NewClassifier builds a classifier for root. An empty home disables the home-directory rule.
func NewClassifier(root, home string) *Classifier {
	return &Classifier{
		root: filepath.ToSlash(root),
		home: filepath.ToSlash(home),
	}
}

// IsProblematic reports whether candidate is absolute, machine-specific or OS-foreign.
func (c *Classifier) IsProblematic(candidate string) bool {
	if candidate == "" {
		return false
	}
	for _, p := range skipPrefixes {
		if strings.HasPrefix(candidate, p) {
			return false
		}
	}

	switch {
	case strings.Contains(candidate, fileScheme):
		return true
	case c.root != "" && strings.Contains(candidate, c.root):
		return true
	case hasDriveMarker(candidate):
		return true
	case strings.Contains(candidate, "/Users/"):
		return true
	case strings.Contains(candidate, `\`):
		return true
	case c.home != "" && strings.Contains(candidate, c.home):
		return true
	}
	return false
}

func hasDriveMarker(s string) bool {
	return driveMarker.MatchString(s)
}
