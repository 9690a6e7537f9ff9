package pathfix

import "path/filepath"

// Format identifies one of the content formats the engine understands.
type Format string

const (
	FormatMarkup     Format = "markup"
	FormatLinkSyntax Format = "link-syntax"
	FormatData       Format = "structured-data"
)

// formatsByExtension is the dispatch table used by the walker. Files with any
// other extension are never opened.
var formatsByExtension = map[string]Format{
	".html": FormatMarkup,
	".md":   FormatLinkSyntax,
	".json": FormatData,
}

// FormatFor returns the format handling filename, if any.
func FormatFor(filename string) (Format, bool) {
	f, ok := formatsByExtension[filepath.Ext(filename)]
	return f, ok
}

// Candidate is a string extracted from file content that may be a path.
type Candidate struct {
	// Slot names the syntactic position: an attribute name, "link", "image"
	// or a JSON pointer.
	Slot string
	// Value is the path string as it appears to the classifier.
	Value string
	// Needle is the literal source text that a rewrite substitutes. Empty for
	// structured data, which is rewritten through its parsed tree.
	Needle string
}

// Replacement pairs a candidate with its resolved form.
type Replacement struct {
	Candidate
	New string
}

// Adapter extracts candidates from one format and splices replacements back.
type Adapter interface {
	Format() Format
	// Extract returns the candidates in document order. An error means the
	// content could not be parsed and must be left untouched.
	Extract(content []byte) ([]Candidate, error)
	// Rewrite applies replacements, given in the order Extract returned their
	// candidates, and returns the new content together with the replacements
	// that actually took effect.
	Rewrite(content []byte, replacements []Replacement) ([]byte, []Replacement, error)
}

// defaultAdapters returns one adapter per supported format.
func defaultAdapters() map[Format]Adapter {
	return map[Format]Adapter{
		FormatMarkup:     markupAdapter{},
		FormatLinkSyntax: linkAdapter{},
		FormatData:       dataAdapter{},
	}
}
