package pathfix

import (
	"regexp"
	"strings"
)

// linkPattern matches images ![alt](target) and inline links [label](target).
// Images are listed first so an image is never also reported as a link.
// Reference-style links, autolinks and multi-line targets are not matched.
var linkPattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)|\[[^\]]+\]\(([^)]+)\)`)

// linkAdapter handles Markdown link syntax by textual substitution of
// "](target)". Every occurrence of the same target is rewritten uniformly.
type linkAdapter struct{}

func (linkAdapter) Format() Format { return FormatLinkSyntax }

func (linkAdapter) Extract(content []byte) ([]Candidate, error) {
	text := string(content)
	var candidates []Candidate

	for _, m := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		slot := "image"
		start, end := m[2], m[3]
		if start < 0 {
			slot = "link"
			start, end = m[4], m[5]
		}
		target := text[start:end]
		candidates = append(candidates, Candidate{
			Slot:   slot,
			Value:  destination(target),
			Needle: "](" + target + ")",
		})
	}
	return candidates, nil
}

func (linkAdapter) Rewrite(content []byte, replacements []Replacement) ([]byte, []Replacement, error) {
	text := string(content)
	applied := make([]Replacement, 0, len(replacements))
	done := make(map[string]bool)

	for _, r := range replacements {
		if !done[r.Needle] {
			newNeedle := strings.Replace(r.Needle, r.Value, r.New, 1)
			text = strings.ReplaceAll(text, r.Needle, newNeedle)
			done[r.Needle] = true
		}
		applied = append(applied, r)
	}
	return []byte(text), applied, nil
}

// destination strips an optional link title, (path "title") or (path 'title'),
// and the angle brackets of (<path>).
func destination(target string) string {
	trimmed := strings.TrimSpace(target)
	for _, q := range []string{` "`, ` '`} {
		if idx := strings.Index(trimmed, q); idx > 0 {
			closing := q[1:]
			if strings.HasSuffix(trimmed, closing) && len(trimmed) > idx+2 {
				trimmed = strings.TrimSpace(trimmed[:idx])
				break
			}
		}
	}
	// <...> wraps destinations containing spaces; the brackets stay in the source.
	if len(trimmed) > 2 && strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") {
		return trimmed[1 : len(trimmed)-1]
	}
	return trimmed
}
