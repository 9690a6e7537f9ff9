package pathfix

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// pathAttributes are the element attributes that may carry a path.
var pathAttributes = []string{"src", "href", "data-src"}

// markupAdapter handles HTML. The document is parsed to find attributes, but
// rewriting is a textual substitution of the exact attr="value" occurrence so
// unrelated markup keeps its formatting. Identical attr="value" pairs in one
// file are rewritten uniformly.
type markupAdapter struct{}

func (markupAdapter) Format() Format { return FormatMarkup }

func (markupAdapter) Extract(content []byte) ([]Candidate, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, name := range pathAttributes {
				if val, ok := getAttr(n, name); ok {
					candidates = append(candidates, Candidate{
						Slot:   name,
						Value:  val,
						Needle: name + `="` + val + `"`,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return candidates, nil
}

func (markupAdapter) Rewrite(content []byte, replacements []Replacement) ([]byte, []Replacement, error) {
	original := string(content)
	text := original
	applied := make([]Replacement, 0, len(replacements))
	done := make(map[string]bool)

	for _, r := range replacements {
		forms := attributeForms(r.Slot, r.Value, r.New)
		matched := false
		for _, f := range forms {
			if !strings.Contains(original, f.old) {
				continue
			}
			matched = true
			if !done[f.old] {
				text = strings.ReplaceAll(text, f.old, f.new)
				done[f.old] = true
			}
		}
		if matched {
			applied = append(applied, r)
		}
	}
	return []byte(text), applied, nil
}

type attrForm struct {
	old string
	new string
}

// attributeForms lists the literal spellings of name=value the source may use:
// double or single quotes, raw or entity-escaped.
func attributeForms(name, value, replacement string) []attrForm {
	forms := []attrForm{
		{name + `="` + value + `"`, name + `="` + replacement + `"`},
		{name + `='` + value + `'`, name + `='` + replacement + `'`},
	}
	if escaped := html.EscapeString(value); escaped != value {
		esc := html.EscapeString(replacement)
		forms = append(forms,
			attrForm{name + `="` + escaped + `"`, name + `="` + esc + `"`},
			attrForm{name + `='` + escaped + `'`, name + `='` + esc + `'`},
		)
	}
	return forms
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
