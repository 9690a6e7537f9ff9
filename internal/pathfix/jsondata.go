package pathfix

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const jsonIndent = "  "

// dataAdapter handles JSON. Every string value is a candidate, keys never are.
// Objects keep their source key order and numbers keep their source text.
type dataAdapter struct{}

func (dataAdapter) Format() Format { return FormatData }

func (dataAdapter) Extract(content []byte) ([]Candidate, error) {
	root, err := parseJSON(content)
	if err != nil {
		return nil, err
	}
	var candidates []Candidate
	root.walkStrings("", func(pointer string, n *jsonNode) {
		candidates = append(candidates, Candidate{Slot: pointer, Value: n.str})
	})
	return candidates, nil
}

func (dataAdapter) Rewrite(content []byte, replacements []Replacement) ([]byte, []Replacement, error) {
	root, err := parseJSON(content)
	if err != nil {
		return nil, nil, err
	}

	// Replacements arrive in document order. They are matched by position
	// because duplicate object keys share a pointer.
	applied := make([]Replacement, 0, len(replacements))
	next := 0
	root.walkStrings("", func(pointer string, n *jsonNode) {
		if next >= len(replacements) {
			return
		}
		r := replacements[next]
		if r.Slot != pointer || r.Value != n.str {
			return
		}
		next++
		if r.New == n.str {
			return
		}
		n.str = r.New
		applied = append(applied, r)
	})
	if len(applied) == 0 {
		return content, applied, nil
	}

	var buf bytes.Buffer
	if err := root.encode(&buf, 0); err != nil {
		return nil, nil, err
	}
	if bytes.HasSuffix(content, []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), applied, nil
}

type jsonKind int

const (
	jsonNull jsonKind = iota
	jsonBool
	jsonNumber
	jsonString
	jsonArray
	jsonObject
)

// jsonNode is an order-preserving JSON value.
type jsonNode struct {
	kind    jsonKind
	boolean bool
	number  json.Number
	str     string
	keys    []string
	items   []*jsonNode // object values (parallel to keys) or array elements
}

func parseJSON(content []byte) (*jsonNode, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	root, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after top-level value")
	}
	return root, nil
}

func decodeValue(dec *json.Decoder) (*jsonNode, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := &jsonNode{kind: jsonObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid JSON: object key %v is not a string", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				n.keys = append(n.keys, key)
				n.items = append(n.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &jsonNode{kind: jsonArray}
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				n.items = append(n.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		default:
			return nil, fmt.Errorf("invalid JSON: unexpected delimiter %q", v)
		}
	case string:
		return &jsonNode{kind: jsonString, str: v}, nil
	case json.Number:
		return &jsonNode{kind: jsonNumber, number: v}, nil
	case bool:
		return &jsonNode{kind: jsonBool, boolean: v}, nil
	case nil:
		return &jsonNode{kind: jsonNull}, nil
	default:
		return nil, fmt.Errorf("invalid JSON: unexpected token %v", tok)
	}
}

// walkStrings calls fn for every string value with its JSON pointer, in document order.
func (n *jsonNode) walkStrings(pointer string, fn func(string, *jsonNode)) {
	switch n.kind {
	case jsonString:
		fn(pointer, n)
	case jsonArray:
		for i, child := range n.items {
			child.walkStrings(pointer+"/"+strconv.Itoa(i), fn)
		}
	case jsonObject:
		for i, child := range n.items {
			child.walkStrings(pointer+"/"+escapePointerToken(n.keys[i]), fn)
		}
	}
}

func escapePointerToken(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	return strings.ReplaceAll(key, "/", "~1")
}

// encode writes n with a fixed two-space indent.
func (n *jsonNode) encode(w *bytes.Buffer, depth int) error {
	switch n.kind {
	case jsonNull:
		w.WriteString("null")
	case jsonBool:
		w.WriteString(strconv.FormatBool(n.boolean))
	case jsonNumber:
		w.WriteString(n.number.String())
	case jsonString:
		return encodeString(w, n.str)
	case jsonArray:
		if len(n.items) == 0 {
			w.WriteString("[]")
			return nil
		}
		w.WriteString("[\n")
		for i, child := range n.items {
			writeIndent(w, depth+1)
			if err := child.encode(w, depth+1); err != nil {
				return err
			}
			if i < len(n.items)-1 {
				w.WriteByte(',')
			}
			w.WriteByte('\n')
		}
		writeIndent(w, depth)
		w.WriteByte(']')
	case jsonObject:
		if len(n.items) == 0 {
			w.WriteString("{}")
			return nil
		}
		w.WriteString("{\n")
		for i, child := range n.items {
			writeIndent(w, depth+1)
			if err := encodeString(w, n.keys[i]); err != nil {
				return err
			}
			w.WriteString(": ")
			if err := child.encode(w, depth+1); err != nil {
				return err
			}
			if i < len(n.items)-1 {
				w.WriteByte(',')
			}
			w.WriteByte('\n')
		}
		writeIndent(w, depth)
		w.WriteByte('}')
	}
	return nil
}

func encodeString(w *bytes.Buffer, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return nil
}

func writeIndent(w *bytes.Buffer, depth int) {
	for range depth {
		w.WriteString(jsonIndent)
	}
}
