package pathfix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver("/repo")
	tests := []struct {
		name      string
		candidate string
		source    string
		want      string
	}{
		{"inside tree", "/repo/assets/img.png", "/repo/docs/page.html", "../assets/img.png"},
		{"same directory", "/repo/docs/other.html", "/repo/docs/page.html", "other.html"},
		{"outside tree", "/Users/alice/other/file.png", "/repo/docs/page.html", "file.png"},
		{"windows path", `C:\Users\bob\img.png`, "/repo/docs/page.html", "img.png"},
		{"file scheme inside", "file:///repo/notes/readme.md", "/repo/a/b.md", "../notes/readme.md"},
		{"file scheme windows", "file:///C:/Users/bob/x.png", "/repo/a/b.md", "x.png"},
		{"fragment kept", "/repo/docs/page.html#intro", "/repo/docs/index.html", "page.html#intro"},
		{"relative backslashes", `..\img\x.png`, "/repo/docs/page.md", "../img/x.png"},
		{"relative escaping root", `..\..\outside\x.png`, "/repo/docs/page.md", "x.png"},
		{"dot segments leave root", "/repo/../etc/passwd", "/repo/index.html", "passwd"},
		{"root itself", "/repo", "/repo/docs/a.html", ".."},
		{"relative containing root", "build/repo/assets/a.png", "/repo/index.html", "assets/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.candidate, tt.source))
		})
	}
}

func TestResolver_RootWithinHome(t *testing.T) {
	r := NewResolver("/Users/alice/repo")
	got := r.Resolve("/Users/alice/repo/assets/a.png", "/Users/alice/repo/index.html")
	assert.Equal(t, "assets/a.png", got)
}

func TestResolver_UninterpretableReturnedUnchanged(t *testing.T) {
	r := NewResolver("/repo")
	in := "/repo/a\x00b.png"
	assert.Equal(t, in, r.Resolve(in, "/repo/index.html"))
}

func TestResolver_NeverEmitsBackslash(t *testing.T) {
	r := NewResolver("/repo")
	for _, in := range []string{
		`C:\Users\bob\img.png`,
		`\repo\docs\a.png`,
		`docs\sub\a.png`,
		`file:///repo\notes\x.md`,
		`D:\a\b\c\`,
	} {
		out := r.Resolve(in, "/repo/docs/page.md")
		assert.False(t, strings.Contains(out, `\`), "%q -> %q", in, out)
	}
}
